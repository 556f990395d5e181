package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/renthaven/renthaven/internal/api"
	"github.com/renthaven/renthaven/internal/core/domain"
	"github.com/renthaven/renthaven/internal/core/port"
	"github.com/renthaven/renthaven/internal/infra/logger"
	"github.com/renthaven/renthaven/internal/session"
)

// AuthService orchestrates login, registration, profile fetch/update, password
// change, and logout, normalizing the backend's heterogeneous response shapes
// into the canonical profile before anything is persisted.
type AuthService struct {
	clients *api.Set
	store   *session.Store
	nav     port.Navigator
	logger  *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(clients *api.Set, store *session.Store, nav port.Navigator, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{clients: clients, store: store, nav: nav, logger: log}
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Username    string `json:"username,omitempty"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName    string `json:"fullName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// Login authenticates the user and persists the user/host session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Profile, error) {
	token, user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.store.SetUserSession(token, user)
	s.logger.Info("login succeeded",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("role", string(user.RoleName)))
	return user, nil
}

// LoginAsHost performs the same login call but refuses to persist a session
// unless the account resolves to the HOST role.
func (s *AuthService) LoginAsHost(ctx context.Context, email, password string) (*domain.Profile, error) {
	token, user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if user.RoleName != domain.RoleHost {
		return nil, ErrNotHostAccount
	}

	s.store.SetUserSession(token, user)
	return user, nil
}

// LoginAsAdmin authenticates against the same endpoint but persists the
// independent admin session, rejecting non-admin accounts.
func (s *AuthService) LoginAsAdmin(ctx context.Context, email, password string) (*domain.Profile, error) {
	token, user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if user.RoleName != domain.RoleAdmin {
		return nil, ErrNotAdminAccount
	}

	s.store.SetAdminSession(token, user)
	return user, nil
}

// authenticate posts the credentials and resolves a token plus a normalized
// profile without touching the session store. When the login response carries
// no user object a profile fetch with the fresh token is attempted; if that
// also fails a placeholder profile is synthesized from the email so the caller
// is never left without a usable object.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return "", nil, fmt.Errorf("password is required")
	}

	body, err := s.clients.Public.Do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	token, rawUser, err := extractLoginPayload(body)
	if err != nil {
		return "", nil, err
	}

	if len(rawUser) == 0 || string(rawUser) == "null" {
		user, ferr := s.fetchProfileWithToken(ctx, token)
		if ferr != nil {
			s.logger.Warn("post-login profile fetch failed, using placeholder",
				zap.String("email", logger.MaskEmail(email)), zap.Error(ferr))
			return token, placeholderProfile(email), nil
		}
		return token, user, nil
	}

	user, err := normalizeProfile(rawUser, token)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) fetchProfileWithToken(ctx context.Context, token string) (*domain.Profile, error) {
	body, err := s.clients.Public.WithBearer(token).Do(ctx, http.MethodGet, "/users/profile", nil, nil)
	if err != nil {
		return nil, err
	}
	return normalizeProfile(body, token)
}

// Register submits the registration payload and returns the server message.
// Registration does not log the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if strings.TrimSpace(input.Email) == "" {
		return "", fmt.Errorf("email is required")
	}
	if input.Password == "" {
		return "", fmt.Errorf("password is required")
	}

	body, err := s.clients.Public.Do(ctx, http.MethodPost, "/auth/register", nil, input)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	var env api.Envelope
	_ = json.Unmarshal(body, &env)
	return env.Message, nil
}

// CurrentUser fetches and persists the latest profile for the stored token. A
// 401 or 403 is interpreted as a dead session (the role may have changed
// server-side): the session is cleared and the caller is redirected to log in
// again.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.Profile, error) {
	return s.refreshProfile(ctx, "/users/profile")
}

// HostProfile is the host-scoped variant of CurrentUser.
func (s *AuthService) HostProfile(ctx context.Context) (*domain.Profile, error) {
	return s.refreshProfile(ctx, "/hosts/profile")
}

func (s *AuthService) refreshProfile(ctx context.Context, path string) (*domain.Profile, error) {
	body, err := s.clients.User.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrForbidden) {
			s.store.ClearUserSession()
			s.nav.Navigate("/login?roleChanged=true")
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	user, err := normalizeProfile(body, s.store.Token())
	if err != nil {
		return nil, err
	}

	s.store.SetUser(user)
	return user, nil
}

// UpdateProfile validates and submits the profile changes, then persists the
// normalized result. A date of birth, when present, must parse and must not be
// in the future; it is normalized to YYYY-MM-DD before submission.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdate) (*domain.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	if input.DateOfBirth != "" {
		normalized, err := normalizeBirthDate(input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		input.DateOfBirth = normalized
	}

	body, err := s.clients.User.Do(ctx, http.MethodPut, "/users/"+userID+"/profile", nil, input)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	user, err := normalizeProfile(body, s.store.Token())
	if err != nil {
		return nil, err
	}

	s.store.SetUser(user)
	return user, nil
}

// ChangePassword submits the password change. All three fields are forwarded
// as-is; the backend arbitrates the confirmation match.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.clients.User.Do(ctx, http.MethodPut, "/users/"+userID+"/change-password", nil, map[string]string{
		"oldPassword":     oldPassword,
		"newPassword":     newPassword,
		"confirmPassword": confirmPassword,
	})
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// Logout clears the user/host session. Interested listeners observe the change
// through the store's uniform broadcast.
func (s *AuthService) Logout() {
	s.store.ClearUserSession()
	s.logger.Info("logged out")
}

// normalizeBirthDate parses the accepted date spellings and rejects dates in
// the future, returning the canonical YYYY-MM-DD form.
func normalizeBirthDate(value string) (string, error) {
	value = strings.TrimSpace(value)

	var parsed time.Time
	var err error
	for _, layout := range []string{"2006-01-02", "02/01/2006", time.RFC3339} {
		parsed, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", ErrInvalidBirthDate
	}

	if parsed.After(time.Now()) {
		return "", ErrInvalidBirthDate
	}

	return parsed.Format("2006-01-02"), nil
}
