package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	uuid "github.com/google/uuid"

	"github.com/renthaven/renthaven/internal/core/domain"
	"github.com/renthaven/renthaven/internal/infra/security"
)

// flexID tolerates the backend returning ids as either JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// rawProfile accepts every field spelling the backend has been observed to use.
type rawProfile struct {
	ID          flexID `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	AvatarURL   string `json:"avatarUrl"`
	Avatar      string `json:"avatar"`
	BirthDate   string `json:"birthDate"`
	DateOfBirth string `json:"dateOfBirth"`
	RoleName    string `json:"roleName"`
	Role        string `json:"role"`
}

// loginEnvelope covers the three tolerated login response shapes:
// {data:{token,user}}, {token,user}, and {accessToken,user}.
type loginEnvelope struct {
	Data        json.RawMessage `json:"data"`
	Token       string          `json:"token"`
	AccessToken string          `json:"accessToken"`
	User        json.RawMessage `json:"user"`
}

// extractLoginPayload resolves the bearer token and the (possibly absent) user
// object from a login response. The shapes are tried in a fixed order and the
// first one yielding a token wins; anything else is an unsupported format.
func extractLoginPayload(body []byte) (string, json.RawMessage, error) {
	var outer loginEnvelope
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnsupportedResponse, err)
	}

	if len(outer.Data) > 0 && string(outer.Data) != "null" {
		var inner loginEnvelope
		if err := json.Unmarshal(outer.Data, &inner); err == nil {
			if inner.Token != "" {
				return inner.Token, inner.User, nil
			}
			if inner.AccessToken != "" {
				return inner.AccessToken, inner.User, nil
			}
		}
	}

	if outer.Token != "" {
		return outer.Token, outer.User, nil
	}
	if outer.AccessToken != "" {
		return outer.AccessToken, outer.User, nil
	}

	return "", nil, ErrUnsupportedResponse
}

// normalizeProfile reconciles a raw user payload into the canonical profile.
// It tolerates the nested {data:user} wrapper, backfills the role from the
// token claim, substitutes a temporary client-generated id when the backend
// omits one, and blanks a fullName that duplicates the email (a known backend
// data-entry defect).
func normalizeProfile(payload json.RawMessage, token string) (*domain.Profile, error) {
	if len(payload) == 0 || string(payload) == "null" {
		return nil, ErrUnsupportedResponse
	}

	raw, err := decodeRawProfile(payload)
	if err != nil {
		return nil, err
	}

	profile := domain.Profile{
		ID:        string(raw.ID),
		Username:  strings.TrimSpace(raw.Username),
		Email:     strings.TrimSpace(raw.Email),
		FullName:  strings.TrimSpace(raw.FullName),
		Phone:     strings.TrimSpace(raw.Phone),
		Address:   strings.TrimSpace(raw.Address),
		AvatarURL: firstNonEmpty(raw.AvatarURL, raw.Avatar),
		BirthDate: firstNonEmpty(raw.BirthDate, raw.DateOfBirth),
	}

	if role, ok := domain.ParseRole(firstNonEmpty(raw.RoleName, raw.Role)); ok {
		profile.RoleName = role
	}
	profile = security.EnsureRoleName(profile, token)

	if profile.ID == "" {
		// Tolerated inconsistency: the backend sometimes omits the id. The
		// substitute is usable but not a guaranteed-unique identity.
		profile.ID = "tmp-" + uuid.NewString()
	}

	if profile.FullName != "" && strings.EqualFold(profile.FullName, profile.Email) {
		profile.FullName = ""
	}

	return &profile, nil
}

func decodeRawProfile(payload json.RawMessage) (*rawProfile, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapper); err == nil &&
		len(wrapper.Data) > 0 && string(wrapper.Data) != "null" {
		payload = wrapper.Data
	}

	var raw rawProfile
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedResponse, err)
	}
	return &raw, nil
}

// placeholderProfile synthesizes a minimal usable profile from the login email
// when both the login response and the follow-up profile fetch yield no user.
func placeholderProfile(email string) *domain.Profile {
	username := email
	if idx := strings.Index(email, "@"); idx > 0 {
		username = email[:idx]
	}

	profile := domain.Profile{
		ID:       "tmp-" + uuid.NewString(),
		Username: username,
		Email:    email,
		RoleName: domain.RoleUser,
	}
	return &profile
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
