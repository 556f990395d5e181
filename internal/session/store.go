package session

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/renthaven/renthaven/internal/core/domain"
	"github.com/renthaven/renthaven/internal/core/port"
)

// Storage keys. The user/host session and the admin session are independent:
// they never share keys and are cleared independently.
const (
	KeyToken      = "token"
	KeyUser       = "user"
	KeyAdminToken = "adminToken"
	KeyAdminUser  = "adminUser"
)

// Store wraps the raw key/value storage with JSON serialization and defensive
// parsing. Corrupt entries are self-healed: a value that fails to parse is
// deleted rather than surfaced as an error, so a second read behaves as if the
// key was never set.
//
// Every mutation notifies registered listeners. Notification fires from the
// store itself, never from call sites, so login and logout are observed
// uniformly by anything watching session state.
type Store struct {
	storage port.Storage
	logger  *zap.Logger

	mu        sync.Mutex
	listeners []func()
}

// NewStore wraps storage; a nil logger falls back to a no-op logger.
func NewStore(storage port.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, logger: logger}
}

// OnChange registers a listener invoked after every session mutation.
func (s *Store) OnChange(listener func()) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

// Get decodes the stored value for key into out. It reports false when the key
// is absent, holds the literal strings "undefined" or "null", or fails to
// parse. On a parse failure the offending key is deleted so poison data cannot
// persist.
func (s *Store) Get(key string, out any) bool {
	raw, ok := s.storage.Get(key)
	if !ok || raw == "" || raw == "undefined" || raw == "null" {
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("removing corrupt storage entry",
			zap.String("key", key), zap.Error(err))
		if derr := s.storage.Delete(key); derr != nil {
			s.logger.Warn("delete corrupt storage entry failed",
				zap.String("key", key), zap.Error(derr))
		}
		return false
	}

	return true
}

// Set serializes value and writes it under key. A nil value deletes the key.
// Storage failures are logged and swallowed so callers never have to handle
// them.
func (s *Store) Set(key string, value any) {
	if value == nil {
		s.Remove(key)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("serialize storage entry failed",
			zap.String("key", key), zap.Error(err))
		return
	}

	if err := s.storage.Set(key, string(data)); err != nil {
		s.logger.Warn("write storage entry failed",
			zap.String("key", key), zap.Error(err))
		return
	}

	s.broadcast()
}

// Remove deletes the key. Failures are logged, never returned.
func (s *Store) Remove(key string) {
	if err := s.storage.Delete(key); err != nil {
		s.logger.Warn("delete storage entry failed",
			zap.String("key", key), zap.Error(err))
		return
	}
	s.broadcast()
}

// Token returns the user/host bearer token, or "" when absent.
func (s *Store) Token() string {
	var token string
	if !s.Get(KeyToken, &token) {
		return ""
	}
	return token
}

// AdminToken returns the admin bearer token, or "" when absent.
func (s *Store) AdminToken() string {
	var token string
	if !s.Get(KeyAdminToken, &token) {
		return ""
	}
	return token
}

// User returns the stored user/host profile, or nil when absent or corrupt.
func (s *Store) User() *domain.Profile {
	var user domain.Profile
	if !s.Get(KeyUser, &user) {
		return nil
	}
	return &user
}

// AdminUser returns the stored admin profile, or nil when absent or corrupt.
func (s *Store) AdminUser() *domain.Profile {
	var user domain.Profile
	if !s.Get(KeyAdminUser, &user) {
		return nil
	}
	return &user
}

// SetUserSession stores the user/host token and profile.
func (s *Store) SetUserSession(token string, user *domain.Profile) {
	s.Set(KeyToken, token)
	s.Set(KeyUser, user)
}

// SetUser persists a refreshed user/host profile, leaving the token untouched.
func (s *Store) SetUser(user *domain.Profile) {
	s.Set(KeyUser, user)
}

// SetAdminSession stores the admin token and profile.
func (s *Store) SetAdminSession(token string, user *domain.Profile) {
	s.Set(KeyAdminToken, token)
	s.Set(KeyAdminUser, user)
}

// ClearUserSession removes the user/host token and profile.
func (s *Store) ClearUserSession() {
	s.Remove(KeyToken)
	s.Remove(KeyUser)
}

// ClearAdminSession removes the admin token and profile.
func (s *Store) ClearAdminSession() {
	s.Remove(KeyAdminToken)
	s.Remove(KeyAdminUser)
}

// IsUserAuthenticated reports whether both a non-empty token and a parseable
// profile are present. A token without a profile does not count.
func (s *Store) IsUserAuthenticated() bool {
	return domain.Session{Token: s.Token(), User: s.User()}.Authenticated()
}

// IsAdminAuthenticated is the admin variant; it additionally requires the
// stored profile to carry the ADMIN role.
func (s *Store) IsAdminAuthenticated() bool {
	user := s.AdminUser()
	if !(domain.Session{Token: s.AdminToken(), User: user}).Authenticated() {
		return false
	}
	return user.IsAdmin()
}

func (s *Store) broadcast() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener()
	}
}
