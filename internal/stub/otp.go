package stub

import (
	"strings"
	"sync"
	"time"
)

// OTPRecord is a stored one-time code for a password reset.
type OTPRecord struct {
	Email     string
	Code      string
	Verified  bool
	Attempts  int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// OTPStore keeps password-reset codes in memory with single-use semantics.
// Confirm requires a code that previously passed Verify, binding the two steps
// together server-side.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]*OTPRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewOTPStore creates a store whose codes expire after ttl.
func NewOTPStore(ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OTPStore{
		entries: make(map[string]*OTPRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *OTPStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Issue stores a fresh code for the address, replacing any previous one.
func (s *OTPStore) Issue(email, code string) OTPRecord {
	email = normalizeEmail(email)
	now := s.now().UTC()

	record := OTPRecord{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.entries[email] = &record
	s.mu.Unlock()

	return record
}

// Verify checks the code for any pending reset and marks it verified.
func (s *OTPStore) Verify(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	for _, record := range s.entries {
		if record.Code != code {
			continue
		}
		record.Attempts++
		if now.After(record.ExpiresAt) {
			return false
		}
		record.Verified = true
		return true
	}
	return false
}

// Consume redeems a previously verified, unexpired code and deletes it,
// returning the address it was issued for.
func (s *OTPStore) Consume(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	for email, record := range s.entries {
		if record.Code != code {
			continue
		}
		if !record.Verified || now.After(record.ExpiresAt) {
			return "", false
		}
		delete(s.entries, email)
		return email, true
	}
	return "", false
}

// ActiveCode returns the pending code for the address, if any. In development
// the code is surfaced through logs; tests read it here.
func (s *OTPStore) ActiveCode(email string) (string, bool) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.entries[email]
	if !ok || s.now().UTC().After(record.ExpiresAt) {
		return "", false
	}
	return record.Code, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
