// Package stub hosts an in-memory implementation of the marketplace REST API
// used for local development and integration tests. All state lives in process
// memory so the binary runs with no external services.
package stub

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	uuid "github.com/google/uuid"

	"github.com/renthaven/renthaven/internal/infra/security"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken indicates a registration conflict.
	ErrEmailTaken = errors.New("email already registered")
)

// Backend role spellings. The real backend embeds these in its token claims
// and, inconsistently, in some response bodies.
const (
	RoleUser  = "ROLE_USER"
	RoleHost  = "ROLE_HOST"
	RoleAdmin = "ROLE_ADMIN"
)

// User is a stored account.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Phone        string
	Address      string
	AvatarURL    string
	BirthDate    string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

// House is a stored listing.
type House struct {
	ID          string
	HostID      string
	Title       string
	Description string
	Address     string
	Price       float64
	Area        float64
	Status      string
	ImageURLs   []string
}

// HostApplication is a stored host-tier request.
type HostApplication struct {
	ID        string
	UserID    string
	Status    string
	Reason    string
	CreatedAt time.Time
}

// Rental is a stored booking.
type Rental struct {
	ID        string
	HouseID   string
	TenantID  string
	StartDate string
	EndDate   string
	Status    string
	CreatedAt time.Time
}

// Store keeps every record behind one mutex. The stub favors simplicity over
// concurrency throughput.
type Store struct {
	mu           sync.Mutex
	users        map[string]*User
	houses       map[string]*House
	applications map[string]*HostApplication
	rentals      map[string]*Rental
	files        map[string][]byte
}

// NewStore returns an empty store seeded with one admin account
// (admin@renthaven.local / admin-secret-1).
func NewStore() (*Store, error) {
	s := &Store{
		users:        make(map[string]*User),
		houses:       make(map[string]*House),
		applications: make(map[string]*HostApplication),
		rentals:      make(map[string]*Rental),
		files:        make(map[string][]byte),
	}

	if _, err := s.CreateUser("admin", "admin@renthaven.local", "admin-secret-1", RoleAdmin); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return s, nil
}

// CreateUser registers an account with an argon2id-hashed password.
func (s *Store) CreateUser(username, email, password, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrEmailTaken
		}
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[user.ID] = user

	copied := *user
	return &copied, nil
}

// Authenticate verifies the credentials and returns the account.
func (s *Store) Authenticate(email, password string) (*User, error) {
	user, err := s.UserByEmail(email)
	if err != nil {
		return nil, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

// UserByEmail looks up an account by address.
func (s *Store) UserByEmail(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// UserByID looks up an account by id.
func (s *Store) UserByID(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// UpdateUser applies non-empty profile fields to the account.
func (s *Store) UpdateUser(id string, apply func(*User)) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	apply(user)
	copied := *user
	return &copied, nil
}

// UpdatePassword replaces the account's password hash.
func (s *Store) UpdatePassword(id, newPassword string) error {
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = hash
	return nil
}

// DeleteUser removes the account.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// ListUsers returns accounts ordered by creation time.
func (s *Store) ListUsers() []User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// CreateHouse stores a listing for the host.
func (s *Store) CreateHouse(house House) House {
	s.mu.Lock()
	defer s.mu.Unlock()

	house.ID = uuid.NewString()
	if house.Status == "" {
		house.Status = "AVAILABLE"
	}
	s.houses[house.ID] = &house
	return house
}

// HouseByID looks up a listing.
func (s *Store) HouseByID(id string) (*House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	house, ok := s.houses[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *house
	return &copied, nil
}

// ListHouses returns listings, optionally filtered by host.
func (s *Store) ListHouses(hostID string) []House {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]House, 0, len(s.houses))
	for _, h := range s.houses {
		if hostID != "" && h.HostID != hostID {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteHouse removes a listing.
func (s *Store) DeleteHouse(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.houses[id]; !ok {
		return ErrNotFound
	}
	delete(s.houses, id)
	return nil
}

// CreateApplication records a pending host application.
func (s *Store) CreateApplication(userID, reason string) HostApplication {
	s.mu.Lock()
	defer s.mu.Unlock()

	app := HostApplication{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    "PENDING",
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	s.applications[app.ID] = &app
	return app
}

// ApplicationByUser returns the user's most recent application.
func (s *Store) ApplicationByUser(userID string) (*HostApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *HostApplication
	for _, app := range s.applications {
		if app.UserID != userID {
			continue
		}
		if latest == nil || app.CreatedAt.After(latest.CreatedAt) {
			latest = app
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

// ListApplications returns every application.
func (s *Store) ListApplications() []HostApplication {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]HostApplication, 0, len(s.applications))
	for _, app := range s.applications {
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// ResolveApplication approves or rejects an application. Approval upgrades the
// applicant to the host tier.
func (s *Store) ResolveApplication(id string, approve bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok {
		return ErrNotFound
	}

	if approve {
		app.Status = "APPROVED"
		if user, ok := s.users[app.UserID]; ok {
			user.Role = RoleHost
		}
	} else {
		app.Status = "REJECTED"
	}
	return nil
}

// CreateRental books a house for a tenant.
func (s *Store) CreateRental(rental Rental) Rental {
	s.mu.Lock()
	defer s.mu.Unlock()

	rental.ID = uuid.NewString()
	if rental.Status == "" {
		rental.Status = "ACTIVE"
	}
	rental.CreatedAt = time.Now().UTC()
	s.rentals[rental.ID] = &rental
	return rental
}

// ListRentals returns bookings, optionally filtered by tenant.
func (s *Store) ListRentals(tenantID string) []Rental {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Rental, 0, len(s.rentals))
	for _, r := range s.rentals {
		if tenantID != "" && r.TenantID != tenantID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// SaveFile stores uploaded content and returns its served URL.
func (s *Store) SaveFile(filename string, content []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := uuid.NewString() + "-" + filename
	s.files[key] = content
	return "/static/" + key
}

// DeleteFile removes stored content by served URL.
func (s *Store) DeleteFile(fileURL string) error {
	key := strings.TrimPrefix(fileURL, "/static/")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[key]; !ok {
		return ErrNotFound
	}
	delete(s.files, key)
	return nil
}
