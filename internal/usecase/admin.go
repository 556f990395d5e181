package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/renthaven/renthaven/internal/api"
	"github.com/renthaven/renthaven/internal/core/domain"
)

// AdminService wraps the admin back-office CRUD surface. Every call goes
// through the admin-scoped client, so an expired admin token uniformly clears
// the admin session.
type AdminService struct {
	clients *api.Set
}

// NewAdminService constructs an AdminService.
func NewAdminService(clients *api.Set) *AdminService {
	return &AdminService{clients: clients}
}

// Page is a 1-based pagination request.
type Page struct {
	Number int
	Size   int
}

func (p Page) query() url.Values {
	query := url.Values{}
	if p.Number > 0 {
		query.Set("page", strconv.Itoa(p.Number))
	}
	if p.Size > 0 {
		query.Set("size", strconv.Itoa(p.Size))
	}
	return query
}

// ListUsers returns user accounts, paginated.
func (s *AdminService) ListUsers(ctx context.Context, page Page) ([]domain.Profile, error) {
	var users []domain.Profile
	if err := s.clients.Admin.GetJSON(ctx, "/admin/users", page.query(), &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns one user account.
func (s *AdminService) GetUser(ctx context.Context, id string) (*domain.Profile, error) {
	var user domain.Profile
	if err := s.clients.Admin.GetJSON(ctx, "/admin/users/"+id, nil, &user); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpdateUser submits edits to a user account.
func (s *AdminService) UpdateUser(ctx context.Context, id string, update ProfileUpdate) (*domain.Profile, error) {
	var user domain.Profile
	if err := s.clients.Admin.PutJSON(ctx, "/admin/users/"+id, update, &user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes a user account.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.clients.Admin.Delete(ctx, "/admin/users/"+id, nil); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ListHouses returns all listings, paginated.
func (s *AdminService) ListHouses(ctx context.Context, page Page) ([]domain.House, error) {
	var houses []domain.House
	if err := s.clients.Admin.GetJSON(ctx, "/admin/houses", page.query(), &houses); err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	return houses, nil
}

// DeleteHouse removes a listing.
func (s *AdminService) DeleteHouse(ctx context.Context, id string) error {
	if err := s.clients.Admin.Delete(ctx, "/admin/houses/"+id, nil); err != nil {
		return fmt.Errorf("delete house: %w", err)
	}
	return nil
}

// ListTenants returns tenant records, paginated.
func (s *AdminService) ListTenants(ctx context.Context, page Page) ([]domain.Profile, error) {
	var tenants []domain.Profile
	if err := s.clients.Admin.GetJSON(ctx, "/admin/tenants", page.query(), &tenants); err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

// ListContracts returns rental contracts, paginated.
func (s *AdminService) ListContracts(ctx context.Context, page Page) ([]domain.Rental, error) {
	var contracts []domain.Rental
	if err := s.clients.Admin.GetJSON(ctx, "/admin/contracts", page.query(), &contracts); err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}

// ListHostApplications returns pending host applications.
func (s *AdminService) ListHostApplications(ctx context.Context, page Page) ([]domain.HostApplication, error) {
	var applications []domain.HostApplication
	if err := s.clients.Admin.GetJSON(ctx, "/admin/host-applications", page.query(), &applications); err != nil {
		return nil, fmt.Errorf("list host applications: %w", err)
	}
	return applications, nil
}

// ApproveHostApplication upgrades the applicant to the host tier.
func (s *AdminService) ApproveHostApplication(ctx context.Context, id string) error {
	if err := s.clients.Admin.PatchJSON(ctx, "/admin/host-applications/"+id+"/approve", nil, nil); err != nil {
		return fmt.Errorf("approve host application: %w", err)
	}
	return nil
}

// RejectHostApplication declines the application with a reason.
func (s *AdminService) RejectHostApplication(ctx context.Context, id, reason string) error {
	payload := map[string]string{"reason": reason}
	if err := s.clients.Admin.PatchJSON(ctx, "/admin/host-applications/"+id+"/reject", payload, nil); err != nil {
		return fmt.Errorf("reject host application: %w", err)
	}
	return nil
}

// DashboardStats returns the back-office dashboard counters.
func (s *AdminService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := s.clients.Admin.GetJSON(ctx, "/admin/dashboard/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
