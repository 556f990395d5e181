package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/renthaven/renthaven/internal/api"
	"github.com/renthaven/renthaven/internal/core/domain"
)

// ListingService covers the house, rental, and host-application endpoints the
// tenant and host views consume.
type ListingService struct {
	clients *api.Set
}

// NewListingService constructs a ListingService.
func NewListingService(clients *api.Set) *ListingService {
	return &ListingService{clients: clients}
}

// HouseFilter narrows the public house search.
type HouseFilter struct {
	Query    string
	MinPrice float64
	MaxPrice float64
}

// ListHouses fetches the public house listings. Anonymous access is allowed;
// a stored token, when present, is attached for personalized results.
func (s *ListingService) ListHouses(ctx context.Context, filter HouseFilter) ([]domain.House, error) {
	query := url.Values{}
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	if filter.MinPrice > 0 {
		query.Set("minPrice", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		query.Set("maxPrice", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}

	var houses []domain.House
	if err := s.clients.Public.GetJSON(ctx, "/houses", query, &houses); err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	return houses, nil
}

// GetHouse fetches one listing by id.
func (s *ListingService) GetHouse(ctx context.Context, id string) (*domain.House, error) {
	var house domain.House
	if err := s.clients.Public.GetJSON(ctx, "/houses/"+id, nil, &house); err != nil {
		return nil, fmt.Errorf("get house: %w", err)
	}
	return &house, nil
}

// MyHouses lists the authenticated host's own listings.
func (s *ListingService) MyHouses(ctx context.Context) ([]domain.House, error) {
	var houses []domain.House
	if err := s.clients.User.GetJSON(ctx, "/hosts/houses", nil, &houses); err != nil {
		return nil, fmt.Errorf("list own houses: %w", err)
	}
	return houses, nil
}

// CreateHouse publishes a new listing for the authenticated host.
func (s *ListingService) CreateHouse(ctx context.Context, house domain.House) (*domain.House, error) {
	var created domain.House
	if err := s.clients.User.PostJSON(ctx, "/houses", nil, house, &created); err != nil {
		return nil, fmt.Errorf("create house: %w", err)
	}
	return &created, nil
}

// MyRentals lists the authenticated tenant's rentals.
func (s *ListingService) MyRentals(ctx context.Context) ([]domain.Rental, error) {
	var rentals []domain.Rental
	if err := s.clients.User.GetJSON(ctx, "/rentals/my", nil, &rentals); err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	return rentals, nil
}

// RequestRental books a house for the authenticated tenant.
func (s *ListingService) RequestRental(ctx context.Context, rental domain.Rental) (*domain.Rental, error) {
	var created domain.Rental
	if err := s.clients.User.PostJSON(ctx, "/rentals", nil, rental, &created); err != nil {
		return nil, fmt.Errorf("request rental: %w", err)
	}
	return &created, nil
}

// ApplyAsHost submits a host application for the authenticated user.
func (s *ListingService) ApplyAsHost(ctx context.Context, reason string) (*domain.HostApplication, error) {
	var created domain.HostApplication
	payload := map[string]string{"reason": reason}
	if err := s.clients.User.PostJSON(ctx, "/host-applications", nil, payload, &created); err != nil {
		return nil, fmt.Errorf("apply as host: %w", err)
	}
	return &created, nil
}

// MyHostApplication fetches the authenticated user's pending application, if any.
func (s *ListingService) MyHostApplication(ctx context.Context) (*domain.HostApplication, error) {
	var application domain.HostApplication
	if err := s.clients.User.GetJSON(ctx, "/host-applications/my", nil, &application); err != nil {
		return nil, fmt.Errorf("fetch host application: %w", err)
	}
	return &application, nil
}
