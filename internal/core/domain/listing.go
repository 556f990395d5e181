package domain

import "time"

// HouseStatus enumerates listing states used by the marketplace.
type HouseStatus string

const (
	HouseStatusAvailable   HouseStatus = "AVAILABLE"
	HouseStatusRented      HouseStatus = "RENTED"
	HouseStatusUnavailable HouseStatus = "UNAVAILABLE"
)

// House is a rental listing as returned by the houses endpoints.
type House struct {
	ID          string      `json:"id"`
	HostID      string      `json:"hostId,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Address     string      `json:"address,omitempty"`
	Price       float64     `json:"price"`
	Area        float64     `json:"area,omitempty"`
	Status      HouseStatus `json:"status,omitempty"`
	ImageURLs   []string    `json:"imageUrls,omitempty"`
}

// Rental is a booking of a house by a tenant.
type Rental struct {
	ID        string     `json:"id"`
	HouseID   string     `json:"houseId"`
	TenantID  string     `json:"tenantId"`
	StartDate string     `json:"startDate,omitempty"`
	EndDate   string     `json:"endDate,omitempty"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// HostApplication is a user's request to be upgraded to the host tier.
type HostApplication struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Status    string     `json:"status,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// DashboardStats aggregates the admin dashboard counters.
type DashboardStats struct {
	TotalUsers          int `json:"totalUsers"`
	TotalHosts          int `json:"totalHosts"`
	TotalHouses         int `json:"totalHouses"`
	ActiveRentals       int `json:"activeRentals"`
	PendingApplications int `json:"pendingApplications"`
}
