package stub

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func houseJSON(h House) gin.H {
	return gin.H{
		"id":          h.ID,
		"hostId":      h.HostID,
		"title":       h.Title,
		"description": h.Description,
		"address":     h.Address,
		"price":       h.Price,
		"area":        h.Area,
		"status":      h.Status,
		"imageUrls":   h.ImageURLs,
	}
}

func rentalJSON(r Rental) gin.H {
	return gin.H{
		"id":        r.ID,
		"houseId":   r.HouseID,
		"tenantId":  r.TenantID,
		"startDate": r.StartDate,
		"endDate":   r.EndDate,
		"status":    r.Status,
	}
}

func applicationJSON(a HostApplication) gin.H {
	return gin.H{
		"id":     a.ID,
		"userId": a.UserID,
		"status": a.Status,
		"reason": a.Reason,
	}
}

func (s *Server) handleListHouses(c *gin.Context) {
	query := strings.ToLower(c.Query("q"))
	minPrice, _ := strconv.ParseFloat(c.Query("minPrice"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice"), 64)

	out := make([]gin.H, 0)
	for _, h := range s.store.ListHouses("") {
		if query != "" &&
			!strings.Contains(strings.ToLower(h.Title), query) &&
			!strings.Contains(strings.ToLower(h.Address), query) {
			continue
		}
		if minPrice > 0 && h.Price < minPrice {
			continue
		}
		if maxPrice > 0 && h.Price > maxPrice {
			continue
		}
		out = append(out, houseJSON(h))
	}
	data(c, http.StatusOK, out)
}

func (s *Server) handleGetHouse(c *gin.Context) {
	house, err := s.store.HouseByID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "house not found")
		return
	}
	data(c, http.StatusOK, houseJSON(*house))
}

func (s *Server) handleMyHouses(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, h := range s.store.ListHouses(c.GetString(ctxUserID)) {
		out = append(out, houseJSON(h))
	}
	data(c, http.StatusOK, out)
}

func (s *Server) handleCreateHouse(c *gin.Context) {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Address     string   `json:"address"`
		Price       float64  `json:"price"`
		Area        float64  `json:"area"`
		ImageURLs   []string `json:"imageUrls"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		fail(c, http.StatusBadRequest, "title is required")
		return
	}

	house := s.store.CreateHouse(House{
		HostID:      c.GetString(ctxUserID),
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Price:       req.Price,
		Area:        req.Area,
		ImageURLs:   req.ImageURLs,
	})
	data(c, http.StatusCreated, houseJSON(house))
}

func (s *Server) handleMyRentals(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, r := range s.store.ListRentals(c.GetString(ctxUserID)) {
		out = append(out, rentalJSON(r))
	}
	data(c, http.StatusOK, out)
}

func (s *Server) handleCreateRental(c *gin.Context) {
	var req struct {
		HouseID   string `json:"houseId"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.HouseID == "" {
		fail(c, http.StatusBadRequest, "houseId is required")
		return
	}
	if _, err := s.store.HouseByID(req.HouseID); err != nil {
		fail(c, http.StatusNotFound, "house not found")
		return
	}

	rental := s.store.CreateRental(Rental{
		HouseID:   req.HouseID,
		TenantID:  c.GetString(ctxUserID),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	data(c, http.StatusCreated, rentalJSON(rental))
}

func (s *Server) handleApplyAsHost(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	app := s.store.CreateApplication(c.GetString(ctxUserID), req.Reason)
	data(c, http.StatusCreated, applicationJSON(app))
}

func (s *Server) handleMyApplication(c *gin.Context) {
	app, err := s.store.ApplicationByUser(c.GetString(ctxUserID))
	if err != nil {
		fail(c, http.StatusNotFound, "no application on file")
		return
	}
	data(c, http.StatusOK, applicationJSON(*app))
}
