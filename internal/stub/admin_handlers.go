package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleAdminListUsers(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, u := range s.store.ListUsers() {
		user := u
		out = append(out, userJSON(&user, false))
	}
	data(c, http.StatusOK, out)
}

func (s *Server) handleAdminGetUser(c *gin.Context) {
	user, err := s.store.UserByID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	data(c, http.StatusOK, userJSON(user, false))
}

func (s *Server) handleAdminUpdateUser(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
		RoleName string `json:"roleName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	user, err := s.store.UpdateUser(c.Param("id"), func(u *User) {
		if req.FullName != "" {
			u.FullName = req.FullName
		}
		if req.Phone != "" {
			u.Phone = req.Phone
		}
		if req.Address != "" {
			u.Address = req.Address
		}
		switch req.RoleName {
		case "USER":
			u.Role = RoleUser
		case "HOST":
			u.Role = RoleHost
		case "ADMIN":
			u.Role = RoleAdmin
		}
	})
	if err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	data(c, http.StatusOK, userJSON(user, false))
}

func (s *Server) handleAdminDeleteUser(c *gin.Context) {
	if err := s.store.DeleteUser(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (s *Server) handleAdminListHouses(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, h := range s.store.ListHouses("") {
		out = append(out, houseJSON(h))
	}
	data(c, http.StatusOK, out)
}

func (s *Server) handleAdminDeleteHouse(c *gin.Context) {
	if err := s.store.DeleteHouse(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, "house not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "house deleted"})
}

func (s *Server) handleAdminListTenants(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, u := range s.store.ListUsers() {
		if u.Role != RoleUser {
			continue
		}
		user := u
		out = append(out, userJSON(&user, false))
	}
	data(c, http.StatusOK, out)
}

func (s *Server) handleAdminListContracts(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, r := range s.store.ListRentals("") {
		out = append(out, rentalJSON(r))
	}
	data(c, http.StatusOK, out)
}

func (s *Server) handleAdminListApplications(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, a := range s.store.ListApplications() {
		out = append(out, applicationJSON(a))
	}
	data(c, http.StatusOK, out)
}

func (s *Server) handleAdminApproveApplication(c *gin.Context) {
	if err := s.store.ResolveApplication(c.Param("id"), true); err != nil {
		fail(c, http.StatusNotFound, "application not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "application approved"})
}

func (s *Server) handleAdminRejectApplication(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := s.store.ResolveApplication(c.Param("id"), false); err != nil {
		fail(c, http.StatusNotFound, "application not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "application rejected"})
}

func (s *Server) handleAdminDashboardStats(c *gin.Context) {
	users := s.store.ListUsers()
	hosts := 0
	for _, u := range users {
		if u.Role == RoleHost {
			hosts++
		}
	}

	data(c, http.StatusOK, gin.H{
		"totalUsers":          len(users),
		"totalHosts":          hosts,
		"totalHouses":         len(s.store.ListHouses("")),
		"activeRentals":       len(s.store.ListRentals("")),
		"pendingApplications": countPending(s.store.ListApplications()),
	})
}

func countPending(apps []HostApplication) int {
	n := 0
	for _, a := range apps {
		if a.Status == "PENDING" {
			n++
		}
	}
	return n
}
