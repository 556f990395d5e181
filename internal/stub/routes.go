package stub

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/renthaven/renthaven/internal/infra/config"
)

// Gin context keys populated by the auth middleware.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Server wires the in-memory store, the OTP store and the token issuer behind
// a gin router exposing the marketplace REST surface.
type Server struct {
	store     *Store
	otps      *OTPStore
	tokens    *TokenIssuer
	logger    *zap.Logger
	otpLength int
}

func NewServer(cfg config.StubSettings, log *zap.Logger) (*Server, error) {
	store, err := NewStore()
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	tokens, err := NewTokenIssuer(tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	otpTTL := cfg.OTPTTL
	if otpTTL <= 0 {
		otpTTL = 10 * time.Minute
	}
	otpLength := cfg.OTPLength
	if otpLength <= 0 {
		otpLength = 6
	}

	return &Server{
		store:     store,
		otps:      NewOTPStore(otpTTL),
		tokens:    tokens,
		logger:    log,
		otpLength: otpLength,
	}, nil
}

// Store exposes the backing store so tests can seed records directly.
func (s *Server) Store() *Store { return s.store }

// OTPs exposes the OTP store so tests can read issued codes.
func (s *Server) OTPs() *OTPStore { return s.otps }

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/register", s.handleRegister)

	api.GET("/houses", s.handleListHouses)
	api.GET("/houses/:id", s.handleGetHouse)

	api.GET("/users/check-email", s.handleCheckEmail)
	api.POST("/users/password-reset/request", s.handleResetRequest)
	api.POST("/users/password-reset/verify", s.handleResetVerify)
	api.POST("/users/password-reset/confirm", s.handleResetConfirm)

	authed := api.Group("")
	authed.Use(s.requireAuth())
	{
		authed.GET("/users/profile", s.handleProfile)
		authed.PUT("/users/:id/profile", s.handleUpdateProfile)
		authed.PUT("/users/:id/change-password", s.handleChangePassword)

		authed.POST("/rentals", s.handleCreateRental)
		authed.GET("/rentals/my", s.handleMyRentals)

		authed.POST("/host-applications", s.handleApplyAsHost)
		authed.GET("/host-applications/my", s.handleMyApplication)

		authed.POST("/files/upload", s.handleUpload)
		authed.POST("/files/upload/avatar", s.handleUpload)
		authed.POST("/files/upload/house-images", s.handleUploadMultiple)
		authed.POST("/files/upload/multiple", s.handleUploadMultiple)
		authed.DELETE("/files/delete", s.handleDeleteFile)
	}

	hosts := api.Group("/hosts")
	hosts.Use(s.requireAuth(), s.requireRole(RoleHost))
	{
		hosts.GET("/profile", s.handleHostProfile)
		hosts.GET("/houses", s.handleMyHouses)
	}
	houses := api.Group("/houses")
	houses.Use(s.requireAuth(), s.requireRole(RoleHost))
	{
		houses.POST("", s.handleCreateHouse)
	}

	admin := api.Group("/admin")
	admin.Use(s.requireAuth(), s.requireRole(RoleAdmin))
	{
		admin.GET("/users", s.handleAdminListUsers)
		admin.GET("/users/:id", s.handleAdminGetUser)
		admin.PUT("/users/:id", s.handleAdminUpdateUser)
		admin.DELETE("/users/:id", s.handleAdminDeleteUser)

		admin.GET("/houses", s.handleAdminListHouses)
		admin.DELETE("/houses/:id", s.handleAdminDeleteHouse)

		admin.GET("/tenants", s.handleAdminListTenants)
		admin.GET("/contracts", s.handleAdminListContracts)

		admin.GET("/host-applications", s.handleAdminListApplications)
		admin.PATCH("/host-applications/:id/approve", s.handleAdminApproveApplication)
		admin.PATCH("/host-applications/:id/reject", s.handleAdminRejectApplication)

		admin.GET("/dashboard/stats", s.handleAdminDashboardStats)
	}

	return r
}

// requireAuth validates the bearer token and stashes the subject and role on
// the request context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, http.StatusUnauthorized, "authorization header required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			fail(c, http.StatusUnauthorized, "bearer token required")
			return
		}

		claims, err := s.tokens.Parse(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// requireRole rejects requests whose token role does not match. The client
// treats this 403 as a role change on its stored session.
func (s *Server) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != role {
			fail(c, http.StatusForbidden, "insufficient role")
			return
		}
		c.Next()
	}
}
