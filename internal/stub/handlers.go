package stub

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/renthaven/renthaven/internal/infra/logger"
	"github.com/renthaven/renthaven/internal/infra/security"
)

// ErrorResponse is the error body the stub returns; clients read `error` or
// `message` interchangeably.
type ErrorResponse struct {
	Error string `json:"error"`
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

func data(c *gin.Context, status int, payload any) {
	c.JSON(status, gin.H{"data": payload})
}

// userJSON renders the account the way the backend does: profile endpoints
// carry the canonical roleName, while login bodies only carry the raw role
// claim spelling, leaving normalization to the client.
func userJSON(u *User, loginShape bool) gin.H {
	out := gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"fullName":  u.FullName,
		"phone":     u.Phone,
		"address":   u.Address,
		"avatarUrl": u.AvatarURL,
		"birthDate": u.BirthDate,
	}
	if loginShape {
		out["role"] = u.Role
	} else {
		out["roleName"] = strings.TrimPrefix(u.Role, "ROLE_")
	}
	return out
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "token issuance failed")
		return
	}

	s.logger.Info("stub login",
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.String("role", user.Role),
		zap.String("token", logger.MaskToken(token)))

	// The real backend is not consistent about its login envelope; the shape
	// query knob lets integration tests exercise every tolerated variant.
	switch c.Query("shape") {
	case "flat":
		c.JSON(http.StatusOK, gin.H{"token": token, "user": userJSON(user, true)})
	case "access":
		c.JSON(http.StatusOK, gin.H{"accessToken": token})
	default:
		data(c, http.StatusOK, gin.H{"token": token, "user": userJSON(user, true)})
	}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		FullName    string `json:"fullName"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
		DateOfBirth string `json:"dateOfBirth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.store.CreateUser(req.Username, req.Email, req.Password, RoleUser)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			fail(c, http.StatusConflict, "email already registered")
			return
		}
		fail(c, http.StatusInternalServerError, "registration failed")
		return
	}

	_, _ = s.store.UpdateUser(user.ID, func(u *User) {
		u.FullName = req.FullName
		u.Phone = req.Phone
		u.Address = req.Address
		u.BirthDate = req.DateOfBirth
	})

	c.JSON(http.StatusCreated, gin.H{
		"data":    gin.H{"id": user.ID},
		"message": "registration successful",
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	user, err := s.store.UserByID(c.GetString(ctxUserID))
	if err != nil {
		fail(c, http.StatusUnauthorized, "account no longer exists")
		return
	}
	data(c, http.StatusOK, userJSON(user, false))
}

func (s *Server) handleHostProfile(c *gin.Context) {
	user, err := s.store.UserByID(c.GetString(ctxUserID))
	if err != nil {
		fail(c, http.StatusUnauthorized, "account no longer exists")
		return
	}
	if user.Role != RoleHost {
		fail(c, http.StatusForbidden, "host access required")
		return
	}
	data(c, http.StatusOK, userJSON(user, false))
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	targetID := c.Param("id")
	if targetID != c.GetString(ctxUserID) && c.GetString(ctxRole) != RoleAdmin {
		fail(c, http.StatusForbidden, "cannot edit another user's profile")
		return
	}

	var req struct {
		FullName    string `json:"fullName"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
		AvatarURL   string `json:"avatarUrl"`
		DateOfBirth string `json:"dateOfBirth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid profile payload")
		return
	}

	user, err := s.store.UpdateUser(targetID, func(u *User) {
		if req.FullName != "" {
			u.FullName = req.FullName
		}
		if req.Phone != "" {
			u.Phone = req.Phone
		}
		if req.Address != "" {
			u.Address = req.Address
		}
		if req.AvatarURL != "" {
			u.AvatarURL = req.AvatarURL
		}
		if req.DateOfBirth != "" {
			u.BirthDate = req.DateOfBirth
		}
	})
	if err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}

	data(c, http.StatusOK, userJSON(user, false))
}

func (s *Server) handleChangePassword(c *gin.Context) {
	targetID := c.Param("id")
	if targetID != c.GetString(ctxUserID) {
		fail(c, http.StatusForbidden, "cannot change another user's password")
		return
	}

	var req struct {
		OldPassword     string `json:"oldPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		fail(c, http.StatusBadRequest, "passwords do not match")
		return
	}
	if len(req.NewPassword) < 6 {
		fail(c, http.StatusBadRequest, "password must be at least 6 characters long")
		return
	}

	user, err := s.store.UserByID(targetID)
	if err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}

	ok, err := security.VerifyPassword(req.OldPassword, user.PasswordHash)
	if err != nil || !ok {
		fail(c, http.StatusBadRequest, "current password is incorrect")
		return
	}

	if err := s.store.UpdatePassword(targetID, req.NewPassword); err != nil {
		fail(c, http.StatusInternalServerError, "password update failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (s *Server) handleCheckEmail(c *gin.Context) {
	email := c.Query("email")
	_, err := s.store.UserByEmail(email)
	data(c, http.StatusOK, err == nil)
}

func (s *Server) handleResetRequest(c *gin.Context) {
	email := c.Query("email")
	if _, err := s.store.UserByEmail(email); err != nil {
		fail(c, http.StatusNotFound, "email is not registered")
		return
	}

	code, err := security.GenerateNumericCode(s.otpLength)
	if err != nil {
		fail(c, http.StatusInternalServerError, "code generation failed")
		return
	}
	record := s.otps.Issue(email, code)

	// Development delivery: the code is logged instead of mailed.
	s.logger.Info("password reset code issued",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("code", code),
		zap.Time("expires_at", record.ExpiresAt))

	c.JSON(http.StatusOK, gin.H{"message": "reset code sent"})
}

func (s *Server) handleResetVerify(c *gin.Context) {
	if !s.otps.Verify(c.Query("otp")) {
		fail(c, http.StatusBadRequest, "invalid or expired code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code verified"})
}

func (s *Server) handleResetConfirm(c *gin.Context) {
	newPassword := c.Query("newPassword")
	if len(newPassword) < 6 {
		fail(c, http.StatusBadRequest, "password must be at least 6 characters long")
		return
	}

	email, ok := s.otps.Consume(c.Query("otp"))
	if !ok {
		fail(c, http.StatusBadRequest, "invalid or expired code")
		return
	}

	user, err := s.store.UserByEmail(email)
	if err != nil {
		fail(c, http.StatusNotFound, "account no longer exists")
		return
	}
	if err := s.store.UpdatePassword(user.ID, newPassword); err != nil {
		fail(c, http.StatusInternalServerError, "password update failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		fail(c, http.StatusBadRequest, "unreadable file")
		return
	}

	url := s.store.SaveFile(header.Filename, content)
	data(c, http.StatusOK, gin.H{"fileUrl": url})
}

func (s *Server) handleUploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "multipart form required")
		return
	}

	urls := make([]string, 0)
	for _, headers := range form.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				fail(c, http.StatusBadRequest, "unreadable file")
				return
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				fail(c, http.StatusBadRequest, "unreadable file")
				return
			}
			urls = append(urls, s.store.SaveFile(header.Filename, content))
		}
	}

	if len(urls) == 0 {
		fail(c, http.StatusBadRequest, "no files provided")
		return
	}
	data(c, http.StatusOK, gin.H{"fileUrls": urls})
}

func (s *Server) handleDeleteFile(c *gin.Context) {
	var req struct {
		FileURL string `json:"fileUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FileURL == "" {
		fail(c, http.StatusBadRequest, "fileUrl is required")
		return
	}
	if err := s.store.DeleteFile(req.FileURL); err != nil {
		fail(c, http.StatusNotFound, "file not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}
