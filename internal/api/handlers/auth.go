package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivekgym/gymdesk/internal/config"
	"github.com/vivekgym/gymdesk/internal/security"
)

// AuthHandler issues admin session tokens.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// loginRequest captures admin credentials.
type loginRequest struct {
	Username string `json:"username" binding:"required"` // Admin login name.
	Password string `json:"password" binding:"required"` // Admin password.
}

// Login verifies the configured admin credential and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	admin := h.cfg.Admin
	if admin.PasswordHash == "" || h.cfg.JWT.Secret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin login is not configured"})
		return
	}
	if body.Username != admin.Username || !security.CheckPassword(admin.PasswordHash, body.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, errSign := security.SignAdminToken(h.cfg.JWT.Secret, admin.Username, h.cfg.JWT.Expiry)
	if errSign != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
