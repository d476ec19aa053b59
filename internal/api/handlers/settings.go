package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivekgym/gymdesk/internal/config"
)

// SettingsHandler manages gym settings endpoints. Updates persist back to
// the configuration file immediately.
type SettingsHandler struct {
	cfg *config.Config
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

// settingsResponse is the externally visible gym configuration.
type settingsResponse struct {
	Name           string `json:"name"`            // Gym display name.
	Address        string `json:"address"`         // Gym street address.
	Phone          string `json:"phone"`           // Gym contact phone.
	CurrencySymbol string `json:"currency_symbol"` // Price symbol.
	ThemeColor     string `json:"theme_color"`     // UI theme color hint.
	CountryCode    string `json:"country_code"`    // Reminder eligibility prefix.
}

// Get returns the current gym settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	gym := h.cfg.GymSnapshot()
	c.JSON(http.StatusOK, settingsResponse{
		Name:           gym.Name,
		Address:        gym.Address,
		Phone:          gym.Phone,
		CurrencySymbol: gym.CurrencySymbol,
		ThemeColor:     gym.ThemeColor,
		CountryCode:    gym.CountryCode,
	})
}

// updateSettingsRequest captures gym identity edits; empty fields keep their
// current values.
type updateSettingsRequest struct {
	Name           string `json:"name"`            // New gym name.
	Address        string `json:"address"`         // New address.
	CurrencySymbol string `json:"currency_symbol"` // New price symbol.
	ThemeColor     string `json:"theme_color"`     // New theme color.
}

// Update edits gym identity fields and saves the config.
func (h *SettingsHandler) Update(c *gin.Context) {
	var body updateSettingsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errUpdate := h.cfg.UpdateGymInfo(body.Name, body.Address, body.CurrencySymbol, body.ThemeColor); errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save settings failed"})
		return
	}
	h.Get(c)
}

// updatePhoneRequest captures the gym contact phone edit.
type updatePhoneRequest struct {
	Phone string `json:"phone" binding:"required,digits"` // International digits only.
}

// UpdatePhone edits the gym contact phone and saves the config.
func (h *SettingsHandler) UpdatePhone(c *gin.Context) {
	var body updatePhoneRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone must be digits only"})
		return
	}
	if errUpdate := h.cfg.UpdateGymPhone(body.Phone); errUpdate != nil {
		if errors.Is(errUpdate, config.ErrInvalidPhone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone must be digits only"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save settings failed"})
		return
	}
	h.Get(c)
}
