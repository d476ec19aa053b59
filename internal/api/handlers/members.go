package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vivekgym/gymdesk/internal/lifecycle"
	"github.com/vivekgym/gymdesk/internal/models"
	"github.com/vivekgym/gymdesk/internal/notify"
	"github.com/vivekgym/gymdesk/internal/store"
)

// MemberHandler manages member CRUD endpoints.
type MemberHandler struct {
	store    *store.Store     // Record store.
	notifier *notify.Notifier // Sends the enrollment welcome message.
}

// NewMemberHandler constructs a member handler.
func NewMemberHandler(st *store.Store, notifier *notify.Notifier) *MemberHandler {
	return &MemberHandler{store: st, notifier: notifier}
}

// memberResponse is a member row with its derived lifecycle status.
type memberResponse struct {
	ID         uint64 `json:"id"`          // Member id.
	Name       string `json:"name"`        // Member name.
	Phone      string `json:"phone"`       // Composed international phone.
	JoinDate   string `json:"join_date"`   // Subscription start.
	ExpiryDate string `json:"expiry_date"` // Computed expiry.
	Status     string `json:"status"`      // Active or Expired, derived at read time.
}

// toMemberResponse derives the status against today and shapes the payload.
func toMemberResponse(m *models.Member, today time.Time) memberResponse {
	return memberResponse{
		ID:         m.ID,
		Name:       m.Name,
		Phone:      m.Phone,
		JoinDate:   m.JoinDate.Format(time.DateOnly),
		ExpiryDate: m.ExpiryDate.Format(time.DateOnly),
		Status:     lifecycle.Classify(m.ExpiryDate, today).String(),
	}
}

// createMemberRequest captures the enrollment payload.
type createMemberRequest struct {
	Name        string `json:"name" binding:"required"`          // Member name.
	CountryCode string `json:"country_code"`                     // Dial prefix, defaults to 91.
	Phone       string `json:"phone" binding:"required,digits"`  // Local phone digits.
	JoinDate    string `json:"join_date" binding:"required"`     // Start date as YYYY-MM-DD.
	PlanID      uint64 `json:"plan_id" binding:"required"`       // Plan selected at enrollment.
}

// Create enrolls a member, computes the expiry from the chosen plan, and
// attempts the welcome message. Welcome delivery failure never fails the
// enrollment.
func (h *MemberHandler) Create(c *gin.Context) {
	var body createMemberRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	joinDate, errDate := time.Parse(time.DateOnly, body.JoinDate)
	if errDate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "join_date must be YYYY-MM-DD"})
		return
	}

	countryCode := body.CountryCode
	if countryCode == "" {
		countryCode = "91"
	}

	member, plan, errEnroll := h.store.EnrollMember(c.Request.Context(), store.EnrollParams{
		Name:        body.Name,
		CountryCode: countryCode,
		LocalPhone:  body.Phone,
		JoinDate:    joinDate,
		PlanID:      body.PlanID,
	})
	if errEnroll != nil {
		switch {
		case errors.Is(errEnroll, store.ErrPhoneExists):
			c.JSON(http.StatusConflict, gin.H{"error": "phone number already exists"})
		case errors.Is(errEnroll, store.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": errEnroll.Error()})
		case errors.Is(errEnroll, store.ErrPlanNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plan"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": errEnroll.Error()})
		}
		return
	}

	welcomeSent := false
	if h.notifier != nil {
		if errWelcome := h.notifier.SendWelcome(c.Request.Context(), member, plan); errWelcome != nil {
			log.WithError(errWelcome).WithField("member_id", member.ID).Warn("welcome message delivery failed")
		} else {
			welcomeSent = true
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"member":       toMemberResponse(member, time.Now()),
		"welcome_sent": welcomeSent,
	})
}

// List returns all members with derived statuses, newest first.
func (h *MemberHandler) List(c *gin.Context) {
	members, errList := h.store.ListMembers(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list members failed"})
		return
	}
	today := time.Now()
	out := make([]memberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i], today))
	}
	c.JSON(http.StatusOK, gin.H{"members": out})
}

// Get returns one member with its derived status.
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	member, errGet := h.store.GetMember(c.Request.Context(), id)
	if errGet != nil {
		if errors.Is(errGet, store.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get member failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": toMemberResponse(member, time.Now())})
}

// updateMemberRequest captures the editable member fields.
type updateMemberRequest struct {
	Name  string `json:"name" binding:"required"`         // New member name.
	Phone string `json:"phone" binding:"required,digits"` // Full international digits.
}

// Update edits a member's name and phone.
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body updateMemberRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	member, errUpdate := h.store.UpdateMember(c.Request.Context(), id, body.Name, body.Phone)
	if errUpdate != nil {
		switch {
		case errors.Is(errUpdate, store.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		case errors.Is(errUpdate, store.ErrPhoneExists):
			c.JSON(http.StatusConflict, gin.H{"error": "phone number already exists"})
		case errors.Is(errUpdate, store.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone must be digits only"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": errUpdate.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": toMemberResponse(member, time.Now())})
}

// Delete removes a member. Related payments and attendance become orphans.
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if errDelete := h.store.DeleteMember(c.Request.Context(), id); errDelete != nil {
		if errors.Is(errDelete, store.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete member failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// parseIDParam reads the :id path segment, replying 400 on garbage.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
