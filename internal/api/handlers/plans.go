package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivekgym/gymdesk/internal/store"
)

// PlanHandler manages subscription plan endpoints.
type PlanHandler struct {
	store *store.Store
}

// NewPlanHandler constructs a plan handler.
func NewPlanHandler(st *store.Store) *PlanHandler {
	return &PlanHandler{store: st}
}

// createPlanRequest captures the plan payload.
type createPlanRequest struct {
	DurationMonths int     `json:"duration_months" binding:"required"` // Plan length in whole months.
	Price          float64 `json:"price"`                              // Non-negative price.
	Description    string  `json:"description"`                        // Free-text description.
}

// Create validates and inserts a plan.
func (h *PlanHandler) Create(c *gin.Context) {
	var body createPlanRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	plan, errCreate := h.store.CreatePlan(c.Request.Context(), body.DurationMonths, body.Price, body.Description)
	if errCreate != nil {
		switch {
		case errors.Is(errCreate, store.ErrInvalidDuration):
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration_months must be positive"})
		case errors.Is(errCreate, store.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create plan failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan": plan})
}

// List returns all plans ordered by duration.
func (h *PlanHandler) List(c *gin.Context) {
	plans, errList := h.store.ListPlans(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list plans failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// Delete removes a plan. Existing members keep their computed expiry dates.
func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if errDelete := h.store.DeletePlan(c.Request.Context(), id); errDelete != nil {
		if errors.Is(errDelete, store.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete plan failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
