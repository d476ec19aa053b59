package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vivekgym/gymdesk/internal/store"
)

// PaymentHandler manages payment endpoints.
type PaymentHandler struct {
	store *store.Store
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(st *store.Store) *PaymentHandler {
	return &PaymentHandler{store: st}
}

// createPaymentRequest captures the payment payload.
type createPaymentRequest struct {
	MemberID    uint64  `json:"member_id" binding:"required"`    // Paying member id.
	PaymentDate string  `json:"payment_date" binding:"required"` // Payment date as YYYY-MM-DD.
	Amount      float64 `json:"amount"`                          // Non-negative amount.
	Method      string  `json:"method" binding:"required"`       // Free-text method.
}

// Create validates and records a payment.
func (h *PaymentHandler) Create(c *gin.Context) {
	var body createPaymentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	paymentDate, errDate := time.Parse(time.DateOnly, body.PaymentDate)
	if errDate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_date must be YYYY-MM-DD"})
		return
	}

	payment, errCreate := h.store.RecordPayment(c.Request.Context(), store.PaymentParams{
		MemberID:    body.MemberID,
		PaymentDate: paymentDate,
		Amount:      body.Amount,
		Method:      body.Method,
	})
	if errCreate != nil {
		switch {
		case errors.Is(errCreate, store.ErrMemberNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "member does not exist"})
		case errors.Is(errCreate, store.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "record payment failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// List returns all payments, newest first.
func (h *PaymentHandler) List(c *gin.Context) {
	payments, errList := h.store.ListPayments(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list payments failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
