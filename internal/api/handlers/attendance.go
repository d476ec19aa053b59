package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vivekgym/gymdesk/internal/models"
	"github.com/vivekgym/gymdesk/internal/store"
)

// AttendanceHandler manages attendance endpoints.
type AttendanceHandler struct {
	store *store.Store
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(st *store.Store) *AttendanceHandler {
	return &AttendanceHandler{store: st}
}

// markAttendanceRequest captures the attendance payload.
type markAttendanceRequest struct {
	MemberID uint64 `json:"member_id" binding:"required"` // Member being marked.
	Date     string `json:"date" binding:"required"`      // Attendance date as YYYY-MM-DD.
	Status   string `json:"status" binding:"required"`    // Present or Absent.
}

// Mark validates and inserts an attendance mark. A second mark for the same
// member and date is rejected.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var body markAttendanceRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, errDate := time.Parse(time.DateOnly, body.Date)
	if errDate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	mark, errMark := h.store.MarkAttendance(c.Request.Context(), store.AttendanceParams{
		MemberID: body.MemberID,
		Date:     date,
		Status:   models.AttendanceStatus(body.Status),
	})
	if errMark != nil {
		switch {
		case errors.Is(errMark, store.ErrMemberNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "member does not exist"})
		case errors.Is(errMark, store.ErrAttendanceExists):
			c.JSON(http.StatusConflict, gin.H{"error": "attendance already marked for this date"})
		case errors.Is(errMark, store.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Present or Absent"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mark attendance failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attendance": mark})
}

// List returns all attendance marks, newest first.
func (h *AttendanceHandler) List(c *gin.Context) {
	marks, errList := h.store.ListAttendance(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list attendance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": marks})
}
