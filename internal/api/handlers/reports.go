package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vivekgym/gymdesk/internal/store"
)

// ReportsHandler serves the aggregate queries behind the dashboard charts.
type ReportsHandler struct {
	store *store.Store
}

// NewReportsHandler constructs a reports handler.
func NewReportsHandler(st *store.Store) *ReportsHandler {
	return &ReportsHandler{store: st}
}

// MonthlyRevenue returns payment totals per calendar month.
func (h *ReportsHandler) MonthlyRevenue(c *gin.Context) {
	rows, errQuery := h.store.MonthlyRevenueReport(c.Request.Context())
	if errQuery != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "revenue report failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": rows})
}

// StatusCounts returns the active/expired member split derived against today.
func (h *ReportsHandler) StatusCounts(c *gin.Context) {
	counts, errQuery := h.store.StatusReport(c.Request.Context(), time.Now())
	if errQuery != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status report failed"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

// attendanceTrendDays is the default lookback for the attendance trend.
const attendanceTrendDays = 30

// AttendanceTrend returns present counts per day for the last 30 days.
func (h *ReportsHandler) AttendanceTrend(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -attendanceTrendDays)
	rows, errQuery := h.store.AttendanceTrend(c.Request.Context(), since)
	if errQuery != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "attendance report failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": rows})
}
