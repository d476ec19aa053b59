package store

import (
	"context"
	"fmt"
	"time"

	"github.com/vivekgym/gymdesk/internal/db"
	"github.com/vivekgym/gymdesk/internal/lifecycle"
	"github.com/vivekgym/gymdesk/internal/models"
)

// MonthlyRevenue is total payment volume within one calendar month.
type MonthlyRevenue struct {
	Month string  `json:"month"` // Calendar month as YYYY-MM.
	Total float64 `json:"total"` // Sum of payment amounts.
}

// MonthlyRevenueReport aggregates payments per calendar month, oldest first.
func (s *Store) MonthlyRevenueReport(ctx context.Context) ([]MonthlyRevenue, error) {
	monthExpr := db.MonthBucketExpr(s.db, "payment_date")
	var rows []MonthlyRevenue
	if errQuery := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select(monthExpr + " AS month, SUM(amount) AS total").
		Group(monthExpr).
		Order("month ASC").
		Scan(&rows).Error; errQuery != nil {
		return nil, fmt.Errorf("store: monthly revenue: %w", errQuery)
	}
	return rows, nil
}

// StatusCounts is the split of members by derived lifecycle status.
type StatusCounts struct {
	Active  int `json:"active"`  // Members whose expiry is today or later.
	Expired int `json:"expired"` // Members whose expiry has passed.
}

// StatusReport classifies every member against today. Status is derived at
// read time from the stored expiry date, never persisted.
func (s *Store) StatusReport(ctx context.Context, today time.Time) (StatusCounts, error) {
	members, errList := s.ListMembers(ctx)
	if errList != nil {
		return StatusCounts{}, errList
	}
	var counts StatusCounts
	for i := range members {
		if lifecycle.Classify(members[i].ExpiryDate, today) == lifecycle.StatusActive {
			counts.Active++
		} else {
			counts.Expired++
		}
	}
	return counts, nil
}

// AttendanceDay is the number of members present on one date.
type AttendanceDay struct {
	Date    time.Time `json:"date"`    // Attendance date.
	Present int       `json:"present"` // Count of Present marks.
}

// AttendanceTrend counts Present marks per day from since onward.
func (s *Store) AttendanceTrend(ctx context.Context, since time.Time) ([]AttendanceDay, error) {
	var rows []AttendanceDay
	if errQuery := s.db.WithContext(ctx).Model(&models.AttendanceMark{}).
		Select("date, COUNT(*) AS present").
		Where("status = ? AND date >= ?", models.AttendancePresent, lifecycle.DateOnly(since)).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error; errQuery != nil {
		return nil, fmt.Errorf("store: attendance trend: %w", errQuery)
	}
	return rows, nil
}
