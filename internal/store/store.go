// Package store is the record store for members, plans, payments, and
// attendance. All invariants from the data model are enforced here, at the
// mutation boundary: composed phone numbers are digits only and globally
// unique, payments and attendance require an existing member at insert time,
// and at most one attendance mark exists per member and date. References are
// weak after insert; deleting a member orphans its payments and marks.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vivekgym/gymdesk/internal/lifecycle"
	"github.com/vivekgym/gymdesk/internal/models"
	"gorm.io/gorm"
)

// Validation and referential errors surfaced to callers. All are detected
// before any mutation, leaving the store unchanged.
var (
	// ErrInvalidPhone indicates a phone that is not digits only or violates
	// the country-specific length rule.
	ErrInvalidPhone = errors.New("store: invalid phone number")
	// ErrPhoneExists indicates the composed phone is already registered.
	ErrPhoneExists = errors.New("store: phone number already exists")
	// ErrMemberNotFound indicates a reference to a nonexistent member.
	ErrMemberNotFound = errors.New("store: member not found")
	// ErrPlanNotFound indicates a reference to a nonexistent plan.
	ErrPlanNotFound = errors.New("store: plan not found")
	// ErrAttendanceExists indicates a second mark for the same member and date.
	ErrAttendanceExists = errors.New("store: attendance already marked for this date")
	// ErrInvalidAmount indicates a negative payment amount or plan price.
	ErrInvalidAmount = errors.New("store: amount must not be negative")
	// ErrInvalidDuration indicates a non-positive plan duration.
	ErrInvalidDuration = errors.New("store: duration must be a positive number of months")
	// ErrInvalidStatus indicates an unknown attendance status.
	ErrInvalidStatus = errors.New("store: attendance status must be Present or Absent")
)

// Store wraps the database connection with membership operations.
type Store struct {
	db *gorm.DB
}

// New constructs a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for report queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// EnrollParams holds inputs for member enrollment.
type EnrollParams struct {
	Name        string    // Member display name.
	CountryCode string    // Dial prefix, with or without a leading plus.
	LocalPhone  string    // Local digits appended to the country code.
	JoinDate    time.Time // Subscription start date.
	PlanID      uint64    // Plan selected at enrollment.
}

// EnrollMember validates the enrollment, computes the expiry date from the
// selected plan, and inserts the member. The plan and the chosen duration
// are returned for the welcome message; the member keeps no plan reference.
func (s *Store) EnrollMember(ctx context.Context, p EnrollParams) (*models.Member, *models.SubscriptionPlan, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("store: enroll: name is required")
	}

	phone, errPhone := ComposePhone(p.CountryCode, p.LocalPhone)
	if errPhone != nil {
		return nil, nil, errPhone
	}

	plan, errPlan := s.GetPlan(ctx, p.PlanID)
	if errPlan != nil {
		return nil, nil, errPlan
	}

	join := lifecycle.DateOnly(p.JoinDate)
	member := models.Member{
		Name:       name,
		Phone:      phone,
		JoinDate:   join,
		ExpiryDate: lifecycle.ExpiryDate(join, plan.DurationMonths),
	}

	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.Member{}).Where("phone = ?", phone).Count(&count).Error; errCount != nil {
		return nil, nil, fmt.Errorf("store: enroll: check phone: %w", errCount)
	}
	if count > 0 {
		return nil, nil, ErrPhoneExists
	}

	if errCreate := s.db.WithContext(ctx).Create(&member).Error; errCreate != nil {
		return nil, nil, fmt.Errorf("store: enroll: insert member: %w", errCreate)
	}
	return &member, plan, nil
}

// ComposePhone joins a country code and local number into the stored
// international-digits form, e.g. "+91" + "6238100393" -> "916238100393".
// For India (91) the local part must be exactly 10 digits.
func ComposePhone(countryCode, local string) (string, error) {
	code := strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	local = strings.TrimSpace(local)
	if code == "" || !isDigits(code) || !isDigits(local) {
		return "", ErrInvalidPhone
	}
	if code == "91" && len(local) != 10 {
		return "", fmt.Errorf("%w: +91 requires exactly 10 local digits", ErrInvalidPhone)
	}
	return code + local, nil
}

// GetMember fetches a member by id.
func (s *Store) GetMember(ctx context.Context, id uint64) (*models.Member, error) {
	var member models.Member
	if errFind := s.db.WithContext(ctx).First(&member, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("store: get member %d: %w", id, errFind)
	}
	return &member, nil
}

// ListMembers returns all members, most recently enrolled first.
func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if errFind := s.db.WithContext(ctx).Order("id DESC").Find(&members).Error; errFind != nil {
		return nil, fmt.Errorf("store: list members: %w", errFind)
	}
	return members, nil
}

// UpdateMember replaces a member's name and phone. The phone must be the
// full international-digits form and stay globally unique.
func (s *Store) UpdateMember(ctx context.Context, id uint64, name, phone string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return nil, fmt.Errorf("store: update member: name is required")
	}
	if !isDigits(phone) {
		return nil, ErrInvalidPhone
	}

	member, errGet := s.GetMember(ctx, id)
	if errGet != nil {
		return nil, errGet
	}

	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("phone = ? AND id <> ?", phone, id).Count(&count).Error; errCount != nil {
		return nil, fmt.Errorf("store: update member: check phone: %w", errCount)
	}
	if count > 0 {
		return nil, ErrPhoneExists
	}

	member.Name = name
	member.Phone = phone
	if errSave := s.db.WithContext(ctx).Save(member).Error; errSave != nil {
		return nil, fmt.Errorf("store: update member %d: %w", id, errSave)
	}
	return member, nil
}

// DeleteMember removes a member. Payments and attendance marks that
// reference the member are left in place as orphans; no cascade is defined.
func (s *Store) DeleteMember(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Delete(&models.Member{}, id)
	if result.Error != nil {
		return fmt.Errorf("store: delete member %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// memberExists checks the weak reference target at insert time.
func (s *Store) memberExists(ctx context.Context, id uint64) error {
	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Count(&count).Error; errCount != nil {
		return fmt.Errorf("store: check member %d: %w", id, errCount)
	}
	if count == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// PaymentParams holds inputs for recording a payment.
type PaymentParams struct {
	MemberID    uint64    // Paying member, must exist at insert time.
	PaymentDate time.Time // Date the payment was made.
	Amount      float64   // Non-negative amount.
	Method      string    // Free-text method.
}

// RecordPayment validates and inserts a payment.
func (s *Store) RecordPayment(ctx context.Context, p PaymentParams) (*models.Payment, error) {
	if p.Amount < 0 {
		return nil, ErrInvalidAmount
	}
	if errExists := s.memberExists(ctx, p.MemberID); errExists != nil {
		return nil, errExists
	}
	payment := models.Payment{
		MemberID:    p.MemberID,
		PaymentDate: lifecycle.DateOnly(p.PaymentDate),
		Amount:      p.Amount,
		Method:      strings.TrimSpace(p.Method),
	}
	if errCreate := s.db.WithContext(ctx).Create(&payment).Error; errCreate != nil {
		return nil, fmt.Errorf("store: record payment: %w", errCreate)
	}
	return &payment, nil
}

// ListPayments returns all payments, most recent insert first.
func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if errFind := s.db.WithContext(ctx).Order("id DESC").Find(&payments).Error; errFind != nil {
		return nil, fmt.Errorf("store: list payments: %w", errFind)
	}
	return payments, nil
}

// AttendanceParams holds inputs for marking attendance.
type AttendanceParams struct {
	MemberID uint64                  // Member being marked, must exist at insert time.
	Date     time.Time               // Attendance date.
	Status   models.AttendanceStatus // Present or Absent.
}

// MarkAttendance validates and inserts an attendance mark. A second mark for
// the same member and date is rejected.
func (s *Store) MarkAttendance(ctx context.Context, p AttendanceParams) (*models.AttendanceMark, error) {
	if !p.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if errExists := s.memberExists(ctx, p.MemberID); errExists != nil {
		return nil, errExists
	}

	date := lifecycle.DateOnly(p.Date)
	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.AttendanceMark{}).
		Where("member_id = ? AND date = ?", p.MemberID, date).Count(&count).Error; errCount != nil {
		return nil, fmt.Errorf("store: check attendance: %w", errCount)
	}
	if count > 0 {
		return nil, ErrAttendanceExists
	}

	mark := models.AttendanceMark{MemberID: p.MemberID, Date: date, Status: p.Status}
	if errCreate := s.db.WithContext(ctx).Create(&mark).Error; errCreate != nil {
		return nil, fmt.Errorf("store: mark attendance: %w", errCreate)
	}
	return &mark, nil
}

// ListAttendance returns all attendance marks, most recent insert first.
func (s *Store) ListAttendance(ctx context.Context) ([]models.AttendanceMark, error) {
	var marks []models.AttendanceMark
	if errFind := s.db.WithContext(ctx).Order("id DESC").Find(&marks).Error; errFind != nil {
		return nil, fmt.Errorf("store: list attendance: %w", errFind)
	}
	return marks, nil
}

// GetPlan fetches a plan by id.
func (s *Store) GetPlan(ctx context.Context, id uint64) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if errFind := s.db.WithContext(ctx).First(&plan, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("store: get plan %d: %w", id, errFind)
	}
	return &plan, nil
}

// CreatePlan validates and inserts a subscription plan.
func (s *Store) CreatePlan(ctx context.Context, durationMonths int, price float64, description string) (*models.SubscriptionPlan, error) {
	if durationMonths <= 0 {
		return nil, ErrInvalidDuration
	}
	if price < 0 {
		return nil, ErrInvalidAmount
	}
	plan := models.SubscriptionPlan{
		DurationMonths: durationMonths,
		Price:          price,
		Description:    strings.TrimSpace(description),
	}
	if errCreate := s.db.WithContext(ctx).Create(&plan).Error; errCreate != nil {
		return nil, fmt.Errorf("store: create plan: %w", errCreate)
	}
	return &plan, nil
}

// DeletePlan removes a plan. Members enrolled under it are unaffected since
// the plan's duration is already baked into their expiry dates.
func (s *Store) DeletePlan(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Delete(&models.SubscriptionPlan{}, id)
	if result.Error != nil {
		return fmt.Errorf("store: delete plan %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// ListPlans returns all plans ordered by duration.
func (s *Store) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if errFind := s.db.WithContext(ctx).Order("duration_months ASC").Find(&plans).Error; errFind != nil {
		return nil, fmt.Errorf("store: list plans: %w", errFind)
	}
	return plans, nil
}

// DueForRenewal selects members whose expiry falls on today or tomorrow and
// whose phone carries the given country-code prefix. Members outside the
// prefix are silently skipped.
func (s *Store) DueForRenewal(ctx context.Context, today time.Time, countryCode string) ([]models.Member, error) {
	start := lifecycle.DateOnly(today)
	end := start.AddDate(0, 0, 2)
	query := s.db.WithContext(ctx).
		Where("expiry_date >= ? AND expiry_date < ?", start, end)
	if prefix := strings.TrimPrefix(strings.TrimSpace(countryCode), "+"); prefix != "" {
		query = query.Where("phone LIKE ?", prefix+"%")
	}
	var members []models.Member
	if errFind := query.Order("id ASC").Find(&members).Error; errFind != nil {
		return nil, fmt.Errorf("store: renewal scan: %w", errFind)
	}
	return members, nil
}

// HasReminder reports whether a reminder of the given kind was already
// delivered to the member on the given date.
func (s *Store) HasReminder(ctx context.Context, memberID uint64, date time.Time, kind models.ReminderKind) (bool, error) {
	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("member_id = ? AND sent_date = ? AND kind = ?", memberID, lifecycle.DateOnly(date), kind).
		Count(&count).Error; errCount != nil {
		return false, fmt.Errorf("store: check reminder: %w", errCount)
	}
	return count > 0, nil
}

// LogReminder records a successful delivery for idempotency and audit.
func (s *Store) LogReminder(ctx context.Context, entry models.ReminderLog) error {
	entry.SentDate = lifecycle.DateOnly(entry.SentDate)
	if errCreate := s.db.WithContext(ctx).Create(&entry).Error; errCreate != nil {
		return fmt.Errorf("store: log reminder: %w", errCreate)
	}
	return nil
}

// isDigits reports whether s is non-empty ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
