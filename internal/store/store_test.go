package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/vivekgym/gymdesk/internal/db"
	"github.com/vivekgym/gymdesk/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return New(conn)
}

func mustEnroll(t *testing.T, st *Store, name, local string, join time.Time, planID uint64) *models.Member {
	t.Helper()
	member, _, err := st.EnrollMember(context.Background(), EnrollParams{
		Name:        name,
		CountryCode: "91",
		LocalPhone:  local,
		JoinDate:    join,
		PlanID:      planID,
	})
	if err != nil {
		t.Fatalf("enroll %s: %v", name, err)
	}
	return member
}

func TestEnrollMember_ComputesExpiry(t *testing.T) {
	st := newTestStore(t)
	join := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	member := mustEnroll(t, st, "A", "9876512345", join, 1)

	if member.Phone != "919876512345" {
		t.Fatalf("composed phone = %q, want 919876512345", member.Phone)
	}
	wantExpiry := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if !member.ExpiryDate.Equal(wantExpiry) {
		t.Fatalf("expiry = %s, want %s", member.ExpiryDate.Format(time.DateOnly), wantExpiry.Format(time.DateOnly))
	}
	if member.ExpiryDate.Before(member.JoinDate) {
		t.Fatalf("expiry before join")
	}
}

func TestEnrollMember_DuplicatePhone(t *testing.T) {
	st := newTestStore(t)
	join := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mustEnroll(t, st, "A", "9876512345", join, 1)

	_, _, err := st.EnrollMember(context.Background(), EnrollParams{
		Name:        "B",
		CountryCode: "+91",
		LocalPhone:  "9876512345",
		JoinDate:    join,
		PlanID:      1,
	})
	if !errors.Is(err, ErrPhoneExists) {
		t.Fatalf("expected ErrPhoneExists, got %v", err)
	}

	var count int64
	if errCount := st.DB().Model(&models.Member{}).Where("phone = ?", "919876512345").Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected 1 member with the phone, got %d", count)
	}
}

func TestEnrollMember_PhoneValidation(t *testing.T) {
	st := newTestStore(t)
	join := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		code  string
		local string
	}{
		{"non-numeric local", "91", "98765abcde"},
		{"india local not 10 digits", "91", "987651234"},
		{"empty local", "91", ""},
		{"non-numeric code", "9a", "9876512345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := st.EnrollMember(context.Background(), EnrollParams{
				Name:        "X",
				CountryCode: tc.code,
				LocalPhone:  tc.local,
				JoinDate:    join,
				PlanID:      1,
			})
			if !errors.Is(err, ErrInvalidPhone) {
				t.Fatalf("expected ErrInvalidPhone, got %v", err)
			}
		})
	}
}

func TestEnrollMember_UnknownPlan(t *testing.T) {
	st := newTestStore(t)
	_, _, err := st.EnrollMember(context.Background(), EnrollParams{
		Name:        "A",
		CountryCode: "91",
		LocalPhone:  "9876512345",
		JoinDate:    time.Now(),
		PlanID:      99,
	})
	if !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestRecordPayment_RequiresMember(t *testing.T) {
	st := newTestStore(t)
	_, err := st.RecordPayment(context.Background(), PaymentParams{
		MemberID:    42,
		PaymentDate: time.Now(),
		Amount:      700,
		Method:      "cash",
	})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestRecordPayment_RejectsNegativeAmount(t *testing.T) {
	st := newTestStore(t)
	member := mustEnroll(t, st, "A", "9876512345", time.Now(), 1)

	_, err := st.RecordPayment(context.Background(), PaymentParams{
		MemberID:    member.ID,
		PaymentDate: time.Now(),
		Amount:      -1,
		Method:      "cash",
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestMarkAttendance_OneMarkPerMemberAndDate(t *testing.T) {
	st := newTestStore(t)
	member := mustEnroll(t, st, "A", "9876512345", time.Now(), 1)
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	if _, err := st.MarkAttendance(context.Background(), AttendanceParams{
		MemberID: member.ID, Date: date, Status: models.AttendancePresent,
	}); err != nil {
		t.Fatalf("first mark: %v", err)
	}

	_, err := st.MarkAttendance(context.Background(), AttendanceParams{
		MemberID: member.ID, Date: date, Status: models.AttendanceAbsent,
	})
	if !errors.Is(err, ErrAttendanceExists) {
		t.Fatalf("expected ErrAttendanceExists, got %v", err)
	}

	var count int64
	if errCount := st.DB().Model(&models.AttendanceMark{}).
		Where("member_id = ? AND date = ?", member.ID, date).Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected 1 mark for the pair, got %d", count)
	}
}

func TestMarkAttendance_RequiresMember(t *testing.T) {
	st := newTestStore(t)
	_, err := st.MarkAttendance(context.Background(), AttendanceParams{
		MemberID: 42, Date: time.Now(), Status: models.AttendancePresent,
	})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestListMembers_NewestFirst(t *testing.T) {
	st := newTestStore(t)
	join := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mustEnroll(t, st, "A", "9876512341", join, 1)
	mustEnroll(t, st, "B", "9876512342", join, 1)

	members, errList := st.ListMembers(context.Background())
	if errList != nil {
		t.Fatalf("list: %v", errList)
	}
	if len(members) != 2 || members[0].Name != "B" || members[1].Name != "A" {
		t.Fatalf("expected [B A], got %v", members)
	}
}

func TestListPlans_OrderedByDuration(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.CreatePlan(context.Background(), 2, 1200, "Two-Month Plan"); err != nil {
		t.Fatalf("create plan: %v", err)
	}

	plans, errList := st.ListPlans(context.Background())
	if errList != nil {
		t.Fatalf("list plans: %v", errList)
	}
	last := 0
	for _, plan := range plans {
		if plan.DurationMonths < last {
			t.Fatalf("plans not ordered by duration: %v", plans)
		}
		last = plan.DurationMonths
	}
}

func TestCreatePlan_Validation(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.CreatePlan(context.Background(), 0, 100, "x"); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := st.CreatePlan(context.Background(), 1, -5, "x"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDeleteMember_OrphansRelatedRows(t *testing.T) {
	st := newTestStore(t)
	member := mustEnroll(t, st, "A", "9876512345", time.Now(), 1)

	if _, err := st.RecordPayment(context.Background(), PaymentParams{
		MemberID: member.ID, PaymentDate: time.Now(), Amount: 700, Method: "cash",
	}); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if errDelete := st.DeleteMember(context.Background(), member.ID); errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}

	// No cascade: the payment survives as an orphan.
	var count int64
	if errCount := st.DB().Model(&models.Payment{}).Where("member_id = ?", member.ID).Count(&count).Error; errCount != nil {
		t.Fatalf("count payments: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected orphaned payment to remain, got %d rows", count)
	}
}

func TestDueForRenewal_Window(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	// Durations are fixed per plan, so steer expiry via the join date:
	// expiry = join + 30 days on plan 1.
	joinFor := func(expiry time.Time) time.Time { return expiry.AddDate(0, 0, -30) }

	mustEnroll(t, st, "yesterday", "9876500001", joinFor(today.AddDate(0, 0, -1)), 1)
	expToday := mustEnroll(t, st, "today", "9876500002", joinFor(today), 1)
	expTomorrow := mustEnroll(t, st, "tomorrow", "9876500003", joinFor(today.AddDate(0, 0, 1)), 1)
	mustEnroll(t, st, "day after", "9876500004", joinFor(today.AddDate(0, 0, 2)), 1)

	due, errScan := st.DueForRenewal(ctx, today, "91")
	if errScan != nil {
		t.Fatalf("scan: %v", errScan)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due members, got %d", len(due))
	}
	if due[0].ID != expToday.ID || due[1].ID != expTomorrow.ID {
		t.Fatalf("unexpected selection: %v", due)
	}
}

func TestDueForRenewal_PrefixFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	join := today.AddDate(0, 0, -30)

	mustEnroll(t, st, "in prefix", "9876500001", join, 1)
	if _, _, err := st.EnrollMember(ctx, EnrollParams{
		Name: "outside prefix", CountryCode: "1", LocalPhone: "5551234567", JoinDate: join, PlanID: 1,
	}); err != nil {
		t.Fatalf("enroll outside prefix: %v", err)
	}

	due, errScan := st.DueForRenewal(ctx, today, "91")
	if errScan != nil {
		t.Fatalf("scan: %v", errScan)
	}
	if len(due) != 1 || due[0].Name != "in prefix" {
		t.Fatalf("expected only the 91-prefixed member, got %v", due)
	}
}

func TestReminderLog_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	member := mustEnroll(t, st, "A", "9876512345", time.Now(), 1)
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	reminded, errCheck := st.HasReminder(ctx, member.ID, today, models.ReminderRenewal)
	if errCheck != nil {
		t.Fatalf("check: %v", errCheck)
	}
	if reminded {
		t.Fatalf("expected no reminder yet")
	}

	if errLog := st.LogReminder(ctx, models.ReminderLog{
		MemberID: member.ID, SentDate: today, Kind: models.ReminderRenewal, Phone: member.Phone,
	}); errLog != nil {
		t.Fatalf("log: %v", errLog)
	}

	reminded, errCheck = st.HasReminder(ctx, member.ID, today, models.ReminderRenewal)
	if errCheck != nil {
		t.Fatalf("re-check: %v", errCheck)
	}
	if !reminded {
		t.Fatalf("expected reminder to be recorded")
	}
}
