package models

import "time"

// AttendanceStatus represents a member's presence on a given date.
type AttendanceStatus string

// AttendanceStatus values.
const (
	// AttendancePresent marks the member as present.
	AttendancePresent AttendanceStatus = "Present"
	// AttendanceAbsent marks the member as absent.
	AttendanceAbsent AttendanceStatus = "Absent"
)

// Valid reports whether the status is one of the known values.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// AttendanceMark records a member's attendance for one date.
//
// MemberID is a weak reference checked at insert time only. At most one mark
// may exist per (member, date) pair.
type AttendanceMark struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	MemberID uint64           `gorm:"not null;uniqueIndex:idx_attendance_member_date"` // Owning member id.
	Date     time.Time        `gorm:"not null;uniqueIndex:idx_attendance_member_date"` // Attendance date, truncated to midnight UTC.
	Status   AttendanceStatus `gorm:"type:text;not null"`                              // Present or Absent.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
