package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReminderKind identifies the kind of outbound message logged.
type ReminderKind string

// ReminderKind values.
const (
	// ReminderRenewal is the expiry renewal reminder sent by the notifier.
	ReminderRenewal ReminderKind = "renewal"
	// ReminderWelcome is the welcome message sent at enrollment.
	ReminderWelcome ReminderKind = "welcome"
)

// ReminderLog records a successfully delivered outbound message.
//
// The unique (member, date, kind) index makes renewal reminders idempotent
// per day: restarting the process on the same day re-sends nothing.
type ReminderLog struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	MemberID uint64       `gorm:"not null;uniqueIndex:idx_reminder_member_date_kind"` // Recipient member id.
	SentDate time.Time    `gorm:"not null;uniqueIndex:idx_reminder_member_date_kind"` // Delivery date, truncated to midnight UTC.
	Kind     ReminderKind `gorm:"type:text;not null;uniqueIndex:idx_reminder_member_date_kind"` // Message kind.

	Phone   string         `gorm:"type:text;not null"`               // Phone the message was delivered to.
	Payload datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Message body and context.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
