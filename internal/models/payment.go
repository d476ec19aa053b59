package models

import "time"

// Payment records a payment made by a member.
//
// MemberID is a weak reference: the member must exist at insert time, but
// deleting the member later leaves its payments orphaned.
type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	MemberID uint64 `gorm:"not null;index"` // Owning member id, unchecked after insert.

	PaymentDate time.Time `gorm:"not null"`                              // Date the payment was made.
	Amount      float64   `gorm:"type:decimal(10,2);not null;default:0"` // Payment amount, non-negative.
	Method      string    `gorm:"type:text"`                             // Free-text payment method.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
