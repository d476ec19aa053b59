package models

import "time"

// SubscriptionPlan represents a subscription template members enroll under.
//
// Plans are referenced by id at enrollment time only; the chosen duration is
// baked into the member's computed expiry date, so no foreign key is kept on
// Member afterward.
type SubscriptionPlan struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	DurationMonths int     `gorm:"not null"`                              // Plan length in whole months.
	Price          float64 `gorm:"type:decimal(10,2);not null;default:0"` // Plan price, non-negative.
	Description    string  `gorm:"type:text"`                             // Free-text plan description.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
