package models

import "time"

// Member represents an enrolled gym member stored in the database.
type Member struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name  string `gorm:"type:text;not null"`             // Member display name.
	Phone string `gorm:"type:text;not null;uniqueIndex"` // Country code + local digits, e.g. 916238100393.

	JoinDate   time.Time `gorm:"not null"`       // Subscription start date.
	ExpiryDate time.Time `gorm:"not null;index"` // Computed subscription end date, never before JoinDate.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
