package db

import (
	"fmt"

	"github.com/vivekgym/gymdesk/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and seeds default plans.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: migrate: nil connection")
	}
	if err := conn.AutoMigrate(
		&models.Member{},
		&models.SubscriptionPlan{},
		&models.Payment{},
		&models.AttendanceMark{},
		&models.ReminderLog{},
	); err != nil {
		return fmt.Errorf("db: automigrate: %w", err)
	}
	return ensureDefaultPlans(conn)
}

// defaultPlans are seeded once when the plan table is empty.
var defaultPlans = []models.SubscriptionPlan{
	{DurationMonths: 1, Price: 700, Description: "Monthly Plan"},
	{DurationMonths: 3, Price: 1800, Description: "Quarterly Plan"},
	{DurationMonths: 6, Price: 3200, Description: "Half-Yearly Plan"},
	{DurationMonths: 12, Price: 6000, Description: "Yearly Plan"},
}

// ensureDefaultPlans seeds the four stock plans if none exist yet.
func ensureDefaultPlans(conn *gorm.DB) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		var count int64
		if errCount := tx.Model(&models.SubscriptionPlan{}).Count(&count).Error; errCount != nil {
			return fmt.Errorf("db: count plans: %w", errCount)
		}
		if count > 0 {
			return nil
		}
		plans := make([]models.SubscriptionPlan, len(defaultPlans))
		copy(plans, defaultPlans)
		if errCreate := tx.Create(&plans).Error; errCreate != nil {
			return fmt.Errorf("db: seed default plans: %w", errCreate)
		}
		return nil
	})
}
