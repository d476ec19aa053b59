// Package api wires the HTTP surface for the interactive operations:
// enrollment, payments, attendance, plan and settings management, manual
// backups, and report aggregates.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/vivekgym/gymdesk/internal/api/handlers"
	"github.com/vivekgym/gymdesk/internal/backup"
	"github.com/vivekgym/gymdesk/internal/config"
	"github.com/vivekgym/gymdesk/internal/notify"
	"github.com/vivekgym/gymdesk/internal/store"
)

// RegisterRoutes registers all routes, middleware, and handlers. The backup
// manager may be nil when the store is not file-backed; the manual backup
// endpoint then reports the operation as unsupported.
func RegisterRoutes(r *gin.Engine, st *store.Store, cfg *config.Config, notifier *notify.Notifier, backupMgr *backup.Manager) {
	if r == nil || st == nil || cfg == nil {
		return
	}

	registerValidators()
	r.Use(requestIDMiddleware())

	healthHandler := handlers.NewHealthHandler(st.DB())
	r.GET("/healthz", healthHandler.Healthz)

	v0 := r.Group("/v0")

	authHandler := handlers.NewAuthHandler(cfg)
	v0.POST("/auth/login", authHandler.Login)

	authed := v0.Group("")
	authed.Use(authMiddleware(cfg.JWT))

	memberHandler := handlers.NewMemberHandler(st, notifier)
	authed.POST("/members", memberHandler.Create)
	authed.GET("/members", memberHandler.List)
	authed.GET("/members/:id", memberHandler.Get)
	authed.PUT("/members/:id", memberHandler.Update)
	authed.DELETE("/members/:id", memberHandler.Delete)

	paymentHandler := handlers.NewPaymentHandler(st)
	authed.POST("/payments", paymentHandler.Create)
	authed.GET("/payments", paymentHandler.List)

	attendanceHandler := handlers.NewAttendanceHandler(st)
	authed.POST("/attendance", attendanceHandler.Mark)
	authed.GET("/attendance", attendanceHandler.List)

	planHandler := handlers.NewPlanHandler(st)
	authed.POST("/plans", planHandler.Create)
	authed.GET("/plans", planHandler.List)
	authed.DELETE("/plans/:id", planHandler.Delete)

	settingsHandler := handlers.NewSettingsHandler(cfg)
	authed.GET("/settings", settingsHandler.Get)
	authed.PUT("/settings", settingsHandler.Update)
	authed.PUT("/settings/phone", settingsHandler.UpdatePhone)

	backupHandler := handlers.NewBackupHandler(backupMgr)
	authed.POST("/backups", backupHandler.Create)

	reportsHandler := handlers.NewReportsHandler(st)
	authed.GET("/reports/revenue", reportsHandler.MonthlyRevenue)
	authed.GET("/reports/status", reportsHandler.StatusCounts)
	authed.GET("/reports/attendance", reportsHandler.AttendanceTrend)
}

// registerValidators installs the custom `digits` binding rule used by phone
// fields.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return false
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}
