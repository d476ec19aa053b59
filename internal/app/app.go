// Package app boots the service: configuration, database, one synchronous
// renewal-notifier pass, one synchronous backup pass, then the HTTP server.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vivekgym/gymdesk/internal/api"
	"github.com/vivekgym/gymdesk/internal/backup"
	"github.com/vivekgym/gymdesk/internal/config"
	"github.com/vivekgym/gymdesk/internal/db"
	"github.com/vivekgym/gymdesk/internal/notify"
	"github.com/vivekgym/gymdesk/internal/store"
)

// RunServer loads configuration, prepares the store, performs the startup
// automation passes, and serves the HTTP API until it fails.
func RunServer(ctx context.Context, cfgPath string, defaultPort int) error {
	cfg, errLoad := config.Load(config.ResolveConfigPath(cfgPath))
	if errLoad != nil {
		return errLoad
	}

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	st := store.New(conn)
	messenger := buildMessenger(cfg)
	notifier := notify.NewNotifier(st, messenger, cfg.GymSnapshot())

	// Startup automation runs to completion, in sequence, before the server
	// accepts any interactive operation.
	sent, errNotify := notifier.Run(ctx, time.Now())
	if errNotify != nil {
		return fmt.Errorf("app: renewal scan: %w", errNotify)
	}
	log.WithField("sent", sent).Info("renewal reminders dispatched")

	backupMgr := buildBackupManager(cfg)
	if backupMgr != nil {
		result, errBackup := backupMgr.Run(time.Now())
		if errBackup != nil {
			// Fatal to the backup operation only; the live store is intact.
			log.WithError(errBackup).Error("startup backup failed")
		} else {
			log.WithFields(log.Fields{
				"snapshot": result.SnapshotPath,
				"pruned":   result.Pruned,
			}).Info("store backed up")
		}
	} else {
		log.Warn("store is not a single sqlite file, skipping backups")
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	api.RegisterRoutes(engine, st, cfg, notifier, backupMgr)

	port := cfg.Port
	if port <= 0 {
		port = defaultPort
	}
	log.WithField("port", port).Info("listening")
	return engine.Run(fmt.Sprintf(":%d", port))
}

// buildMessenger picks the configured gateway or falls back to log-only
// delivery.
func buildMessenger(cfg *config.Config) notify.Messenger {
	if cfg.Messenger.GatewayURL != "" {
		return notify.NewGatewayMessenger(cfg.Messenger.GatewayURL, cfg.Messenger.Timeout)
	}
	return notify.NewLogMessenger()
}

// buildBackupManager returns a manager for file-backed stores, nil otherwise.
func buildBackupManager(cfg *config.Config) *backup.Manager {
	storePath, ok := db.StorePath(cfg.DatabaseDSN)
	if !ok {
		return nil
	}
	return backup.NewManager(storePath, cfg.Backup.Dir, cfg.Backup.Prefix)
}
