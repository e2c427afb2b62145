package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/max42watt/pv-calculator/config"
	"github.com/max42watt/pv-calculator/database"
)

func NewBackupTask(logger *slog.Logger, db *database.Database, cnfg *config.AppConfig) func() {
	return func() {
		logger.Debug("running backup task...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		if err := db.Backup(ctx); err != nil {
			logger.Error("database backup error", slog.Any("error", err))
		}

		if err := db.PurgeBackups(ctx, cnfg.Database.GetBackupRetentionDays()); err != nil {
			logger.Error("backup purge error", slog.Any("error", err))
		}

		logger.Info("backup task done")
	}
}
