package tasks

import (
	"context"
	"fmt"
	"time"
)

// newRequestLogMaintenanceTask prunes request-log rows older than the
// configured retention and then runs SQLite maintenance.
func newRequestLogMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", TaskRequestLogMaintenance)

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting request log maintenance")
		startTime := time.Now()

		cutoff := deps.now().Add(-deps.Config.Database.Retention)
		deleted, err := deps.Store.DeleteSummaryRequestsBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Failed to prune request log", "cutoff", cutoff, "error", err)
			return fmt.Errorf("failed to prune request log: %w", err)
		}

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance failed", "error", err)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Request log maintenance completed", "deleted", deleted, "cutoff", cutoff, "duration", time.Since(startTime))
		return nil
	}
}
