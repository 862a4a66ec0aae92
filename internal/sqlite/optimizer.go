package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/reaksi/internal/errors"
)

// RunOptimizer runs optimize immediately and then once per interval until ctx is done.
// See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) RunOptimizer(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		start := time.Now()
		if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil && ctx.Err() == nil {
			err = errors.Wrap(err, "optimize database")
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database", errors.SlogError(err))
		} else if err == nil {
			db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database",
				slog.Duration("duration", time.Since(start)))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
