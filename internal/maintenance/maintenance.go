// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package maintenance runs background housekeeping: an hourly cache
sweep, an hourly oauth_state sweep, and a one-shot startup
reconciliation of tasks left RUNNING/PAUSED by a prior process's crash.
*/
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

const sweepInterval = time.Hour

// CacheSweeper is the subset of internal/cache.Cache the runner needs.
type CacheSweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// TaskReconciler is the subset of internal/task.Engine the runner needs.
type TaskReconciler interface {
	ReconcileInterrupted(ctx context.Context) (int64, error)
}

// Runner owns the maintenance tickers. Start blocks, so callers run it in
// its own goroutine; Stop (via context cancellation) ends all tickers.
type Runner struct {
	cache  CacheSweeper
	tasks  TaskReconciler
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New constructs a [Runner].
func New(cache CacheSweeper, tasks TaskReconciler, pool *pgxpool.Pool, logger *slog.Logger) *Runner {
	return &Runner{cache: cache, tasks: tasks, pool: pool, logger: logger}
}

// Start runs the one-shot task reconciliation immediately, then blocks
// running the hourly cache and oauth_state sweeps until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	if n, err := r.tasks.ReconcileInterrupted(ctx); err != nil {
		r.logger.ErrorContext(ctx, "startup task reconciliation failed", "error", err)
	} else {
		r.logger.InfoContext(ctx, "tasks_reconciled", "count", n)
	}

	cacheTicker := time.NewTicker(sweepInterval)
	oauthTicker := time.NewTicker(sweepInterval)
	defer cacheTicker.Stop()
	defer oauthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cacheTicker.C:
			if n, err := r.cache.Sweep(ctx); err != nil {
				r.logger.ErrorContext(ctx, "cache sweep failed", "error", err)
			} else {
				r.logger.InfoContext(ctx, "cache_swept", "count", n)
			}
		case <-oauthTicker.C:
			n, err := r.sweepOAuthStates(ctx)
			if err != nil {
				r.logger.ErrorContext(ctx, "oauth_state sweep failed", "error", err)
				continue
			}
			r.logger.InfoContext(ctx, "oauth_state_swept", "count", n)
		}
	}
}

// sweepOAuthStates deletes every expired platform.oauth_state row. The
// OAuth login flow itself is out of scope, but the table and its sweep
// are carried since the schema already reserves it.
func (r *Runner) sweepOAuthStates(ctx context.Context) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s <= now()", schema.OAuthState.Table, schema.OAuthState.ExpiresAt)
	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, dberr.Wrap(err, "sweep expired oauth states")
	}
	return tag.RowsAffected(), nil
}
