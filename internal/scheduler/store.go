// Copyright (c) 2026 Danmu. All rights reserved.

package scheduler

import (
	"context"
	"time"
)

// # Scheduled Task Data Access

// Repository defines the data access contract for platform.scheduled_task.
type Repository interface {
	// List returns every scheduled task row, enabled or not.
	List(ctx context.Context) ([]ScheduledTask, error)

	// FindByID returns a single scheduled task, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*ScheduledTask, error)

	// Create inserts a new scheduled task row, assigning it a UUIDv7 id.
	Create(ctx context.Context, name, jobType, cronExpression string, enabled bool) (*ScheduledTask, error)

	// Update overwrites a scheduled task's mutable fields.
	Update(ctx context.Context, id, name, cronExpression string, enabled bool) error

	// Delete removes a scheduled task row.
	Delete(ctx context.Context, id string) error

	// UpdateRunTimes stamps last_run_at/next_run_at after a cron fire.
	UpdateRunTimes(ctx context.Context, id string, lastRunAt, nextRunAt time.Time) error
}
