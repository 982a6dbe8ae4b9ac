// Copyright (c) 2026 Danmu. All rights reserved.

package task

import "context"

// # Task History Data Access

// Repository persists task state to platform.task_history so it can be
// inspected across restarts; rows left RUNNING or PAUSED by a previous
// process are marked FAILED at startup rather than re-queued.
type Repository interface {
	// Create inserts a new PENDING task row.
	Create(ctx context.Context, id, title string) error

	// UpdateProgress persists the current status/progress/description.
	UpdateProgress(ctx context.Context, id string, status Status, percent int, description string) error

	// Finish marks a task COMPLETED or FAILED and stamps finished_at.
	Finish(ctx context.Context, id string, status Status, description string) error

	// List returns tasks ordered newest-first.
	List(ctx context.Context) ([]Task, error)

	// FindByID returns a single task.
	FindByID(ctx context.Context, id string) (*Task, error)

	// Delete removes a finished task's history row.
	Delete(ctx context.Context, id string) error

	// ReconcileInterrupted marks every task still RUNNING or PAUSED as
	// FAILED — called once at startup to account for tasks that were
	// mid-flight when the process was killed.
	ReconcileInterrupted(ctx context.Context) (int64, error)
}
