// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package task implements component H: a single-worker, FIFO background task
engine.

Every long-running operation (import, full refresh, episode-group mapping
refresh) runs as exactly one task at a time, in submission order, so two
imports of the same source can never race against each other in Postgres.
Progress is persisted to platform.task_history as it happens so a page
reload never loses state, and a crash mid-task is reconciled to FAILED on
the next startup rather than left RUNNING forever.
*/
package task

import (
	"context"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is a persisted unit of background work.
type Task struct {
	ID          string
	Title       string
	Status      Status
	Progress    int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FinishedAt  *time.Time
}

// Func is the work a [Task] performs. It must call progress as it advances
// and return promptly when ctx is cancelled.
type Func func(ctx context.Context, progress ProgressCallback) error

// ProgressCallback reports progress (0-100) and a human-readable
// description, persists both to task_history, blocks while the task is
// paused, and returns [ErrAborted] if the task has been aborted.
type ProgressCallback func(ctx context.Context, percent int, description string) error

// taskSuccess is returned internally by a [Func] to signal a custom
// completion message distinct from a plain nil error; see Engine.run.
type taskSuccess struct{ message string }

func (s taskSuccess) Error() string { return s.message }

// Succeeded wraps message as the task's completion description. A [Func]
// that wants a specific COMPLETED message (e.g. "imported 42 comments")
// returns Succeeded("imported 42 comments") instead of nil.
func Succeeded(message string) error {
	return taskSuccess{message: message}
}
