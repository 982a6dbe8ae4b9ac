// Copyright (c) 2026 Danmu. All rights reserved.

package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sorahq/danmu/pkg/uuidv7"
)

// Engine runs submitted [Func]s one at a time, in submission order, on a
// single background goroutine.
type Engine struct {
	repo   Repository
	logger *slog.Logger

	queue chan *job
	mu    sync.Mutex
	jobs  map[string]*job
}

type job struct {
	id     string
	fn     Func
	cancel context.CancelFunc // set once run() starts the task's context

	abort atomic.Bool

	gateMu sync.Mutex
	gate   chan struct{} // closed while running; reopened while paused
	paused bool
}

func newJob(id string, fn Func) *job {
	j := &job{id: id, fn: fn}
	j.gate = make(chan struct{})
	close(j.gate) // start unblocked (not paused)
	return j
}

func (j *job) pause() {
	j.gateMu.Lock()
	defer j.gateMu.Unlock()
	if j.paused {
		return
	}
	j.paused = true
	j.gate = make(chan struct{}) // open (unclosed) channel blocks readers
}

func (j *job) resume() {
	j.gateMu.Lock()
	defer j.gateMu.Unlock()
	if !j.paused {
		return
	}
	j.paused = false
	close(j.gate)
}

func (j *job) waitIfPaused(ctx context.Context) error {
	j.gateMu.Lock()
	gate := j.gate
	j.gateMu.Unlock()
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewEngine constructs an [Engine] with a FIFO queue of the given depth.
func NewEngine(repo Repository, logger *slog.Logger, queueDepth int) *Engine {
	e := &Engine{
		repo:   repo,
		logger: logger,
		queue:  make(chan *job, queueDepth),
		jobs:   make(map[string]*job),
	}
	go e.consume()
	return e
}

// Submit enqueues fn under title, persists a PENDING row, and returns the
// new task's id immediately without waiting for it to run.
func (e *Engine) Submit(ctx context.Context, title string, fn Func) (string, error) {
	id := uuidv7.New()
	if err := e.repo.Create(ctx, id, title); err != nil {
		return "", err
	}

	j := newJob(id, fn)

	e.mu.Lock()
	e.jobs[id] = j
	e.mu.Unlock()

	e.queue <- j
	return id, nil
}

func (e *Engine) consume() {
	for j := range e.queue {
		e.run(j)
		e.mu.Lock()
		delete(e.jobs, j.id)
		e.mu.Unlock()
	}
}

func (e *Engine) run(j *job) {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	defer cancel()

	if err := e.repo.UpdateProgress(ctx, j.id, StatusRunning, 0, "started"); err != nil {
		e.logger.ErrorContext(ctx, "task: failed to mark running", "task_id", j.id, "error", err)
	}

	progress := func(ctx context.Context, percent int, description string) error {
		if j.abort.Load() {
			return ErrAborted
		}
		if err := j.waitIfPaused(ctx); err != nil {
			return err
		}
		if j.abort.Load() {
			return ErrAborted
		}
		status := StatusRunning
		j.gateMu.Lock()
		if j.paused {
			status = StatusPaused
		}
		j.gateMu.Unlock()
		return e.repo.UpdateProgress(ctx, j.id, status, percent, description)
	}

	err := j.fn(ctx, progress)
	switch v := err.(type) {
	case nil:
		_ = e.repo.Finish(ctx, j.id, StatusCompleted, "completed")
	case taskSuccess:
		_ = e.repo.Finish(ctx, j.id, StatusCompleted, v.message)
	default:
		desc := err.Error()
		e.logger.ErrorContext(ctx, "task failed", "task_id", j.id, "error", err)
		_ = e.repo.Finish(ctx, j.id, StatusFailed, desc)
	}
}

// Pause requests that the task cooperatively block at its next progress
// checkpoint. It is a no-op if id is unknown or already finished.
func (e *Engine) Pause(id string) {
	e.mu.Lock()
	j, ok := e.jobs[id]
	e.mu.Unlock()
	if ok {
		j.pause()
	}
}

// Resume releases a paused task.
func (e *Engine) Resume(id string) {
	e.mu.Lock()
	j, ok := e.jobs[id]
	e.mu.Unlock()
	if ok {
		j.resume()
	}
}

// Abort requests that the task stop at its next progress checkpoint,
// releasing it first if it was paused so it can observe the abort.
func (e *Engine) Abort(id string) error {
	e.mu.Lock()
	j, ok := e.jobs[id]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	j.abort.Store(true)
	j.resume()
	return nil
}

// List returns every persisted task, newest first, for the admin task
// list view.
func (e *Engine) List(ctx context.Context) ([]Task, error) {
	return e.repo.List(ctx)
}

// Get returns a single persisted task by id.
func (e *Engine) Get(ctx context.Context, id string) (*Task, error) {
	return e.repo.FindByID(ctx, id)
}

// Delete removes a finished task's history row. It does not affect an
// in-flight job; callers should Abort first if id is still running.
func (e *Engine) Delete(ctx context.Context, id string) error {
	return e.repo.Delete(ctx, id)
}

// ReconcileInterrupted marks every task left RUNNING/PAUSED by a prior
// process as FAILED. Call once at startup before accepting new submissions.
func (e *Engine) ReconcileInterrupted(ctx context.Context) (int64, error) {
	n, err := e.repo.ReconcileInterrupted(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.logger.WarnContext(ctx, "reconciled interrupted tasks", "count", n)
	}
	return n, nil
}
