// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package scheduler wires cron-expression driven recurring jobs into the
task engine. Scheduled tasks are loaded from platform.scheduled_task at
startup; each enabled row gets a cron.EntryID. On fire, the scheduler
updates last_run_at/next_run_at and submits a task to [task.Engine] that
invokes the bound Job's Run method. Because the engine is a single-worker
FIFO queue, a job still RUNNING when its next fire lands is handled for
free: the new submission simply queues behind it.
*/
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sorahq/danmu/internal/task"
)

// Job is the Go rendering of the original project's BaseJob: a unit of
// recurring work identified by a stable job_type key.
type Job interface {
	JobType() string
	JobName() string
	Run(ctx context.Context, progress task.ProgressCallback) error
}

// Scheduler owns the cron runtime and the registered Job set.
type Scheduler struct {
	cron   *cron.Cron
	engine *task.Engine
	repo   Repository
	logger *slog.Logger

	mu      sync.Mutex
	jobs    map[string]Job           // job_type -> Job
	entries map[string]cron.EntryID // scheduled_task id -> cron entry
}

// New constructs a Scheduler over the given jobs, keyed by their JobType.
func New(engine *task.Engine, repo Repository, logger *slog.Logger, jobs []Job) *Scheduler {
	byType := make(map[string]Job, len(jobs))
	for _, j := range jobs {
		byType[j.JobType()] = j
	}
	return &Scheduler{
		cron:    cron.New(),
		engine:  engine,
		repo:    repo,
		logger:  logger,
		jobs:    byType,
		entries: make(map[string]cron.EntryID),
	}
}

// Start loads every enabled scheduled_task row and registers a cron entry
// for it, then starts the cron runtime. Rows naming an unknown job_type
// are logged and skipped rather than failing startup.
func (s *Scheduler) Start(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("scheduler: load scheduled tasks: %w", err)
	}

	s.mu.Lock()
	for _, row := range rows {
		if !row.IsEnabled {
			continue
		}
		if err := s.register(row); err != nil {
			s.logger.WarnContext(ctx, "scheduler: skipping scheduled task", "id", row.ID, "job_type", row.JobType, "error", err)
		}
	}
	s.mu.Unlock()

	s.cron.Start()
	return nil
}

// register must be called with s.mu held.
func (s *Scheduler) register(row ScheduledTask) error {
	job, ok := s.jobs[row.JobType]
	if !ok {
		return fmt.Errorf("unknown job_type %q", row.JobType)
	}

	entryID, err := s.cron.AddFunc(row.CronExpression, func() { s.fire(row.ID, job) })
	if err != nil {
		return fmt.Errorf("parse cron expression %q: %w", row.CronExpression, err)
	}
	s.entries[row.ID] = entryID
	return nil
}

// fire runs on the cron goroutine: it stamps last_run_at/next_run_at then
// submits the job's work to the task engine.
func (s *Scheduler) fire(scheduledTaskID string, job Job) {
	ctx := context.Background()

	s.mu.Lock()
	entryID := s.entries[scheduledTaskID]
	s.mu.Unlock()

	now := time.Now()
	next := s.cron.Entry(entryID).Next
	if err := s.repo.UpdateRunTimes(ctx, scheduledTaskID, now, next); err != nil {
		s.logger.ErrorContext(ctx, "scheduler: update run times", "id", scheduledTaskID, "error", err)
	}

	if _, err := s.engine.Submit(ctx, job.JobName(), func(ctx context.Context, progress task.ProgressCallback) error {
		return job.Run(ctx, progress)
	}); err != nil {
		s.logger.ErrorContext(ctx, "scheduler: submit job", "job_type", job.JobType(), "error", err)
	}
}

// RunNow submits job immediately, out of band from its cron schedule —
// used by the admin API's scheduled-task "run now" action.
func (s *Scheduler) RunNow(ctx context.Context, jobType string) error {
	s.mu.Lock()
	job, ok := s.jobs[jobType]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("scheduler: unknown job_type %q", jobType)
	}

	_, err := s.engine.Submit(ctx, job.JobName(), func(ctx context.Context, progress task.ProgressCallback) error {
		return job.Run(ctx, progress)
	})
	return err
}

// Reload re-registers every enabled scheduled_task row, removing cron
// entries for rows that disappeared or were disabled — used after the
// admin API mutates platform.scheduled_task.
func (s *Scheduler) Reload(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("scheduler: reload scheduled tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entryID := range s.entries {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}
	for _, row := range rows {
		if !row.IsEnabled {
			continue
		}
		if err := s.register(row); err != nil {
			s.logger.WarnContext(ctx, "scheduler: skipping scheduled task on reload", "id", row.ID, "job_type", row.JobType, "error", err)
		}
	}
	return nil
}

// Stop halts the cron runtime, waiting for any in-flight fire to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
