// Copyright (c) 2026 Danmu. All rights reserved.

package task_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/task"
)

type fakeRepository struct {
	mu    sync.Mutex
	tasks map[string]*task.Task
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{tasks: make(map[string]*task.Task)}
}

func (f *fakeRepository) Create(_ context.Context, id, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[id] = &task.Task{ID: id, Title: title, Status: task.StatusPending}
	return nil
}

func (f *fakeRepository) UpdateProgress(_ context.Context, id string, status task.Status, percent int, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tasks[id]
	t.Status, t.Progress, t.Description = status, percent, description
	return nil
}

func (f *fakeRepository) Finish(_ context.Context, id string, status task.Status, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tasks[id]
	t.Status, t.Description = status, description
	return nil
}

func (f *fakeRepository) List(context.Context) ([]task.Task, error) { return nil, nil }

func (f *fakeRepository) FindByID(_ context.Context, id string) (*task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[id], nil
}

func (f *fakeRepository) Delete(context.Context, string) error { return nil }

func (f *fakeRepository) ReconcileInterrupted(context.Context) (int64, error) { return 0, nil }

func (f *fakeRepository) status(id string) task.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[id].Status
}

func (f *fakeRepository) description(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[id].Description
}

func newEngine(repo task.Repository) *task.Engine {
	return task.NewEngine(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), 4)
}

func TestEngine_RunsSubmittedTaskToCompletion(t *testing.T) {
	repo := newFakeRepository()
	engine := newEngine(repo)

	done := make(chan struct{})
	id, err := engine.Submit(context.Background(), "import", func(ctx context.Context, progress task.ProgressCallback) error {
		defer close(done)
		return progress(ctx, 100, "done")
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	assert.Eventually(t, func() bool { return repo.status(id) == task.StatusCompleted }, time.Second, 5*time.Millisecond)
}

func TestEngine_CustomSuccessMessageBecomesDescription(t *testing.T) {
	repo := newFakeRepository()
	engine := newEngine(repo)

	id, err := engine.Submit(context.Background(), "import", func(ctx context.Context, progress task.ProgressCallback) error {
		return task.Succeeded("imported 3 comments")
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return repo.status(id) == task.StatusCompleted }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "imported 3 comments", repo.description(id))
}

func TestEngine_AbortStopsTaskAtNextCheckpoint(t *testing.T) {
	repo := newFakeRepository()
	engine := newEngine(repo)

	started := make(chan struct{})
	id, err := engine.Submit(context.Background(), "long import", func(ctx context.Context, progress task.ProgressCallback) error {
		close(started)
		for i := 0; i < 1000; i++ {
			if err := progress(ctx, i, "working"); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	<-started
	require.NoError(t, engine.Abort(id))

	assert.Eventually(t, func() bool { return repo.status(id) == task.StatusFailed }, time.Second, 5*time.Millisecond)
	assert.Contains(t, repo.description(id), "aborted")
}

func TestEngine_TasksRunInFIFOOrder(t *testing.T) {
	repo := newFakeRepository()
	engine := newEngine(repo)

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		_, err := engine.Submit(context.Background(), "job", func(ctx context.Context, progress task.ProgressCallback) error {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
	}

	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
