// Copyright (c) 2026 Danmu. All rights reserved.

package maintenance_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sorahq/danmu/internal/maintenance"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCache struct{ swept int }

func (f *fakeCache) Sweep(context.Context) (int64, error) { f.swept++; return 0, nil }

type fakeTasks struct{ reconciled int }

func (f *fakeTasks) ReconcileInterrupted(context.Context) (int64, error) {
	f.reconciled++
	return 0, nil
}

func TestStart_ReconcilesTasksOnceOnStartupThenStopsOnCancel(t *testing.T) {
	cache := &fakeCache{}
	tasks := &fakeTasks{}
	runner := maintenance.New(cache, tasks, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after context cancellation")
	}

	assert.Equal(t, 1, tasks.reconciled)
}
