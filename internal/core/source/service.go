// Copyright (c) 2026 Danmu. All rights reserved.

package source

import (
	"context"
	"log/slog"
)

// # Service Layer

// Service orchestrates the business logic for Source bookkeeping.
type Service struct {
	repo       Repository
	logger     *slog.Logger
	failureCap int
}

// NewService constructs a new [Service]. failureCap is the number of
// consecutive incremental-refresh failures after which
// incremental_refresh_enabled is forced false.
func NewService(repo Repository, logger *slog.Logger, failureCap int) *Service {
	return &Service{repo: repo, logger: logger, failureCap: failureCap}
}

// ListByWork returns a Work's Sources ordered by id ascending.
func (s *Service) ListByWork(ctx context.Context, workID int64) ([]*Source, error) {
	return s.repo.ListByWork(ctx, workID)
}

// Get returns a single Source by id.
func (s *Service) Get(ctx context.Context, id int64) (*Source, error) {
	return s.repo.FindByID(ctx, id)
}

// ListEnabledForIncrementalRefresh returns every Source across the whole
// catalogue eligible for the scheduler's incremental-refresh job.
func (s *Service) ListEnabledForIncrementalRefresh(ctx context.Context) ([]*Source, error) {
	return s.repo.ListEnabledForIncrementalRefresh(ctx)
}

// FindOrCreate locates or creates a Source by its natural key.
func (s *Service) FindOrCreate(ctx context.Context, workID int64, providerName, mediaID string) (*Source, error) {
	return s.repo.FindOrCreate(ctx, workID, providerName, mediaID)
}

// Delete removes a Source and its owned Episodes/Comments.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// SetFavorite toggles is_favorited, clearing any sibling favorite.
func (s *Service) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	return s.repo.SetFavorite(ctx, id, favorite)
}

/*
RecordRefreshResult updates the incremental-refresh bookkeeping after one
refresh attempt. On success the failure counter resets to zero; on
failure it increments, and crosses the configured cap disables
incremental_refresh_enabled so the scheduler stops retrying a source that
is consistently broken.
*/
func (s *Service) RecordRefreshResult(ctx context.Context, id int64, succeeded bool) error {
	if succeeded {
		return s.repo.ResetFailures(ctx, id)
	}

	failures, err := s.repo.IncrementFailures(ctx, id)
	if err != nil {
		return err
	}
	if failures >= s.failureCap {
		return s.repo.SetIncrementalRefreshEnabled(ctx, id, false)
	}
	return nil
}

// Reassociate moves every Source of fromWorkID to toWorkID, deleting
// colliding Sources and the now-empty origin Work.
func (s *Service) Reassociate(ctx context.Context, fromWorkID, toWorkID int64) error {
	return s.repo.Reassociate(ctx, fromWorkID, toWorkID)
}
