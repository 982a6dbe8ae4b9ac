// Copyright (c) 2026 Danmu. All rights reserved.

package source

import "context"

// # Source Data Access

// Repository defines the data access contract for the Source domain.
type Repository interface {
	// ListByWork returns every Source owned by a Work, ordered by id
	// ascending — this order is also the source_order used by
	// pkg/episodeid.Compute.
	ListByWork(context context.Context, workID int64) ([]*Source, error)

	// ListEnabledForIncrementalRefresh returns every Source across the
	// whole catalogue with incremental_refresh_enabled = true, ordered by
	// id ascending — consumed by the scheduler's incremental-refresh job.
	ListEnabledForIncrementalRefresh(context context.Context) ([]*Source, error)

	// FindByID returns the Source with the given id, or apperr.NotFound.
	FindByID(context context.Context, id int64) (*Source, error)

	// FindOrCreate locates a Source by its natural key, creating one if
	// absent.
	FindOrCreate(context context.Context, workID int64, providerName, mediaID string) (*Source, error)

	// Delete removes a Source and, via cascade, its Episodes/Comments.
	Delete(context context.Context, id int64) error

	/*
		SetFavorite sets is_favorited on id and clears it on every sibling
		Source of the same Work, within a single transaction — enforcing
		the "at most one favorite per Work" invariant.
	*/
	SetFavorite(context context.Context, id int64, favorite bool) error

	// SetIncrementalRefreshEnabled toggles the incremental-refresh flag
	// directly (used by the admin API and by RecordRefreshResult when the
	// failure cap trips).
	SetIncrementalRefreshEnabled(context context.Context, id int64, enabled bool) error

	// IncrementFailures bumps incremental_refresh_failures by one and
	// returns the new value.
	IncrementFailures(context context.Context, id int64) (int, error)

	// ResetFailures zeroes incremental_refresh_failures after a
	// successful incremental refresh.
	ResetFailures(context context.Context, id int64) error

	// Reassociate moves every Source of fromWorkID to toWorkID. A Source
	// that would collide with an existing (toWorkID, provider, media_id)
	// row is deleted instead of moved, cascading to its Episodes/Comments.
	Reassociate(context context.Context, fromWorkID, toWorkID int64) error
}
