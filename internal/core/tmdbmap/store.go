// Copyright (c) 2026 Danmu. All rights reserved.

package tmdbmap

import "context"

// # TMDB Mapping Data Access

// Repository defines the data access contract for the episode-group
// mapping table.
type Repository interface {
	// Refresh replaces every mapping row for (tmdbTVID, groupID) with
	// mappings, inside a single transaction (delete-then-bulk-insert).
	Refresh(context context.Context, tmdbTVID int64, groupID string, mappings []Mapping) error

	// FindByCustom looks up a mapping by (custom_season_number,
	// custom_episode_number) within a group.
	FindByCustom(context context.Context, tmdbTVID int64, groupID string, customSeason, customEpisode int) (*Mapping, error)

	// FindByAbsolute looks up a mapping by absolute_episode_number within
	// a group.
	FindByAbsolute(context context.Context, tmdbTVID int64, groupID string, absoluteEpisode int) (*Mapping, error)
}
