// Copyright (c) 2026 Danmu. All rights reserved.

package tmdbmap

import (
	"context"
	"log/slog"
)

// # Service Layer

// Service orchestrates episode-group mapping refreshes.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Refresh computes and atomically replaces the mapping rows for a TV id
// / group id pair.
func (s *Service) Refresh(ctx context.Context, tmdbTVID int64, groupID string, groups []UpstreamGroup) error {
	mappings := BuildMappings(tmdbTVID, groupID, groups)
	if err := s.repo.Refresh(ctx, tmdbTVID, groupID, mappings); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "refreshed tmdb episode-group mapping",
		"tmdb_tv_id", tmdbTVID, "group_id", groupID, "rows", len(mappings))
	return nil
}

// ResolveCustom resolves a (custom_season, custom_episode) pair.
func (s *Service) ResolveCustom(ctx context.Context, tmdbTVID int64, groupID string, customSeason, customEpisode int) (*Mapping, error) {
	return s.repo.FindByCustom(ctx, tmdbTVID, groupID, customSeason, customEpisode)
}

// ResolveAbsolute resolves an absolute_episode_number.
func (s *Service) ResolveAbsolute(ctx context.Context, tmdbTVID int64, groupID string, absoluteEpisode int) (*Mapping, error) {
	return s.repo.FindByAbsolute(ctx, tmdbTVID, groupID, absoluteEpisode)
}
