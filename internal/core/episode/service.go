// Copyright (c) 2026 Danmu. All rights reserved.

package episode

import (
	"context"
	"log/slog"
)

// # Service Layer

// Service orchestrates Episode/Comment writes.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListBySource returns a Source's Episodes ordered by episode_index.
func (s *Service) ListBySource(ctx context.Context, sourceID int64) ([]*Episode, error) {
	return s.repo.ListBySource(ctx, sourceID)
}

// Get returns a single Episode by id.
func (s *Service) Get(ctx context.Context, id int64) (*Episode, error) {
	return s.repo.FindByID(ctx, id)
}

// Import writes a batch of scraper-returned episodes transactionally,
// per the import pipeline's step 5.
func (s *Service) Import(ctx context.Context, workID, sourceID int64, sourceOrder int, episodes []ImportEpisode) (ImportResult, error) {
	result, err := s.repo.ImportEpisodes(ctx, workID, sourceID, sourceOrder, episodes)
	if err != nil {
		return ImportResult{}, err
	}
	s.logger.InfoContext(ctx, "imported episode batch",
		"source_id", sourceID, "episodes_written", result.EpisodesWritten, "comments_written", result.CommentsWritten)
	return result, nil
}

// RefreshSingleEpisode fetches the delta for one episode: it diffs the
// caller-supplied upstream comment set against what's already stored and
// inserts only the new cids.
func (s *Service) RefreshSingleEpisode(ctx context.Context, episodeID int64, upstream []Comment) (int, error) {
	existing, err := s.repo.ExistingCIDs(ctx, episodeID)
	if err != nil {
		return 0, err
	}

	var delta []Comment
	for _, c := range upstream {
		if !existing[c.CID] {
			delta = append(delta, c)
		}
	}
	if len(delta) == 0 {
		return s.repo.ImportEpisodeComments(ctx, episodeID, nil)
	}
	return s.repo.ImportEpisodeComments(ctx, episodeID, delta)
}

// FullRefresh clears a Source's Episodes (cascading to Comments) so the
// caller can re-run the import from scratch.
func (s *Service) FullRefresh(ctx context.Context, sourceID int64) error {
	return s.repo.ClearEpisodes(ctx, sourceID)
}

// Reorder normalizes episode_index to match the given order.
func (s *Service) Reorder(ctx context.Context, sourceID int64, orderedEpisodeIDs []int64) error {
	return s.repo.Reorder(ctx, sourceID, orderedEpisodeIDs)
}

// ListComments returns every Comment for an Episode, used by the
// compatibility API's comment endpoint.
func (s *Service) ListComments(ctx context.Context, episodeID int64) ([]Comment, error) {
	return s.repo.ListComments(ctx, episodeID)
}
