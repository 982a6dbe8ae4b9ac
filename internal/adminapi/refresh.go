// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"context"
	"fmt"

	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/scraper"
	"github.com/sorahq/danmu/internal/task"
	"github.com/sorahq/danmu/pkg/comment"
)

/*
submitSourceRefresh submits a background task that re-fetches one
Source's episode listing from its upstream provider. full clears every
existing Episode first (cascading to Comments) before importing, rather
than importing only episode indexes not already present — the same
fetch-then-diff shape as internal/scheduler's IncrementalRefreshJob,
generalized to a single admin-triggered source instead of every
incremental-refresh-enabled source in the catalogue.
*/
func (h *Handler) submitSourceRefresh(ctx context.Context, sourceID int64, full bool) (string, error) {
	src, err := h.sources.Get(ctx, sourceID)
	if err != nil {
		return "", err
	}

	provider := h.scrapers.Provider(src.ProviderName)
	if provider == nil {
		return "", apperr.ConfigMissing(fmt.Sprintf("scraper provider %q", src.ProviderName))
	}

	title := fmt.Sprintf("Refresh source %d", sourceID)
	return h.tasks.Submit(ctx, title, func(ctx context.Context, progress task.ProgressCallback) error {
		if full {
			if err := h.episodes.FullRefresh(ctx, sourceID); err != nil {
				return fmt.Errorf("clear existing episodes: %w", err)
			}
		}

		_ = progress(ctx, 10, "listing upstream episodes")
		upstream, err := provider.GetEpisodes(ctx, src.MediaID)
		if err != nil {
			return fmt.Errorf("get episodes: %w", err)
		}

		existingIndex := map[int]bool{}
		if !full {
			existing, err := h.episodes.ListBySource(ctx, sourceID)
			if err != nil {
				return fmt.Errorf("list existing episodes: %w", err)
			}
			for _, ep := range existing {
				existingIndex[ep.EpisodeIndex] = true
			}
		}

		siblings, err := h.sources.ListByWork(ctx, src.WorkID)
		if err != nil {
			return fmt.Errorf("list sibling sources: %w", err)
		}
		sourceOrder := 0
		for i, s := range siblings {
			if s.ID == sourceID {
				sourceOrder = i + 1
				break
			}
		}
		if sourceOrder == 0 {
			return apperr.FatalInvariant(fmt.Errorf("source %d not found among its own work's sources", sourceID))
		}

		var toImport []episode.ImportEpisode
		for i, info := range upstream {
			if existingIndex[info.Index] {
				continue
			}
			if total := len(upstream); total > 0 {
				_ = progress(ctx, 10+((i*80)/total), fmt.Sprintf("fetching comments %d/%d", i+1, total))
			}

			rawComments, err := provider.GetComments(ctx, info.ProviderEpisodeID)
			if err != nil {
				return fmt.Errorf("get comments for episode %d: %w", info.Index, err)
			}
			toImport = append(toImport, episode.ImportEpisode{
				EpisodeIndex:      info.Index,
				Title:             info.Title,
				ProviderEpisodeID: info.ProviderEpisodeID,
				SourceURL:         info.SourceURL,
				Comments:          normalizeComments(rawComments),
			})
		}
		if len(toImport) == 0 {
			return task.Succeeded("no new episodes to import")
		}

		result, err := h.episodes.Import(ctx, src.WorkID, sourceID, sourceOrder, toImport)
		if err != nil {
			return err
		}
		return task.Succeeded(fmt.Sprintf("imported %d episodes, %d comments", result.EpisodesWritten, result.CommentsWritten))
	})
}

// submitEpisodeRefresh submits a background task that re-fetches one
// Episode's comments and inserts only the cids not already stored.
func (h *Handler) submitEpisodeRefresh(ctx context.Context, episodeID int64) (string, error) {
	ep, err := h.episodes.Get(ctx, episodeID)
	if err != nil {
		return "", err
	}

	src, err := h.sources.Get(ctx, ep.SourceID)
	if err != nil {
		return "", err
	}

	provider := h.scrapers.Provider(src.ProviderName)
	if provider == nil {
		return "", apperr.ConfigMissing(fmt.Sprintf("scraper provider %q", src.ProviderName))
	}

	title := fmt.Sprintf("Refresh episode %d", episodeID)
	return h.tasks.Submit(ctx, title, func(ctx context.Context, progress task.ProgressCallback) error {
		_ = progress(ctx, 20, "fetching upstream comments")
		raw, err := provider.GetComments(ctx, ep.ProviderEpisodeID)
		if err != nil {
			return fmt.Errorf("get comments: %w", err)
		}

		written, err := h.episodes.RefreshSingleEpisode(ctx, episodeID, normalizeComments(raw))
		if err != nil {
			return err
		}
		return task.Succeeded(fmt.Sprintf("imported %d new comments", written))
	})
}

func normalizeComments(raw []scraper.RawComment) []episode.Comment {
	converted := make([]comment.Raw, len(raw))
	for i, r := range raw {
		converted[i] = comment.Raw{CID: r.CID, P: r.P, M: r.M, T: r.T}
	}

	normalized := comment.Normalize(converted)
	out := make([]episode.Comment, len(normalized))
	for i, c := range normalized {
		out[i] = episode.Comment{CID: c.CID, P: c.P, M: c.M, T: c.T}
	}
	return out
}
