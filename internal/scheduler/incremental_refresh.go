// Copyright (c) 2026 Danmu. All rights reserved.

package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/core/source"
	"github.com/sorahq/danmu/internal/scraper"
	"github.com/sorahq/danmu/internal/task"
	"github.com/sorahq/danmu/pkg/comment"
)

// IncrementalRefreshJob iterates every Source with incremental refresh
// enabled, fetches its current episode listing, and imports only the
// episodes not already present.
type IncrementalRefreshJob struct {
	sources  *source.Service
	episodes *episode.Service
	registry *scraper.Registry
	logger   *slog.Logger
}

// NewIncrementalRefreshJob constructs the job.
func NewIncrementalRefreshJob(sources *source.Service, episodes *episode.Service, registry *scraper.Registry, logger *slog.Logger) *IncrementalRefreshJob {
	return &IncrementalRefreshJob{sources: sources, episodes: episodes, registry: registry, logger: logger}
}

func (j *IncrementalRefreshJob) JobType() string { return "incremental_refresh" }
func (j *IncrementalRefreshJob) JobName() string { return "Incremental episode refresh" }

func (j *IncrementalRefreshJob) Run(ctx context.Context, progress task.ProgressCallback) error {
	sources, err := j.sources.ListEnabledForIncrementalRefresh(ctx)
	if err != nil {
		return fmt.Errorf("list incremental-refresh sources: %w", err)
	}

	total := len(sources)
	refreshed, failed := 0, 0
	for i, src := range sources {
		percent := 0
		if total > 0 {
			percent = (i * 100) / total
		}
		_ = progress(ctx, percent, fmt.Sprintf("refreshing source %d/%d", i+1, total))

		if err := j.refreshOne(ctx, src); err != nil {
			failed++
			j.logger.WarnContext(ctx, "incremental refresh failed for source", "source_id", src.ID, "error", err)
			_ = j.sources.RecordRefreshResult(ctx, src.ID, false)
			continue
		}
		refreshed++
		_ = j.sources.RecordRefreshResult(ctx, src.ID, true)
	}

	return task.Succeeded(fmt.Sprintf("refreshed %d sources, %d failed", refreshed, failed))
}

func (j *IncrementalRefreshJob) refreshOne(ctx context.Context, src *source.Source) error {
	provider := j.registry.Provider(src.ProviderName)
	if provider == nil {
		return fmt.Errorf("no provider registered for %q", src.ProviderName)
	}

	upstream, err := provider.GetEpisodes(ctx, src.MediaID)
	if err != nil {
		return fmt.Errorf("get episodes: %w", err)
	}

	existing, err := j.episodes.ListBySource(ctx, src.ID)
	if err != nil {
		return fmt.Errorf("list existing episodes: %w", err)
	}
	existingIndex := make(map[int]bool, len(existing))
	for _, ep := range existing {
		existingIndex[ep.EpisodeIndex] = true
	}

	sources, err := j.sources.ListByWork(ctx, src.WorkID)
	if err != nil {
		return fmt.Errorf("list sibling sources: %w", err)
	}
	sourceOrder := 0
	for i, s := range sources {
		if s.ID == src.ID {
			sourceOrder = i + 1
			break
		}
	}
	if sourceOrder == 0 {
		return fmt.Errorf("source %d not found among its own work's sources", src.ID)
	}

	var toImport []episode.ImportEpisode
	for _, info := range upstream {
		if existingIndex[info.Index] {
			continue
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
			Comments:          toEpisodeComments(rawComments),
		})
	}
	if len(toImport) == 0 {
		return nil
	}

	_, err = j.episodes.Import(ctx, src.WorkID, src.ID, sourceOrder, toImport)
	return err
}

func toEpisodeComments(raw []scraper.RawComment) []episode.Comment {
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
