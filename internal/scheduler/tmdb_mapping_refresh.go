// Copyright (c) 2026 Danmu. All rights reserved.

package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sorahq/danmu/internal/core/tmdbmap"
	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/metadata/providers"
	"github.com/sorahq/danmu/internal/task"
)

// TMDBMappingRefreshJob regenerates tmdb_episode_mapping rows for every
// Work with a known tmdb_id.
type TMDBMappingRefreshJob struct {
	works   *work.Service
	tmdbmap *tmdbmap.Service
	tmdb    *providers.TMDB
	logger  *slog.Logger
}

// NewTMDBMappingRefreshJob constructs the job.
func NewTMDBMappingRefreshJob(works *work.Service, tmdbmapSvc *tmdbmap.Service, tmdb *providers.TMDB, logger *slog.Logger) *TMDBMappingRefreshJob {
	return &TMDBMappingRefreshJob{works: works, tmdbmap: tmdbmapSvc, tmdb: tmdb, logger: logger}
}

func (j *TMDBMappingRefreshJob) JobType() string { return "tmdb_mapping_refresh" }
func (j *TMDBMappingRefreshJob) JobName() string { return "TMDB episode-group mapping refresh" }

func (j *TMDBMappingRefreshJob) Run(ctx context.Context, progress task.ProgressCallback) error {
	works, err := j.works.ListTMDBLinked(ctx)
	if err != nil {
		return fmt.Errorf("list tmdb-linked works: %w", err)
	}

	total := len(works)
	refreshed, skipped := 0, 0
	for i, w := range works {
		percent := 0
		if total > 0 {
			percent = (i * 100) / total
		}
		_ = progress(ctx, percent, fmt.Sprintf("refreshing mapping %d/%d", i+1, total))

		meta, err := j.works.GetMetadata(ctx, w.ID)
		if err != nil || meta.TMDBID == nil || meta.TMDBEpisodeGroupID == "" {
			skipped++
			continue
		}

		groups, err := j.tmdb.FetchEpisodeGroups(ctx, *meta.TMDBID, meta.TMDBEpisodeGroupID)
		if err != nil {
			skipped++
			j.logger.WarnContext(ctx, "tmdb mapping refresh: fetch groups failed", "work_id", w.ID, "error", err)
			continue
		}

		if err := j.tmdbmap.Refresh(ctx, *meta.TMDBID, meta.TMDBEpisodeGroupID, groups); err != nil {
			skipped++
			j.logger.WarnContext(ctx, "tmdb mapping refresh: write failed", "work_id", w.ID, "error", err)
			continue
		}
		refreshed++
	}

	return task.Succeeded(fmt.Sprintf("refreshed %d mappings, %d skipped", refreshed, skipped))
}
