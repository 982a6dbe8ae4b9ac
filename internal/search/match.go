// Copyright (c) 2026 Danmu. All rights reserved.

package search

import (
	"context"
	"log/slog"

	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/core/source"
	"github.com/sorahq/danmu/internal/core/tmdbmap"
	"github.com/sorahq/danmu/internal/core/work"
)

// Match is a single dandanplay-compatible match result.
type Match struct {
	AnimeID      int64
	AnimeTitle   string
	EpisodeID    int64
	EpisodeTitle string
	Type         string
	Shift        int
}

// Matcher implements the 3-strategy matching chain used by the
// compatibility API's /api/v2/match endpoint.
type Matcher struct {
	work    *work.Service
	source  *source.Service
	episode *episode.Service
	tmdbmap *tmdbmap.Service
	logger  *slog.Logger
}

// NewMatcher constructs a [Matcher].
func NewMatcher(workSvc *work.Service, sourceSvc *source.Service, episodeSvc *episode.Service, tmdbmapSvc *tmdbmap.Service, logger *slog.Logger) *Matcher {
	return &Matcher{work: workSvc, source: sourceSvc, episode: episodeSvc, tmdbmap: tmdbmapSvc, logger: logger}
}

// Match resolves (title, season, episode) to zero or more local matches,
// trying full-text search, then a permissive LIKE fallback, then a
// TMDB-episode-group fallback, short-circuiting on the first strategy
// that returns anything.
func (m *Matcher) Match(ctx context.Context, title string, season, episodeNumber *int) ([]Match, error) {
	works, err := m.work.SearchFullText(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(works) == 0 {
		works, err = m.work.SearchLike(ctx, title)
		if err != nil {
			return nil, err
		}
	}

	if len(works) > 0 {
		matches, err := m.resolveEpisodes(ctx, works, season, episodeNumber)
		if err != nil || len(matches) > 0 {
			return matches, err
		}
	}

	return m.matchViaTMDBGroup(ctx, title, season, episodeNumber)
}

// resolveEpisodes picks, per matched Work, the episode whose index equals
// the requested episode number (defaulting to episode 1 when none was
// parsed) across every Source of that Work.
func (m *Matcher) resolveEpisodes(ctx context.Context, works []*work.Work, season, episodeNumber *int) ([]Match, error) {
	wantIndex := 1
	if episodeNumber != nil {
		wantIndex = *episodeNumber
	}

	var matches []Match
	for _, w := range works {
		if season != nil && w.Season != *season {
			continue
		}

		sources, err := m.source.ListByWork(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			episodes, err := m.episode.ListBySource(ctx, src.ID)
			if err != nil {
				return nil, err
			}
			for _, ep := range episodes {
				if ep.EpisodeIndex != wantIndex {
					continue
				}
				matches = append(matches, Match{
					AnimeID:      w.ID,
					AnimeTitle:   w.Title,
					EpisodeID:    ep.ID,
					EpisodeTitle: ep.Title,
					Type:         string(w.Type),
				})
			}
		}
	}
	return matches, nil
}

// matchViaTMDBGroup resolves through a work's known TMDB episode-group
// mapping when direct title matching found nothing. When season/episode
// are both known, it resolves by (custom_season, custom_episode);
// otherwise episodeNumber is treated as an absolute episode number within
// the group.
func (m *Matcher) matchViaTMDBGroup(ctx context.Context, title string, season, episodeNumber *int) ([]Match, error) {
	works, err := m.work.SearchLike(ctx, title)
	if err != nil || len(works) == 0 {
		return nil, err
	}

	var matches []Match
	for _, w := range works {
		meta, err := m.work.GetMetadata(ctx, w.ID)
		if err != nil || meta.TMDBID == nil || meta.TMDBEpisodeGroupID == "" {
			continue
		}

		var mapping *tmdbmap.Mapping
		if season != nil && episodeNumber != nil {
			mapping, err = m.tmdbmap.ResolveCustom(ctx, *meta.TMDBID, meta.TMDBEpisodeGroupID, *season, *episodeNumber)
		} else if episodeNumber != nil {
			mapping, err = m.tmdbmap.ResolveAbsolute(ctx, *meta.TMDBID, meta.TMDBEpisodeGroupID, *episodeNumber)
		} else {
			continue
		}
		if err != nil || mapping == nil {
			continue
		}

		ep, err := m.findEpisodeByProviderIndex(ctx, w.ID, mapping.AbsoluteEpisodeNumber)
		if err != nil || ep == nil {
			continue
		}
		matches = append(matches, Match{AnimeID: w.ID, AnimeTitle: w.Title, EpisodeID: ep.ID, EpisodeTitle: ep.Title, Type: string(w.Type)})
	}
	return matches, nil
}

func (m *Matcher) findEpisodeByProviderIndex(ctx context.Context, workID int64, episodeIndex int) (*episode.Episode, error) {
	sources, err := m.source.ListByWork(ctx, workID)
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		episodes, err := m.episode.ListBySource(ctx, src.ID)
		if err != nil {
			return nil, err
		}
		for _, ep := range episodes {
			if ep.EpisodeIndex == episodeIndex {
				return ep, nil
			}
		}
	}
	return nil, nil
}
