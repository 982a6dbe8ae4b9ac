// Copyright (c) 2026 Danmu. All rights reserved.

package search_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/core/source"
	"github.com/sorahq/danmu/internal/core/tmdbmap"
	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/search"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- work fakes ---

type fakeWorkRepo struct {
	fullText []*work.Work
	like     []*work.Work
	metadata map[int64]*work.Metadata
}

func (f *fakeWorkRepo) List(context.Context, work.Filter, int, int) ([]*work.Work, int, error) {
	return nil, 0, nil
}
func (f *fakeWorkRepo) FindByID(context.Context, int64) (*work.Work, error) { return nil, nil }
func (f *fakeWorkRepo) FindOrCreate(context.Context, string, int, work.Type, string, string) (*work.Work, error) {
	return nil, nil
}
func (f *fakeWorkRepo) Delete(context.Context, int64) error { return nil }
func (f *fakeWorkRepo) GetMetadata(_ context.Context, workID int64) (*work.Metadata, error) {
	if m, ok := f.metadata[workID]; ok {
		return m, nil
	}
	return &work.Metadata{WorkID: workID}, nil
}
func (f *fakeWorkRepo) UpdateMetadataWriteIfEmpty(context.Context, work.Metadata) error { return nil }
func (f *fakeWorkRepo) UpdateMetadataForce(context.Context, work.Metadata) error        { return nil }
func (f *fakeWorkRepo) GetAliases(context.Context, int64) (*work.Aliases, error) {
	return &work.Aliases{}, nil
}
func (f *fakeWorkRepo) UpdateAliasesWriteIfEmpty(context.Context, work.Aliases) error { return nil }
func (f *fakeWorkRepo) UpdateAliasesForce(context.Context, work.Aliases) error        { return nil }
func (f *fakeWorkRepo) SearchFullText(context.Context, string) ([]*work.Work, error) {
	return f.fullText, nil
}
func (f *fakeWorkRepo) SearchLike(context.Context, string) ([]*work.Work, error) {
	return f.like, nil
}
func (f *fakeWorkRepo) ListTMDBLinked(context.Context) ([]*work.Work, error) { return nil, nil }

// --- source fakes ---

type fakeSourceRepo struct {
	bySource map[int64][]*source.Source
}

func (f *fakeSourceRepo) ListByWork(_ context.Context, workID int64) ([]*source.Source, error) {
	return f.bySource[workID], nil
}
func (f *fakeSourceRepo) ListEnabledForIncrementalRefresh(context.Context) ([]*source.Source, error) {
	return nil, nil
}
func (f *fakeSourceRepo) FindByID(context.Context, int64) (*source.Source, error) { return nil, nil }
func (f *fakeSourceRepo) FindOrCreate(context.Context, int64, string, string) (*source.Source, error) {
	return nil, nil
}
func (f *fakeSourceRepo) Delete(context.Context, int64) error                      { return nil }
func (f *fakeSourceRepo) SetFavorite(context.Context, int64, bool) error           { return nil }
func (f *fakeSourceRepo) SetIncrementalRefreshEnabled(context.Context, int64, bool) error { return nil }
func (f *fakeSourceRepo) IncrementFailures(context.Context, int64) (int, error)    { return 0, nil }
func (f *fakeSourceRepo) ResetFailures(context.Context, int64) error               { return nil }
func (f *fakeSourceRepo) Reassociate(context.Context, int64, int64) error          { return nil }

// --- episode fakes ---

type fakeEpisodeRepo struct {
	bySourceID map[int64][]*episode.Episode
}

func (f *fakeEpisodeRepo) ListBySource(_ context.Context, sourceID int64) ([]*episode.Episode, error) {
	return f.bySourceID[sourceID], nil
}
func (f *fakeEpisodeRepo) FindByID(context.Context, int64) (*episode.Episode, error) { return nil, nil }
func (f *fakeEpisodeRepo) FindByProviderEpisodeID(context.Context, int64, string) (*episode.Episode, error) {
	return nil, nil
}
func (f *fakeEpisodeRepo) ImportEpisodes(context.Context, int64, int64, int, []episode.ImportEpisode) (episode.ImportResult, error) {
	return episode.ImportResult{}, nil
}
func (f *fakeEpisodeRepo) ImportEpisodeComments(context.Context, int64, []episode.Comment) (int, error) {
	return 0, nil
}
func (f *fakeEpisodeRepo) ExistingCIDs(context.Context, int64) (map[string]bool, error) {
	return nil, nil
}
func (f *fakeEpisodeRepo) ListComments(context.Context, int64) ([]episode.Comment, error) {
	return nil, nil
}
func (f *fakeEpisodeRepo) ClearEpisodes(context.Context, int64) error { return nil }
func (f *fakeEpisodeRepo) Reorder(context.Context, int64, []int64) error { return nil }

// --- tmdbmap fakes ---

type fakeTMDBMapRepo struct {
	custom   *tmdbmap.Mapping
	absolute *tmdbmap.Mapping
}

func (f *fakeTMDBMapRepo) Refresh(context.Context, int64, string, []tmdbmap.Mapping) error {
	return nil
}
func (f *fakeTMDBMapRepo) FindByCustom(context.Context, int64, string, int, int) (*tmdbmap.Mapping, error) {
	return f.custom, nil
}
func (f *fakeTMDBMapRepo) FindByAbsolute(context.Context, int64, string, int) (*tmdbmap.Mapping, error) {
	return f.absolute, nil
}

func intPtr(n int) *int { return &n }

func TestMatch_FullTextStrategyShortCircuits(t *testing.T) {
	w := &work.Work{ID: 1, Title: "Fate：Zero", Type: work.TypeTVSeries, Season: 1}
	workRepo := &fakeWorkRepo{fullText: []*work.Work{w}, metadata: map[int64]*work.Metadata{}}
	sourceRepo := &fakeSourceRepo{bySource: map[int64][]*source.Source{1: {{ID: 10, WorkID: 1}}}}
	episodeRepo := &fakeEpisodeRepo{bySourceID: map[int64][]*episode.Episode{
		10: {{ID: 100, SourceID: 10, EpisodeIndex: 1, Title: "Episode 1"}},
	}}
	tmdbRepo := &fakeTMDBMapRepo{}

	matcher := search.NewMatcher(
		work.NewService(workRepo, discardLogger()),
		source.NewService(sourceRepo, discardLogger(), 3),
		episode.NewService(episodeRepo, discardLogger()),
		tmdbmap.NewService(tmdbRepo, discardLogger()),
		discardLogger(),
	)

	matches, err := matcher.Match(context.Background(), "Fate Zero", intPtr(1), intPtr(1))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(100), matches[0].EpisodeID)
	assert.Equal(t, "Fate：Zero", matches[0].AnimeTitle)
}

func TestMatch_FallsBackToLikeWhenFullTextEmpty(t *testing.T) {
	w := &work.Work{ID: 2, Title: "Steins;Gate", Type: work.TypeTVSeries, Season: 1}
	workRepo := &fakeWorkRepo{fullText: nil, like: []*work.Work{w}, metadata: map[int64]*work.Metadata{}}
	sourceRepo := &fakeSourceRepo{bySource: map[int64][]*source.Source{2: {{ID: 20, WorkID: 2}}}}
	episodeRepo := &fakeEpisodeRepo{bySourceID: map[int64][]*episode.Episode{
		20: {{ID: 200, SourceID: 20, EpisodeIndex: 1, Title: "Episode 1"}},
	}}

	matcher := search.NewMatcher(
		work.NewService(workRepo, discardLogger()),
		source.NewService(sourceRepo, discardLogger(), 3),
		episode.NewService(episodeRepo, discardLogger()),
		tmdbmap.NewService(&fakeTMDBMapRepo{}, discardLogger()),
		discardLogger(),
	)

	matches, err := matcher.Match(context.Background(), "SteinsGate", nil, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(200), matches[0].EpisodeID)
}

func TestMatch_TMDBGroupFallbackResolvesAbsoluteEpisode(t *testing.T) {
	tmdb1 := int64(555)
	w := &work.Work{ID: 3, Title: "Some Show", Type: work.TypeTVSeries, Season: 1}
	workRepo := &fakeWorkRepo{
		fullText: nil,
		like:     []*work.Work{w},
		metadata: map[int64]*work.Metadata{3: {WorkID: 3, TMDBID: &tmdb1, TMDBEpisodeGroupID: "grp"}},
	}
	sourceRepo := &fakeSourceRepo{bySource: map[int64][]*source.Source{3: {{ID: 30, WorkID: 3}}}}
	episodeRepo := &fakeEpisodeRepo{bySourceID: map[int64][]*episode.Episode{
		30: {{ID: 300, SourceID: 30, EpisodeIndex: 13, Title: "Episode 13"}},
	}}
	tmdbRepo := &fakeTMDBMapRepo{absolute: &tmdbmap.Mapping{TMDBEpisodeNumber: 4, AbsoluteEpisodeNumber: 13}}

	matcher := search.NewMatcher(
		work.NewService(workRepo, discardLogger()),
		source.NewService(sourceRepo, discardLogger(), 3),
		episode.NewService(episodeRepo, discardLogger()),
		tmdbmap.NewService(tmdbRepo, discardLogger()),
		discardLogger(),
	)

	matches, err := matcher.Match(context.Background(), "Some Show", nil, intPtr(13))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(300), matches[0].EpisodeID)
}

// TestMatch_TMDBGroupFallbackCustomSeasonResolvesSameEpisodeAsAbsolute
// verifies a request carrying a custom (season, episode) pair and an
// equivalent request carrying just the group-wide absolute episode number
// both resolve to the same local Episode — the local join key is always
// AbsoluteEpisodeNumber, never the TMDB season-relative episode number.
func TestMatch_TMDBGroupFallbackCustomSeasonResolvesSameEpisodeAsAbsolute(t *testing.T) {
	tmdb1 := int64(777)
	w := &work.Work{ID: 4, Title: "Another Show", Type: work.TypeTVSeries, Season: 1}
	workRepo := &fakeWorkRepo{
		fullText: nil,
		like:     []*work.Work{w},
		metadata: map[int64]*work.Metadata{4: {WorkID: 4, TMDBID: &tmdb1, TMDBEpisodeGroupID: "grp"}},
	}
	sourceRepo := &fakeSourceRepo{bySource: map[int64][]*source.Source{4: {{ID: 40, WorkID: 4}}}}
	episodeRepo := &fakeEpisodeRepo{bySourceID: map[int64][]*episode.Episode{
		40: {{ID: 400, SourceID: 40, EpisodeIndex: 13, Title: "Episode 13"}},
	}}
	// TMDBEpisodeNumber deliberately differs from AbsoluteEpisodeNumber to
	// prove the match is keyed on the absolute count, not the season-relative one.
	mapping := &tmdbmap.Mapping{TMDBEpisodeNumber: 4, AbsoluteEpisodeNumber: 13}
	tmdbRepo := &fakeTMDBMapRepo{custom: mapping, absolute: mapping}

	matcher := search.NewMatcher(
		work.NewService(workRepo, discardLogger()),
		source.NewService(sourceRepo, discardLogger(), 3),
		episode.NewService(episodeRepo, discardLogger()),
		tmdbmap.NewService(tmdbRepo, discardLogger()),
		discardLogger(),
	)

	customMatches, err := matcher.Match(context.Background(), "Another Show", intPtr(2), intPtr(4))
	require.NoError(t, err)
	require.Len(t, customMatches, 1)

	absoluteMatches, err := matcher.Match(context.Background(), "Another Show", nil, intPtr(13))
	require.NoError(t, err)
	require.Len(t, absoluteMatches, 1)

	assert.Equal(t, absoluteMatches[0].EpisodeID, customMatches[0].EpisodeID)
	assert.Equal(t, int64(400), customMatches[0].EpisodeID)
}

func TestMatch_NoMatchReturnsEmpty(t *testing.T) {
	workRepo := &fakeWorkRepo{metadata: map[int64]*work.Metadata{}}
	sourceRepo := &fakeSourceRepo{}
	episodeRepo := &fakeEpisodeRepo{}

	matcher := search.NewMatcher(
		work.NewService(workRepo, discardLogger()),
		source.NewService(sourceRepo, discardLogger(), 3),
		episode.NewService(episodeRepo, discardLogger()),
		tmdbmap.NewService(&fakeTMDBMapRepo{}, discardLogger()),
		discardLogger(),
	)

	matches, err := matcher.Match(context.Background(), "Nonexistent", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
