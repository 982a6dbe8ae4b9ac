// Copyright (c) 2026 Danmu. All rights reserved.

package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/core/source"
	"github.com/sorahq/danmu/internal/scheduler"
	"github.com/sorahq/danmu/internal/scraper"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- source fakes ---

type fakeSourceRepo struct {
	enabled []*source.Source
	byWork  map[int64][]*source.Source
	results map[int64]bool
}

func (f *fakeSourceRepo) ListByWork(_ context.Context, workID int64) ([]*source.Source, error) {
	return f.byWork[workID], nil
}
func (f *fakeSourceRepo) ListEnabledForIncrementalRefresh(context.Context) ([]*source.Source, error) {
	return f.enabled, nil
}
func (f *fakeSourceRepo) FindByID(context.Context, int64) (*source.Source, error) { return nil, nil }
func (f *fakeSourceRepo) FindOrCreate(context.Context, int64, string, string) (*source.Source, error) {
	return nil, nil
}
func (f *fakeSourceRepo) Delete(context.Context, int64) error            { return nil }
func (f *fakeSourceRepo) SetFavorite(context.Context, int64, bool) error { return nil }
func (f *fakeSourceRepo) SetIncrementalRefreshEnabled(context.Context, int64, bool) error {
	return nil
}
func (f *fakeSourceRepo) IncrementFailures(context.Context, int64) (int, error) { return 1, nil }
func (f *fakeSourceRepo) ResetFailures(_ context.Context, id int64) error {
	if f.results == nil {
		f.results = map[int64]bool{}
	}
	f.results[id] = true
	return nil
}
func (f *fakeSourceRepo) Reassociate(context.Context, int64, int64) error { return nil }

// --- episode fakes ---

type fakeEpisodeRepo struct {
	bySourceID map[int64][]*episode.Episode
	imported   []episode.ImportEpisode
}

func (f *fakeEpisodeRepo) ListBySource(_ context.Context, sourceID int64) ([]*episode.Episode, error) {
	return f.bySourceID[sourceID], nil
}
func (f *fakeEpisodeRepo) FindByID(context.Context, int64) (*episode.Episode, error) { return nil, nil }
func (f *fakeEpisodeRepo) FindByProviderEpisodeID(context.Context, int64, string) (*episode.Episode, error) {
	return nil, nil
}
func (f *fakeEpisodeRepo) ImportEpisodes(_ context.Context, _, _ int64, _ int, episodes []episode.ImportEpisode) (episode.ImportResult, error) {
	f.imported = append(f.imported, episodes...)
	return episode.ImportResult{EpisodesWritten: len(episodes)}, nil
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
func (f *fakeEpisodeRepo) ClearEpisodes(context.Context, int64) error    { return nil }
func (f *fakeEpisodeRepo) Reorder(context.Context, int64, []int64) error { return nil }

// --- scraper provider fake ---

type fakeProvider struct {
	name     string
	episodes []scraper.EpisodeInfo
	comments map[string][]scraper.RawComment
	err      error
}

func (p *fakeProvider) Name() string { return p.name }
func (p *fakeProvider) Search(context.Context, string) ([]scraper.SearchResult, error) {
	return nil, nil
}
func (p *fakeProvider) GetEpisodes(context.Context, string) ([]scraper.EpisodeInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.episodes, nil
}
func (p *fakeProvider) GetComments(_ context.Context, providerEpisodeID string) ([]scraper.RawComment, error) {
	return p.comments[providerEpisodeID], nil
}
func (p *fakeProvider) ExecuteAction(context.Context, scraper.ActionRequest) error { return nil }
func (p *fakeProvider) Close() error                                              { return nil }
func (p *fakeProvider) ConfigurableFields() []string                              { return nil }
func (p *fakeProvider) IsLoggable() bool                                          { return false }

func TestIncrementalRefreshJob_ImportsOnlyNewEpisodes(t *testing.T) {
	src := &source.Source{ID: 10, WorkID: 1, ProviderName: "tencent", MediaID: "m1", IncrementalRefreshEnabled: true}
	sourceRepo := &fakeSourceRepo{
		enabled: []*source.Source{src},
		byWork:  map[int64][]*source.Source{1: {src}},
	}
	episodeRepo := &fakeEpisodeRepo{
		bySourceID: map[int64][]*episode.Episode{10: {{ID: 100, SourceID: 10, EpisodeIndex: 1}}},
	}
	provider := &fakeProvider{
		name: "tencent",
		episodes: []scraper.EpisodeInfo{
			{Index: 1, Title: "Episode 1", ProviderEpisodeID: "p1"},
			{Index: 2, Title: "Episode 2", ProviderEpisodeID: "p2"},
		},
		comments: map[string][]scraper.RawComment{
			"p2": {{CID: "c1", P: "1.0,1,16777215", M: "hello", T: 1.0}},
		},
	}
	registry := scraper.NewRegistry(nil, []scraper.Provider{provider})

	job := scheduler.NewIncrementalRefreshJob(
		source.NewService(sourceRepo, discardLogger(), 3),
		episode.NewService(episodeRepo, discardLogger()),
		registry,
		discardLogger(),
	)

	var progressCalls int
	err := job.Run(context.Background(), func(context.Context, int, string) error {
		progressCalls++
		return nil
	})
	require.Error(t, err) // task.Succeeded is technically a non-nil error type
	require.Len(t, episodeRepo.imported, 1)
	assert.Equal(t, 2, episodeRepo.imported[0].EpisodeIndex)
	assert.True(t, sourceRepo.results[10])
	assert.Greater(t, progressCalls, 0)
}

func TestIncrementalRefreshJob_RecordsFailureOnProviderError(t *testing.T) {
	src := &source.Source{ID: 20, WorkID: 2, ProviderName: "iqiyi", MediaID: "m2", IncrementalRefreshEnabled: true}
	sourceRepo := &fakeSourceRepo{
		enabled: []*source.Source{src},
		byWork:  map[int64][]*source.Source{2: {src}},
	}
	episodeRepo := &fakeEpisodeRepo{}
	provider := &fakeProvider{name: "iqiyi", err: errors.New("upstream unavailable")}
	registry := scraper.NewRegistry(nil, []scraper.Provider{provider})

	job := scheduler.NewIncrementalRefreshJob(
		source.NewService(sourceRepo, discardLogger(), 3),
		episode.NewService(episodeRepo, discardLogger()),
		registry,
		discardLogger(),
	)

	err := job.Run(context.Background(), func(context.Context, int, string) error { return nil })
	require.Error(t, err)
	assert.Empty(t, episodeRepo.imported)
	assert.False(t, sourceRepo.results[20])
}
