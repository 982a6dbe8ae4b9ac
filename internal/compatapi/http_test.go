// Copyright (c) 2026 Danmu. All rights reserved.

package compatapi_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/compatapi"
	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/core/source"
	"github.com/sorahq/danmu/internal/core/tmdbmap"
	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/platform/apperr"
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
func (f *fakeSourceRepo) Delete(context.Context, int64) error                            { return nil }
func (f *fakeSourceRepo) SetFavorite(context.Context, int64, bool) error                 { return nil }
func (f *fakeSourceRepo) SetIncrementalRefreshEnabled(context.Context, int64, bool) error { return nil }
func (f *fakeSourceRepo) IncrementFailures(context.Context, int64) (int, error)           { return 0, nil }
func (f *fakeSourceRepo) ResetFailures(context.Context, int64) error                      { return nil }
func (f *fakeSourceRepo) Reassociate(context.Context, int64, int64) error                 { return nil }

// --- episode fakes ---

type fakeEpisodeRepo struct {
	bySourceID map[int64][]*episode.Episode
	byID       map[int64]*episode.Episode
	comments   map[int64][]episode.Comment
}

func (f *fakeEpisodeRepo) ListBySource(_ context.Context, sourceID int64) ([]*episode.Episode, error) {
	return f.bySourceID[sourceID], nil
}
func (f *fakeEpisodeRepo) FindByID(_ context.Context, id int64) (*episode.Episode, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, apperr.NotFound("Episode")
}
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
func (f *fakeEpisodeRepo) ListComments(_ context.Context, episodeID int64) ([]episode.Comment, error) {
	return f.comments[episodeID], nil
}
func (f *fakeEpisodeRepo) ClearEpisodes(context.Context, int64) error    { return nil }
func (f *fakeEpisodeRepo) Reorder(context.Context, int64, []int64) error { return nil }

// --- tmdbmap fakes ---

type fakeTMDBMapRepo struct{}

func (f *fakeTMDBMapRepo) Refresh(context.Context, int64, string, []tmdbmap.Mapping) error {
	return nil
}
func (f *fakeTMDBMapRepo) FindByCustom(context.Context, int64, string, int, int) (*tmdbmap.Mapping, error) {
	return nil, nil
}
func (f *fakeTMDBMapRepo) FindByAbsolute(context.Context, int64, string, int) (*tmdbmap.Mapping, error) {
	return nil, nil
}

func newHandler(workRepo *fakeWorkRepo, sourceRepo *fakeSourceRepo, episodeRepo *fakeEpisodeRepo) *compatapi.Handler {
	workSvc := work.NewService(workRepo, discardLogger())
	sourceSvc := source.NewService(sourceRepo, discardLogger(), 3)
	episodeSvc := episode.NewService(episodeRepo, discardLogger())
	matcher := search.NewMatcher(workSvc, sourceSvc, episodeSvc, tmdbmap.NewService(&fakeTMDBMapRepo{}, discardLogger()), discardLogger())
	return compatapi.NewHandler(workSvc, episodeSvc, matcher)
}

func TestSearchAnime_ReturnsBitCompatShape(t *testing.T) {
	w := &work.Work{ID: 1, Title: "Fate：Zero", Type: work.TypeTVSeries, Season: 1, ImageURL: "http://img/1.jpg"}
	handler := newHandler(
		&fakeWorkRepo{fullText: []*work.Work{w}, metadata: map[int64]*work.Metadata{}},
		&fakeSourceRepo{},
		&fakeEpisodeRepo{},
	)

	req := httptest.NewRequest(http.MethodGet, "/search/anime?keyword=Fate", nil)
	rec := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Mount("/", handler.Routes())
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["hasMore"])
	animes := body["animes"].([]any)
	require.Len(t, animes, 1)
	anime := animes[0].(map[string]any)
	assert.Equal(t, float64(1), anime["animeId"])
	assert.Equal(t, "Fate：Zero", anime["animeTitle"])
	assert.Equal(t, float64(0), anime["rating"])
}

func TestMatch_ReturnsIsMatchedFalseWhenNothingFound(t *testing.T) {
	handler := newHandler(
		&fakeWorkRepo{metadata: map[int64]*work.Metadata{}},
		&fakeSourceRepo{},
		&fakeEpisodeRepo{},
	)

	req := httptest.NewRequest(http.MethodGet, "/match?title=Nonexistent", nil)
	rec := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Mount("/", handler.Routes())
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["isMatched"])
	assert.Empty(t, body["matches"])
}

func TestComment_ReturnsPackedComments(t *testing.T) {
	handler := newHandler(
		&fakeWorkRepo{},
		&fakeSourceRepo{},
		&fakeEpisodeRepo{
			byID: map[int64]*episode.Episode{100: {ID: 100, SourceID: 10, EpisodeIndex: 1}},
			comments: map[int64][]episode.Comment{
				100: {{ID: 1, EpisodeID: 100, CID: "c1", P: "10.00,1,16777215", M: "hello"}},
			},
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/comment/100", nil)
	rec := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Mount("/", handler.Routes())
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
	comments := body["comments"].([]any)
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]any)
	assert.Equal(t, float64(1), comment["cid"])
	assert.Equal(t, "hello", comment["m"])
}

func TestComment_404sWhenEpisodeAbsent(t *testing.T) {
	handler := newHandler(&fakeWorkRepo{}, &fakeSourceRepo{}, &fakeEpisodeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/comment/999", nil)
	rec := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Mount("/", handler.Routes())
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
