// Copyright (c) 2026 Danmu. All rights reserved.

package scheduler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/core/tmdbmap"
	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/metadata/providers"
	"github.com/sorahq/danmu/internal/scheduler"
)

// --- work fakes ---

type fakeWorkRepo struct {
	linked   []*work.Work
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
func (f *fakeWorkRepo) SearchFullText(context.Context, string) ([]*work.Work, error) { return nil, nil }
func (f *fakeWorkRepo) SearchLike(context.Context, string) ([]*work.Work, error)     { return nil, nil }
func (f *fakeWorkRepo) ListTMDBLinked(context.Context) ([]*work.Work, error)         { return f.linked, nil }

// --- tmdbmap fakes ---

type fakeTMDBMapRepo struct {
	refreshedFor map[int64]string
}

func (f *fakeTMDBMapRepo) Refresh(_ context.Context, tmdbTVID int64, groupID string, _ []tmdbmap.Mapping) error {
	if f.refreshedFor == nil {
		f.refreshedFor = map[int64]string{}
	}
	f.refreshedFor[tmdbTVID] = groupID
	return nil
}
func (f *fakeTMDBMapRepo) FindByCustom(context.Context, int64, string, int, int) (*tmdbmap.Mapping, error) {
	return nil, nil
}
func (f *fakeTMDBMapRepo) FindByAbsolute(context.Context, int64, string, int) (*tmdbmap.Mapping, error) {
	return nil, nil
}

func TestTMDBMappingRefreshJob_SkipsWorksWithoutGroupID(t *testing.T) {
	tmdb1 := int64(100)
	workRepo := &fakeWorkRepo{
		linked: []*work.Work{
			{ID: 1, Title: "Has Group"},
			{ID: 2, Title: "No Group"},
		},
		metadata: map[int64]*work.Metadata{
			1: {WorkID: 1, TMDBID: &tmdb1, TMDBEpisodeGroupID: "grp-1"},
			2: {WorkID: 2},
		},
	}
	tmdbRepo := &fakeTMDBMapRepo{}

	job := scheduler.NewTMDBMappingRefreshJob(
		work.NewService(workRepo, discardLogger()),
		tmdbmap.NewService(tmdbRepo, discardLogger()),
		providers.NewTMDB(http.DefaultClient),
		discardLogger(),
	)

	err := job.Run(context.Background(), func(context.Context, int, string) error { return nil })
	require.Error(t, err) // task.Succeeded sentinel

	// FetchEpisodeGroups is a not-implemented stub, so work 1 is skipped
	// too (logged, not failed) and nothing is ever refreshed.
	assert.Empty(t, tmdbRepo.refreshedFor)
}
