// Copyright (c) 2026 Danmu. All rights reserved.

package work_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/core/work"
)

// fakeRepository is an in-memory stand-in for [work.Repository] used to
// exercise the service layer without a database.
type fakeRepository struct {
	byKey    map[string]*work.Work
	metadata map[int64]*work.Metadata
	aliases  map[int64]*work.Aliases
	nextID   int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byKey:    make(map[string]*work.Work),
		metadata: make(map[int64]*work.Metadata),
		aliases:  make(map[int64]*work.Aliases),
	}
}

func key(title string, season int) string {
	return fmt.Sprintf("%s\x00%d", title, season)
}

func (f *fakeRepository) List(context.Context, work.Filter, int, int) ([]*work.Work, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int64) (*work.Work, error) {
	for _, w := range f.byKey {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, assertNotFound{}
}

type assertNotFound struct{}

func (assertNotFound) Error() string { return "not found" }

func (f *fakeRepository) FindOrCreate(_ context.Context, title string, season int, typ work.Type, imageURL, localImagePath string) (*work.Work, error) {
	k := key(title, season)
	if existing, ok := f.byKey[k]; ok {
		if existing.ImageURL == "" && imageURL != "" {
			existing.ImageURL = imageURL
		}
		if existing.LocalImagePath == "" && localImagePath != "" {
			existing.LocalImagePath = localImagePath
		}
		return existing, nil
	}
	f.nextID++
	w := &work.Work{ID: f.nextID, Title: title, Season: season, Type: typ, ImageURL: imageURL, LocalImagePath: localImagePath}
	f.byKey[k] = w
	return w, nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) error {
	for k, w := range f.byKey {
		if w.ID == id {
			delete(f.byKey, k)
			return nil
		}
	}
	return assertNotFound{}
}

func (f *fakeRepository) GetMetadata(_ context.Context, workID int64) (*work.Metadata, error) {
	if m, ok := f.metadata[workID]; ok {
		return m, nil
	}
	return &work.Metadata{WorkID: workID}, nil
}

func (f *fakeRepository) UpdateMetadataWriteIfEmpty(_ context.Context, incoming work.Metadata) error {
	existing, ok := f.metadata[incoming.WorkID]
	if !ok {
		existing = &work.Metadata{WorkID: incoming.WorkID}
		f.metadata[incoming.WorkID] = existing
	}
	if existing.TMDBID == nil {
		existing.TMDBID = incoming.TMDBID
	}
	if existing.IMDBID == "" {
		existing.IMDBID = incoming.IMDBID
	}
	return nil
}

func (f *fakeRepository) UpdateMetadataForce(_ context.Context, incoming work.Metadata) error {
	m := incoming
	f.metadata[incoming.WorkID] = &m
	return nil
}

func (f *fakeRepository) GetAliases(_ context.Context, workID int64) (*work.Aliases, error) {
	if a, ok := f.aliases[workID]; ok {
		return a, nil
	}
	return &work.Aliases{WorkID: workID}, nil
}

func (f *fakeRepository) UpdateAliasesWriteIfEmpty(_ context.Context, incoming work.Aliases) error {
	f.aliases[incoming.WorkID] = &incoming
	return nil
}

func (f *fakeRepository) UpdateAliasesForce(_ context.Context, incoming work.Aliases) error {
	a := incoming
	f.aliases[incoming.WorkID] = &a
	return nil
}

func (f *fakeRepository) SearchFullText(context.Context, string) ([]*work.Work, error) {
	return nil, nil
}

func (f *fakeRepository) SearchLike(context.Context, string) ([]*work.Work, error) {
	return nil, nil
}

func (f *fakeRepository) ListTMDBLinked(context.Context) ([]*work.Work, error) {
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeTitle_FoldsColonToFullwidth(t *testing.T) {
	assert.Equal(t, "Fate：Zero", work.NormalizeTitle("Fate:Zero"))
}

func TestFindOrCreateForImport_RejectsInvalidType(t *testing.T) {
	svc := work.NewService(newFakeRepository(), discardLogger())

	_, err := svc.FindOrCreateForImport(context.Background(), "Foo", 1, work.Type("bogus"), "", "")
	assert.Error(t, err)
}

func TestFindOrCreateForImport_ConvergesOnSameNaturalKey(t *testing.T) {
	svc := work.NewService(newFakeRepository(), discardLogger())
	ctx := context.Background()

	first, err := svc.FindOrCreateForImport(ctx, "Fate:Zero", 1, work.TypeTVSeries, "", "")
	require.NoError(t, err)

	second, err := svc.FindOrCreateForImport(ctx, "Fate:Zero", 1, work.TypeTVSeries, "http://img", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "http://img", second.ImageURL)
}

func TestApplyDiscoveredMetadata_WriteIfEmpty(t *testing.T) {
	repo := newFakeRepository()
	svc := work.NewService(repo, discardLogger())
	ctx := context.Background()

	tmdb1 := int64(100)
	require.NoError(t, svc.ApplyDiscoveredMetadata(ctx, work.Metadata{WorkID: 1, TMDBID: &tmdb1}))

	tmdb2 := int64(200)
	require.NoError(t, svc.ApplyDiscoveredMetadata(ctx, work.Metadata{WorkID: 1, TMDBID: &tmdb2}))

	m, err := svc.GetMetadata(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m.TMDBID)
	assert.Equal(t, tmdb1, *m.TMDBID)
}
