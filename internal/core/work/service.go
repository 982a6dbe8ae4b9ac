// Copyright (c) 2026 Danmu. All rights reserved.

package work

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sorahq/danmu/internal/platform/apperr"
)

// # Service Layer

// Service orchestrates the business logic for the library catalogue.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// NormalizeTitle replaces the ASCII colon with its fullwidth equivalent,
// per the import algorithm's title-normalization step.
func NormalizeTitle(title string) string {
	return strings.ReplaceAll(title, ":", "：")
}

// List retrieves a paginated, filtered collection of library works.
func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Work, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// Get fetches a single work by id.
func (s *Service) Get(ctx context.Context, id int64) (*Work, error) {
	return s.repo.FindByID(ctx, id)
}

/*
FindOrCreateForImport locates or creates the Work targeted by an import
task, applying title normalization before the natural-key lookup.

Parameters:
  - context: context.Context
  - title: string (raw, pre-normalization)
  - season: int
  - typ: Type
  - imageURL, localImagePath: string (applied only if the row has none)

Returns the hydrated Work.
*/
func (s *Service) FindOrCreateForImport(ctx context.Context, title string, season int, typ Type, imageURL, localImagePath string) (*Work, error) {
	if !typ.IsValid() {
		return nil, apperr.ValidationError("type must be one of tv_series, movie, ova, other")
	}
	if season < 0 {
		return nil, apperr.ValidationError("season must be >= 0")
	}

	normalized := NormalizeTitle(title)
	return s.repo.FindOrCreate(ctx, normalized, season, typ, imageURL, localImagePath)
}

// Delete removes a Work and its owned Metadata/Aliases/Sources.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ApplyDiscoveredMetadata writes external ids discovered during an import
// using the write-if-empty rule (component §4.7 step 5b).
func (s *Service) ApplyDiscoveredMetadata(ctx context.Context, m Metadata) error {
	return s.repo.UpdateMetadataWriteIfEmpty(ctx, m)
}

// SetMetadata overwrites Metadata fields unconditionally — the explicit
// user-edit escape hatch referenced by the write-if-empty invariant.
func (s *Service) SetMetadata(ctx context.Context, m Metadata) error {
	return s.repo.UpdateMetadataForce(ctx, m)
}

// GetMetadata returns the Metadata row for a work.
func (s *Service) GetMetadata(ctx context.Context, workID int64) (*Metadata, error) {
	return s.repo.GetMetadata(ctx, workID)
}

// GetAliasSet returns the flattened non-empty alias strings for a work,
// consumed by the search pipeline's alias filter.
func (s *Service) GetAliasSet(ctx context.Context, workID int64) ([]string, error) {
	aliases, err := s.repo.GetAliases(ctx, workID)
	if err != nil {
		return nil, err
	}
	return aliases.AliasSet(), nil
}

// SetAliases overwrites Aliases fields unconditionally.
func (s *Service) SetAliases(ctx context.Context, a Aliases) error {
	return s.repo.UpdateAliasesForce(ctx, a)
}

// SearchFullText runs the first of internal/search's 3-strategy matcher.
func (s *Service) SearchFullText(ctx context.Context, keyword string) ([]*Work, error) {
	return s.repo.SearchFullText(ctx, keyword)
}

// SearchLike runs the matcher's permissive fallback strategy.
func (s *Service) SearchLike(ctx context.Context, keyword string) ([]*Work, error) {
	return s.repo.SearchLike(ctx, keyword)
}

// ListTMDBLinked returns every Work with a known tmdb_id, consumed by the
// scheduler's TMDB mapping-refresh job.
func (s *Service) ListTMDBLinked(ctx context.Context) ([]*Work, error) {
	return s.repo.ListTMDBLinked(ctx)
}
