// Copyright (c) 2026 Danmu. All rights reserved.

package work

import "context"

// # Work Data Access

// Repository defines the data access contract for the library catalogue.
type Repository interface {
	/*
		List returns a filtered, paginated slice of works and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (title query, type, season)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Work: Slice of matching catalogue entries
		  - int: Total count of records matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Work, int, error)

	// FindByID returns the work with the given id, or apperr.NotFound.
	FindByID(context context.Context, id int64) (*Work, error)

	/*
		FindOrCreate locates a Work by its natural key (title, season),
		creating one if absent.

		When the row already exists and image fields are unset, an incoming
		non-empty imageURL/localImagePath updates them; otherwise the
		existing row is left untouched (see component import algorithm step
		5a). Pass empty strings to skip the image update entirely.

		Returns the hydrated Work (existing or newly created).
	*/
	FindOrCreate(context context.Context, title string, season int, typ Type, imageURL, localImagePath string) (*Work, error)

	// Delete removes a Work and, via cascade, its Metadata/Aliases/Sources.
	Delete(context context.Context, id int64) error

	// GetMetadata returns the Metadata row for a Work, or a zero-value
	// Metadata with no error if none was ever written.
	GetMetadata(context context.Context, workID int64) (*Metadata, error)

	/*
		UpdateMetadataWriteIfEmpty applies the write-if-empty rule: each
		non-nil/non-empty field on incoming is written only into columns
		that are currently null/empty on the stored row.
	*/
	UpdateMetadataWriteIfEmpty(context context.Context, incoming Metadata) error

	// UpdateMetadataForce overwrites Metadata columns unconditionally,
	// used by explicit user edits in the admin API.
	UpdateMetadataForce(context context.Context, incoming Metadata) error

	// GetAliases returns the Aliases row for a Work, or a zero-value
	// Aliases with no error if none was ever written.
	GetAliases(context context.Context, workID int64) (*Aliases, error)

	// UpdateAliasesWriteIfEmpty applies the same write-if-empty rule as
	// UpdateMetadataWriteIfEmpty, scoped to the Aliases columns.
	UpdateAliasesWriteIfEmpty(context context.Context, incoming Aliases) error

	// UpdateAliasesForce overwrites Aliases columns unconditionally.
	UpdateAliasesForce(context context.Context, incoming Aliases) error

	// SearchFullText runs a websearch_to_tsquery full-text search over
	// title, folding accents via unaccent — the first matching strategy
	// of internal/search's 3-strategy matcher.
	SearchFullText(context context.Context, keyword string) ([]*Work, error)

	// SearchLike is the permissive fallback: a substring match against
	// title and every alias column, with colons/spaces folded out of
	// both the keyword and the stored value.
	SearchLike(context context.Context, keyword string) ([]*Work, error)

	// ListTMDBLinked returns every Work whose Metadata.tmdb_id is set,
	// consumed by the scheduler's TMDB mapping-refresh job.
	ListTMDBLinked(context context.Context) ([]*Work, error)
}
