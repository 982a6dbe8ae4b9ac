// Copyright (c) 2026 Danmu. All rights reserved.

package episode

import "context"

// ImportEpisode is a single scraper-returned episode paired with its
// normalized comment stream, as produced by the import pipeline before
// the transactional write step.
type ImportEpisode struct {
	EpisodeIndex      int
	Title             string
	ProviderEpisodeID string
	SourceURL         string
	Comments          []Comment
}

// ImportResult summarizes one Source's worth of transactional writes.
type ImportResult struct {
	EpisodesWritten int
	CommentsWritten int
}

// # Episode Data Access

// Repository defines the data access contract for Episodes and Comments.
type Repository interface {
	// ListBySource returns every Episode of a Source ordered by
	// episode_index ascending.
	ListBySource(context context.Context, sourceID int64) ([]*Episode, error)

	// FindByID returns a single Episode, or apperr.NotFound.
	FindByID(context context.Context, id int64) (*Episode, error)

	// FindByProviderEpisodeID looks up the Episode with the given
	// (source_id, provider_episode_id) pair — used by single-episode
	// refresh, which only has the opaque provider id to key off of.
	FindByProviderEpisodeID(context context.Context, sourceID int64, providerEpisodeID string) (*Episode, error)

	/*
		ImportEpisodes writes a full batch of scraper-returned episodes and
		their comments inside a single transaction:

		  - sourceOrder is the 1-based rank of sourceID among its Work's
		    Sources, used to compute each deterministic episode id.
		  - Each episode is inserted if its natural key (source_id,
		    episode_index) is absent; existing rows are left as-is.
		  - Comments are bulk-inserted with "ignore duplicates on
		    (episode_id, cid)".
		  - comment_count is incremented by the number of newly inserted
		    comment rows, never by the size of the input batch.

		Returns the total episodes/comments actually written (i.e. newly
		inserted), per success sentinel "imported N comments".
	*/
	ImportEpisodes(context context.Context, workID, sourceID int64, sourceOrder int, episodes []ImportEpisode) (ImportResult, error)

	/*
		ImportEpisodeComments inserts only the given comments against an
		existing Episode — used by single-episode refresh, which computes
		new_cids = upstream_cids \ existing_cids itself and passes only the
		delta. Bumps fetched_at.
	*/
	ImportEpisodeComments(context context.Context, episodeID int64, comments []Comment) (int, error)

	// ExistingCIDs returns the set of cid values already stored for an
	// Episode, used to compute the upstream delta for single-episode
	// refresh.
	ExistingCIDs(context context.Context, episodeID int64) (map[string]bool, error)

	// ListComments returns every Comment for an Episode.
	ListComments(context context.Context, episodeID int64) ([]Comment, error)

	// ClearEpisodes deletes every Episode (and, via cascade, Comment) of a
	// Source — used by full-refresh before re-running the import.
	ClearEpisodes(context context.Context, sourceID int64) error

	/*
		Reorder updates episode_index for episodes whose position in the
		given already-sorted slice differs from its 1-based index, within a
		single transaction.
	*/
	Reorder(context context.Context, sourceID int64, orderedEpisodeIDs []int64) error
}
