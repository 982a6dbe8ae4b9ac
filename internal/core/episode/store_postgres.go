// Copyright (c) 2026 Danmu. All rights reserved.

package episode

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
	"github.com/sorahq/danmu/pkg/episodeid"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed episode store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var episodeColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
	schema.Episode.ID, schema.Episode.SourceID, schema.Episode.EpisodeIndex, schema.Episode.Title,
	schema.Episode.ProviderEpisodeID, schema.Episode.SourceURL, schema.Episode.FetchedAt,
)

func scanEpisode(row pgx.Row) (*Episode, error) {
	e := &Episode{}
	err := row.Scan(&e.ID, &e.SourceID, &e.EpisodeIndex, &e.Title, &e.ProviderEpisodeID, &e.SourceURL, &e.FetchedAt, &e.CommentCount)
	return e, err
}

func (r *postgresRepository) ListBySource(ctx context.Context, sourceID int64) ([]*Episode, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC",
		schema.Episode.ID, schema.Episode.SourceID, schema.Episode.EpisodeIndex, schema.Episode.Title,
		schema.Episode.ProviderEpisodeID, schema.Episode.SourceURL, schema.Episode.FetchedAt, schema.Episode.CommentCount,
		schema.Episode.Table, schema.Episode.SourceID, schema.Episode.EpisodeIndex,
	)

	rows, err := r.pool.Query(ctx, query, sourceID)
	if err != nil {
		return nil, dberr.Wrap(err, "list episodes")
	}
	defer rows.Close()

	var out []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan episode")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*Episode, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1",
		schema.Episode.ID, schema.Episode.SourceID, schema.Episode.EpisodeIndex, schema.Episode.Title,
		schema.Episode.ProviderEpisodeID, schema.Episode.SourceURL, schema.Episode.FetchedAt, schema.Episode.CommentCount,
		schema.Episode.Table, schema.Episode.ID,
	)
	e, err := scanEpisode(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find episode")
	}
	return e, nil
}

func (r *postgresRepository) FindByProviderEpisodeID(ctx context.Context, sourceID int64, providerEpisodeID string) (*Episode, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2",
		schema.Episode.ID, schema.Episode.SourceID, schema.Episode.EpisodeIndex, schema.Episode.Title,
		schema.Episode.ProviderEpisodeID, schema.Episode.SourceURL, schema.Episode.FetchedAt, schema.Episode.CommentCount,
		schema.Episode.Table, schema.Episode.SourceID, schema.Episode.ProviderEpisodeID,
	)
	e, err := scanEpisode(r.pool.QueryRow(ctx, query, sourceID, providerEpisodeID))
	if err != nil {
		return nil, dberr.Wrap(err, "find episode by provider id")
	}
	return e, nil
}

/*
ImportEpisodes writes episodes and comments transactionally.

Episode ids never round-trip through RETURNING: they are computed
up front via pkg/episodeid from (workID, sourceOrder, episode_index),
so the comment batch below can reference episode_id without waiting on
the episode insert's result.
*/
func (r *postgresRepository) ImportEpisodes(ctx context.Context, workID, sourceID int64, sourceOrder int, episodes []ImportEpisode) (ImportResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ImportResult{}, dberr.Wrap(err, "begin import")
	}
	defer tx.Rollback(ctx)

	episodeInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		schema.Episode.Table, schema.Episode.ID, schema.Episode.SourceID, schema.Episode.EpisodeIndex,
		schema.Episode.Title, schema.Episode.ProviderEpisodeID, schema.Episode.SourceURL,
		schema.Episode.SourceID, schema.Episode.EpisodeIndex,
	)

	ids := make([]int64, len(episodes))
	episodeBatch := &pgx.Batch{}
	for i, ep := range episodes {
		id, err := episodeid.Compute(workID, sourceOrder, ep.EpisodeIndex)
		if err != nil {
			return ImportResult{}, apperr.FatalInvariant(err)
		}
		ids[i] = id
		episodeBatch.Queue(episodeInsert, id, sourceID, ep.EpisodeIndex, ep.Title, ep.ProviderEpisodeID, ep.SourceURL)
	}

	episodeResults := tx.SendBatch(ctx, episodeBatch)
	episodesWritten := 0
	for range episodes {
		tag, err := episodeResults.Exec()
		if err != nil {
			episodeResults.Close()
			return ImportResult{}, dberr.Wrap(err, "insert episode")
		}
		episodesWritten += int(tag.RowsAffected())
	}
	if err := episodeResults.Close(); err != nil {
		return ImportResult{}, dberr.Wrap(err, "close episode batch")
	}

	commentInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		schema.Comment.Table, schema.Comment.EpisodeID, schema.Comment.CID, schema.Comment.P, schema.Comment.M, schema.Comment.T,
		schema.Comment.EpisodeID, schema.Comment.CID,
	)

	commentBatch := &pgx.Batch{}
	commentsPerEpisode := make([]int, len(episodes))
	for i, ep := range episodes {
		for _, c := range ep.Comments {
			commentBatch.Queue(commentInsert, ids[i], c.CID, c.P, c.M, c.T)
		}
	}

	commentResults := tx.SendBatch(ctx, commentBatch)
	totalCommentsWritten := 0
	for i, ep := range episodes {
		for range ep.Comments {
			tag, err := commentResults.Exec()
			if err != nil {
				commentResults.Close()
				return ImportResult{}, dberr.Wrap(err, "insert comment")
			}
			n := int(tag.RowsAffected())
			commentsPerEpisode[i] += n
			totalCommentsWritten += n
		}
	}
	if err := commentResults.Close(); err != nil {
		return ImportResult{}, dberr.Wrap(err, "close comment batch")
	}

	countUpdate := fmt.Sprintf("UPDATE %s SET %s = %s + $1 WHERE %s = $2",
		schema.Episode.Table, schema.Episode.CommentCount, schema.Episode.CommentCount, schema.Episode.ID)
	for i := range episodes {
		if commentsPerEpisode[i] == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, countUpdate, commentsPerEpisode[i], ids[i]); err != nil {
			return ImportResult{}, dberr.Wrap(err, "update comment count")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportResult{}, dberr.Wrap(err, "commit import")
	}

	return ImportResult{EpisodesWritten: episodesWritten, CommentsWritten: totalCommentsWritten}, nil
}

func (r *postgresRepository) ImportEpisodeComments(ctx context.Context, episodeID int64, comments []Comment) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, dberr.Wrap(err, "begin comment import")
	}
	defer tx.Rollback(ctx)

	commentInsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		schema.Comment.Table, schema.Comment.EpisodeID, schema.Comment.CID, schema.Comment.P, schema.Comment.M, schema.Comment.T,
		schema.Comment.EpisodeID, schema.Comment.CID,
	)

	batch := &pgx.Batch{}
	for _, c := range comments {
		batch.Queue(commentInsert, episodeID, c.CID, c.P, c.M, c.T)
	}

	results := tx.SendBatch(ctx, batch)
	written := 0
	for range comments {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, dberr.Wrap(err, "insert comment")
		}
		written += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, dberr.Wrap(err, "close comment batch")
	}

	if written > 0 {
		countUpdate := fmt.Sprintf("UPDATE %s SET %s = %s + $1, %s = now() WHERE %s = $2",
			schema.Episode.Table, schema.Episode.CommentCount, schema.Episode.CommentCount, schema.Episode.FetchedAt, schema.Episode.ID)
		if _, err := tx.Exec(ctx, countUpdate, written, episodeID); err != nil {
			return 0, dberr.Wrap(err, "update comment count")
		}
	} else {
		touchFetchedAt := fmt.Sprintf("UPDATE %s SET %s = now() WHERE %s = $1", schema.Episode.Table, schema.Episode.FetchedAt, schema.Episode.ID)
		if _, err := tx.Exec(ctx, touchFetchedAt, episodeID); err != nil {
			return 0, dberr.Wrap(err, "touch fetched_at")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, dberr.Wrap(err, "commit comment import")
	}
	return written, nil
}

func (r *postgresRepository) ExistingCIDs(ctx context.Context, episodeID int64) (map[string]bool, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", schema.Comment.CID, schema.Comment.Table, schema.Comment.EpisodeID)
	rows, err := r.pool.Query(ctx, query, episodeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list existing cids")
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			return nil, dberr.Wrap(err, "scan cid")
		}
		out[cid] = true
	}
	return out, rows.Err()
}

func (r *postgresRepository) ListComments(ctx context.Context, episodeID int64) ([]Comment, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC",
		schema.Comment.ID, schema.Comment.EpisodeID, schema.Comment.CID, schema.Comment.P, schema.Comment.M, schema.Comment.T,
		schema.Comment.Table, schema.Comment.EpisodeID, schema.Comment.T,
	)
	rows, err := r.pool.Query(ctx, query, episodeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list comments")
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.EpisodeID, &c.CID, &c.P, &c.M, &c.T); err != nil {
			return nil, dberr.Wrap(err, "scan comment")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *postgresRepository) ClearEpisodes(ctx context.Context, sourceID int64) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Episode.Table, schema.Episode.SourceID), sourceID)
	return dberr.Wrap(err, "clear episodes")
}

func (r *postgresRepository) Reorder(ctx context.Context, sourceID int64, orderedEpisodeIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin reorder")
	}
	defer tx.Rollback(ctx)

	updateQuery := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3 AND %s != $1",
		schema.Episode.Table, schema.Episode.EpisodeIndex, schema.Episode.ID, schema.Episode.SourceID, schema.Episode.EpisodeIndex)

	for i, id := range orderedEpisodeIDs {
		newIndex := i + 1
		if _, err := tx.Exec(ctx, updateQuery, newIndex, id, sourceID); err != nil {
			return dberr.Wrap(err, "reorder episode")
		}
	}

	return dberr.Wrap(tx.Commit(ctx), "commit reorder")
}
