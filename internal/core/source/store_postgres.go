// Copyright (c) 2026 Danmu. All rights reserved.

package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed source store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanSource(row pgx.Row) (*Source, error) {
	s := &Source{}
	err := row.Scan(&s.ID, &s.WorkID, &s.ProviderName, &s.MediaID, &s.IsFavorited,
		&s.IncrementalRefreshEnabled, &s.IncrementalRefreshFailures, &s.CreatedAt)
	return s, err
}

var selectColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
	schema.Source.ID, schema.Source.WorkID, schema.Source.ProviderName, schema.Source.MediaID,
	schema.Source.IsFavorited, schema.Source.IncrementalRefreshEnabled, schema.Source.IncrementalRefreshFailures,
	schema.Source.CreatedAt,
)

func (r *postgresRepository) ListByWork(ctx context.Context, workID int64) ([]*Source, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC",
		selectColumns, schema.Source.Table, schema.Source.WorkID, schema.Source.ID)

	rows, err := r.pool.Query(ctx, query, workID)
	if err != nil {
		return nil, dberr.Wrap(err, "list sources")
	}
	defer rows.Close()

	var out []*Source
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan source")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *postgresRepository) ListEnabledForIncrementalRefresh(ctx context.Context) ([]*Source, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = true ORDER BY %s ASC",
		selectColumns, schema.Source.Table, schema.Source.IncrementalRefreshEnabled, schema.Source.ID)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list incremental-refresh-enabled sources")
	}
	defer rows.Close()

	var out []*Source
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan source")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*Source, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", selectColumns, schema.Source.Table, schema.Source.ID)
	s, err := scanSource(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find source")
	}
	return s, nil
}

func (r *postgresRepository) FindOrCreate(ctx context.Context, workID int64, providerName, mediaID string) (*Source, error) {
	// Upsert and full projection in one round trip via a CTE, since
	// RETURNING on the insert alone cannot express the join-free select
	// list built from schema column names.
	query := fmt.Sprintf(`
		WITH upsert AS (
			INSERT INTO %s (%s, %s, %s)
			VALUES ($1, $2, $3)
			ON CONFLICT (%s, %s, %s) DO UPDATE SET %s = EXCLUDED.%s
			RETURNING %s
		)
		SELECT %s FROM upsert
	`,
		schema.Source.Table, schema.Source.WorkID, schema.Source.ProviderName, schema.Source.MediaID,
		schema.Source.WorkID, schema.Source.ProviderName, schema.Source.MediaID,
		schema.Source.WorkID, schema.Source.WorkID,
		selectColumns,
		selectColumns,
	)

	s, err := scanSource(r.pool.QueryRow(ctx, query, workID, providerName, mediaID))
	if err != nil {
		return nil, dberr.Wrap(err, "find-or-create source")
	}
	return s, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Source.Table, schema.Source.ID), id)
	if err != nil {
		return dberr.Wrap(err, "delete source")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Source")
	}
	return nil
}

func (r *postgresRepository) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin favorite toggle")
	}
	defer tx.Rollback(ctx)

	var workID int64
	err = tx.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", schema.Source.WorkID, schema.Source.Table, schema.Source.ID), id).Scan(&workID)
	if err != nil {
		return dberr.Wrap(err, "locate source for favorite toggle")
	}

	if favorite {
		_, err = tx.Exec(ctx, fmt.Sprintf("UPDATE %s SET %s = false WHERE %s = $1 AND %s != $2",
			schema.Source.Table, schema.Source.IsFavorited, schema.Source.WorkID, schema.Source.ID), workID, id)
		if err != nil {
			return dberr.Wrap(err, "clear sibling favorites")
		}
	}

	_, err = tx.Exec(ctx, fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.Source.Table, schema.Source.IsFavorited, schema.Source.ID), favorite, id)
	if err != nil {
		return dberr.Wrap(err, "set favorite")
	}

	return dberr.Wrap(tx.Commit(ctx), "commit favorite toggle")
}

func (r *postgresRepository) SetIncrementalRefreshEnabled(ctx context.Context, id int64, enabled bool) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.Source.Table, schema.Source.IncrementalRefreshEnabled, schema.Source.ID), enabled, id)
	return dberr.Wrap(err, "set incremental refresh enabled")
}

func (r *postgresRepository) IncrementFailures(ctx context.Context, id int64) (int, error) {
	query := fmt.Sprintf("UPDATE %s SET %s = %s + 1 WHERE %s = $1 RETURNING %s",
		schema.Source.Table, schema.Source.IncrementalRefreshFailures, schema.Source.IncrementalRefreshFailures,
		schema.Source.ID, schema.Source.IncrementalRefreshFailures)

	var n int
	err := r.pool.QueryRow(ctx, query, id).Scan(&n)
	if err != nil {
		return 0, dberr.Wrap(err, "increment failures")
	}
	return n, nil
}

func (r *postgresRepository) ResetFailures(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf("UPDATE %s SET %s = 0 WHERE %s = $1",
		schema.Source.Table, schema.Source.IncrementalRefreshFailures, schema.Source.ID), id)
	return dberr.Wrap(err, "reset failures")
}

// Reassociate moves every Source of fromWorkID to toWorkID. A move that
// would collide with an existing (toWorkID, provider, media_id) row
// deletes the source-side row instead (cascading to Episodes/Comments),
// per the reassociate-sources algorithm.
func (r *postgresRepository) Reassociate(ctx context.Context, fromWorkID, toWorkID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin reassociate")
	}
	defer tx.Rollback(ctx)

	moveQuery := fmt.Sprintf(`
		UPDATE %s SET %s = $1
		WHERE %s = $2
		  AND NOT EXISTS (
		      SELECT 1 FROM %s existing
		      WHERE existing.%s = $1
		        AND existing.%s = %s.%s
		        AND existing.%s = %s.%s
		  )
	`,
		schema.Source.Table, schema.Source.WorkID,
		schema.Source.WorkID,
		schema.Source.Table,
		schema.Source.WorkID, schema.Source.ProviderName, schema.Source.Table, schema.Source.ProviderName,
		schema.Source.MediaID, schema.Source.Table, schema.Source.MediaID,
	)
	if _, err := tx.Exec(ctx, moveQuery, toWorkID, fromWorkID); err != nil {
		return dberr.Wrap(err, "move sources")
	}

	// Colliding rows remain under fromWorkID; delete them explicitly
	// (cascades to Episodes/Comments).
	deleteCollidingQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Source.Table, schema.Source.WorkID)
	if _, err := tx.Exec(ctx, deleteCollidingQuery, fromWorkID); err != nil {
		return dberr.Wrap(err, "delete colliding sources")
	}

	deleteOriginQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Work.Table, schema.Work.ID)
	if _, err := tx.Exec(ctx, deleteOriginQuery, fromWorkID); err != nil {
		return dberr.Wrap(err, "delete now-empty origin work")
	}

	return dberr.Wrap(tx.Commit(ctx), "commit reassociate")
}
