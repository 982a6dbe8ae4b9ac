// Copyright (c) 2026 Danmu. All rights reserved.

package tmdbmap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed tmdbmap store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Refresh(ctx context.Context, tmdbTVID int64, groupID string, mappings []Mapping) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin mapping refresh")
	}
	defer tx.Rollback(ctx)

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.TMDBEpisodeMapping.Table, schema.TMDBEpisodeMapping.TMDBTVID, schema.TMDBEpisodeMapping.TMDBEpisodeGroupID)
	if _, err := tx.Exec(ctx, deleteQuery, tmdbTVID, groupID); err != nil {
		return dberr.Wrap(err, "clear mapping group")
	}

	if len(mappings) > 0 {
		insertQuery := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			schema.TMDBEpisodeMapping.Table,
			schema.TMDBEpisodeMapping.TMDBTVID, schema.TMDBEpisodeMapping.TMDBEpisodeGroupID, schema.TMDBEpisodeMapping.TMDBEpisodeID,
			schema.TMDBEpisodeMapping.TMDBSeasonNumber, schema.TMDBEpisodeMapping.TMDBEpisodeNumber,
			schema.TMDBEpisodeMapping.CustomSeasonNumber, schema.TMDBEpisodeMapping.CustomEpisodeNumber,
			schema.TMDBEpisodeMapping.AbsoluteEpisodeNumber,
		)

		batch := &pgx.Batch{}
		for _, m := range mappings {
			batch.Queue(insertQuery, m.TMDBTVID, m.TMDBEpisodeGroupID, m.TMDBEpisodeID,
				m.TMDBSeasonNumber, m.TMDBEpisodeNumber, m.CustomSeasonNumber, m.CustomEpisodeNumber, m.AbsoluteEpisodeNumber)
		}

		results := tx.SendBatch(ctx, batch)
		for range mappings {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return dberr.Wrap(err, "insert mapping")
			}
		}
		if err := results.Close(); err != nil {
			return dberr.Wrap(err, "close mapping batch")
		}
	}

	return dberr.Wrap(tx.Commit(ctx), "commit mapping refresh")
}

var selectColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
	schema.TMDBEpisodeMapping.TMDBTVID, schema.TMDBEpisodeMapping.TMDBEpisodeGroupID, schema.TMDBEpisodeMapping.TMDBEpisodeID,
	schema.TMDBEpisodeMapping.TMDBSeasonNumber, schema.TMDBEpisodeMapping.TMDBEpisodeNumber,
	schema.TMDBEpisodeMapping.CustomSeasonNumber, schema.TMDBEpisodeMapping.CustomEpisodeNumber, schema.TMDBEpisodeMapping.AbsoluteEpisodeNumber,
)

func scanMapping(row pgx.Row) (*Mapping, error) {
	m := &Mapping{}
	err := row.Scan(&m.TMDBTVID, &m.TMDBEpisodeGroupID, &m.TMDBEpisodeID,
		&m.TMDBSeasonNumber, &m.TMDBEpisodeNumber, &m.CustomSeasonNumber, &m.CustomEpisodeNumber, &m.AbsoluteEpisodeNumber)
	return m, err
}

func (r *postgresRepository) FindByCustom(ctx context.Context, tmdbTVID int64, groupID string, customSeason, customEpisode int) (*Mapping, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3 AND %s = $4",
		selectColumns, schema.TMDBEpisodeMapping.Table,
		schema.TMDBEpisodeMapping.TMDBTVID, schema.TMDBEpisodeMapping.TMDBEpisodeGroupID,
		schema.TMDBEpisodeMapping.CustomSeasonNumber, schema.TMDBEpisodeMapping.CustomEpisodeNumber,
	)
	m, err := scanMapping(r.pool.QueryRow(ctx, query, tmdbTVID, groupID, customSeason, customEpisode))
	if err != nil {
		return nil, dberr.Wrap(err, "find mapping by custom")
	}
	return m, nil
}

func (r *postgresRepository) FindByAbsolute(ctx context.Context, tmdbTVID int64, groupID string, absoluteEpisode int) (*Mapping, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3",
		selectColumns, schema.TMDBEpisodeMapping.Table,
		schema.TMDBEpisodeMapping.TMDBTVID, schema.TMDBEpisodeMapping.TMDBEpisodeGroupID, schema.TMDBEpisodeMapping.AbsoluteEpisodeNumber,
	)
	m, err := scanMapping(r.pool.QueryRow(ctx, query, tmdbTVID, groupID, absoluteEpisode))
	if err != nil {
		return nil, dberr.Wrap(err, "find mapping by absolute")
	}
	return m, nil
}
