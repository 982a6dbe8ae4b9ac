// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package work provides the PostgreSQL implementation of [Repository].

Find-or-create on the (title, season) natural key is implemented as an
"INSERT ... ON CONFLICT DO UPDATE ... RETURNING" upsert rather than a
select-then-insert race: concurrent imports of the same title must
converge on one Work row, never two.
*/
package work

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed work store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Work, int, error) {
	var b strings.Builder
	var args []any
	argID := 1

	fmt.Fprintf(&b, `
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE true
	`,
		schema.Work.ID, schema.Work.Title, schema.Work.Type, schema.Work.Season,
		schema.Work.ImageURL, schema.Work.LocalImagePath, schema.Work.EpisodeCount, schema.Work.CreatedAt,
		schema.Work.Table,
	)

	if filter.Query != "" {
		fmt.Fprintf(&b, " AND to_tsvector('simple', unaccent(%s)) @@ websearch_to_tsquery('simple', unaccent($%d))", schema.Work.Title, argID)
		args = append(args, filter.Query)
		argID++
	}
	if filter.Type != "" {
		fmt.Fprintf(&b, " AND %s = $%d", schema.Work.Type, argID)
		args = append(args, filter.Type)
		argID++
	}
	if filter.Season != nil {
		fmt.Fprintf(&b, " AND %s = $%d", schema.Work.Season, argID)
		args = append(args, *filter.Season)
		argID++
	}

	fmt.Fprintf(&b, " ORDER BY %s DESC LIMIT $%d OFFSET $%d", schema.Work.CreatedAt, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list works")
	}
	defer rows.Close()

	var total int
	var out []*Work
	for rows.Next() {
		w := &Work{}
		if err := rows.Scan(&w.ID, &w.Title, &w.Type, &w.Season, &w.ImageURL, &w.LocalImagePath, &w.EpisodeCount, &w.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan work")
		}
		out = append(out, w)
	}
	return out, total, rows.Err()
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*Work, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1
	`,
		schema.Work.ID, schema.Work.Title, schema.Work.Type, schema.Work.Season,
		schema.Work.ImageURL, schema.Work.LocalImagePath, schema.Work.EpisodeCount, schema.Work.CreatedAt,
		schema.Work.Table, schema.Work.ID,
	)

	w := &Work{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&w.ID, &w.Title, &w.Type, &w.Season, &w.ImageURL, &w.LocalImagePath, &w.EpisodeCount, &w.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find work")
	}
	return w, nil
}

// FindOrCreate upserts on (title, season). On conflict, image_url and
// local_image_path are only overwritten when the existing column is null
// and the caller supplied a non-empty value — the write-if-empty rule
// from the import algorithm.
func (r *postgresRepository) FindOrCreate(ctx context.Context, title string, season int, typ Type, imageURL, localImagePath string) (*Work, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = COALESCE(%s.%s, EXCLUDED.%s),
			%s = COALESCE(%s.%s, EXCLUDED.%s)
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s
	`,
		schema.Work.Table, schema.Work.Title, schema.Work.Type, schema.Work.Season, schema.Work.ImageURL, schema.Work.LocalImagePath,
		schema.Work.Title, schema.Work.Season,
		schema.Work.ImageURL, schema.Work.Table, schema.Work.ImageURL, schema.Work.ImageURL,
		schema.Work.LocalImagePath, schema.Work.Table, schema.Work.LocalImagePath, schema.Work.LocalImagePath,
		schema.Work.ID, schema.Work.Title, schema.Work.Type, schema.Work.Season,
		schema.Work.ImageURL, schema.Work.LocalImagePath, schema.Work.EpisodeCount, schema.Work.CreatedAt,
	)

	w := &Work{}
	err := r.pool.QueryRow(ctx, query, title, typ, season, imageURL, localImagePath).
		Scan(&w.ID, &w.Title, &w.Type, &w.Season, &w.ImageURL, &w.LocalImagePath, &w.EpisodeCount, &w.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find-or-create work")
	}
	return w, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Work.Table, schema.Work.ID), id)
	if err != nil {
		return dberr.Wrap(err, "delete work")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Work")
	}
	return nil
}

func (r *postgresRepository) GetMetadata(ctx context.Context, workID int64) (*Metadata, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1
	`,
		schema.Metadata.WorkID, schema.Metadata.TMDBID, schema.Metadata.TMDBEpisodeGroupID,
		schema.Metadata.IMDBID, schema.Metadata.TVDBID, schema.Metadata.DoubanID, schema.Metadata.BangumiID,
		schema.Metadata.Table, schema.Metadata.WorkID,
	)

	m := &Metadata{}
	var groupID, imdb *string
	err := r.pool.QueryRow(ctx, query, workID).Scan(&m.WorkID, &m.TMDBID, &groupID, &imdb, &m.TVDBID, &m.DoubanID, &m.BangumiID)
	if err == pgx.ErrNoRows {
		return &Metadata{WorkID: workID}, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get metadata")
	}
	if groupID != nil {
		m.TMDBEpisodeGroupID = *groupID
	}
	if imdb != nil {
		m.IMDBID = *imdb
	}
	return m, nil
}

func (r *postgresRepository) UpdateMetadataWriteIfEmpty(ctx context.Context, incoming Metadata) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)
		ON CONFLICT (%s) DO UPDATE SET
			%s = COALESCE(%s.%s, EXCLUDED.%s),
			%s = COALESCE(%s.%s, EXCLUDED.%s),
			%s = COALESCE(%s.%s, EXCLUDED.%s),
			%s = COALESCE(%s.%s, EXCLUDED.%s),
			%s = COALESCE(%s.%s, EXCLUDED.%s),
			%s = COALESCE(%s.%s, EXCLUDED.%s)
	`,
		schema.Metadata.Table, schema.Metadata.WorkID, schema.Metadata.TMDBID, schema.Metadata.TMDBEpisodeGroupID,
		schema.Metadata.IMDBID, schema.Metadata.TVDBID, schema.Metadata.DoubanID, schema.Metadata.BangumiID,
		schema.Metadata.WorkID,
		schema.Metadata.TMDBID, schema.Metadata.Table, schema.Metadata.TMDBID, schema.Metadata.TMDBID,
		schema.Metadata.TMDBEpisodeGroupID, schema.Metadata.Table, schema.Metadata.TMDBEpisodeGroupID, schema.Metadata.TMDBEpisodeGroupID,
		schema.Metadata.IMDBID, schema.Metadata.Table, schema.Metadata.IMDBID, schema.Metadata.IMDBID,
		schema.Metadata.TVDBID, schema.Metadata.Table, schema.Metadata.TVDBID, schema.Metadata.TVDBID,
		schema.Metadata.DoubanID, schema.Metadata.Table, schema.Metadata.DoubanID, schema.Metadata.DoubanID,
		schema.Metadata.BangumiID, schema.Metadata.Table, schema.Metadata.BangumiID, schema.Metadata.BangumiID,
	)

	_, err := r.pool.Exec(ctx, query, incoming.WorkID, incoming.TMDBID, incoming.TMDBEpisodeGroupID,
		incoming.IMDBID, incoming.TVDBID, incoming.DoubanID, incoming.BangumiID)
	return dberr.Wrap(err, "write-if-empty metadata")
}

func (r *postgresRepository) UpdateMetadataForce(ctx context.Context, incoming Metadata) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
	`,
		schema.Metadata.Table, schema.Metadata.WorkID, schema.Metadata.TMDBID, schema.Metadata.TMDBEpisodeGroupID,
		schema.Metadata.IMDBID, schema.Metadata.TVDBID, schema.Metadata.DoubanID, schema.Metadata.BangumiID,
		schema.Metadata.WorkID,
		schema.Metadata.TMDBID, schema.Metadata.TMDBID,
		schema.Metadata.TMDBEpisodeGroupID, schema.Metadata.TMDBEpisodeGroupID,
		schema.Metadata.IMDBID, schema.Metadata.IMDBID,
		schema.Metadata.TVDBID, schema.Metadata.TVDBID,
		schema.Metadata.DoubanID, schema.Metadata.DoubanID,
		schema.Metadata.BangumiID, schema.Metadata.BangumiID,
	)

	_, err := r.pool.Exec(ctx, query, incoming.WorkID, incoming.TMDBID, incoming.TMDBEpisodeGroupID,
		incoming.IMDBID, incoming.TVDBID, incoming.DoubanID, incoming.BangumiID)
	return dberr.Wrap(err, "force-update metadata")
}

func (r *postgresRepository) GetAliases(ctx context.Context, workID int64) (*Aliases, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1
	`,
		schema.Aliases.WorkID, schema.Aliases.NameEn, schema.Aliases.NameJp, schema.Aliases.NameRomaji,
		schema.Aliases.AliasCN1, schema.Aliases.AliasCN2, schema.Aliases.AliasCN3,
		schema.Aliases.Table, schema.Aliases.WorkID,
	)

	a := &Aliases{}
	err := r.pool.QueryRow(ctx, query, workID).Scan(&a.WorkID, &a.NameEN, &a.NameJP, &a.NameRomaji, &a.AliasCN1, &a.AliasCN2, &a.AliasCN3)
	if err == pgx.ErrNoRows {
		return &Aliases{WorkID: workID}, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get aliases")
	}
	return a, nil
}

func (r *postgresRepository) UpdateAliasesWriteIfEmpty(ctx context.Context, incoming Aliases) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (%s) DO UPDATE SET
			%s = COALESCE(NULLIF(%s.%s, ''), EXCLUDED.%s),
			%s = COALESCE(NULLIF(%s.%s, ''), EXCLUDED.%s),
			%s = COALESCE(NULLIF(%s.%s, ''), EXCLUDED.%s),
			%s = COALESCE(NULLIF(%s.%s, ''), EXCLUDED.%s),
			%s = COALESCE(NULLIF(%s.%s, ''), EXCLUDED.%s),
			%s = COALESCE(NULLIF(%s.%s, ''), EXCLUDED.%s)
	`,
		schema.Aliases.Table, schema.Aliases.WorkID, schema.Aliases.NameEn, schema.Aliases.NameJp, schema.Aliases.NameRomaji,
		schema.Aliases.AliasCN1, schema.Aliases.AliasCN2, schema.Aliases.AliasCN3,
		schema.Aliases.WorkID,
		schema.Aliases.NameEn, schema.Aliases.Table, schema.Aliases.NameEn, schema.Aliases.NameEn,
		schema.Aliases.NameJp, schema.Aliases.Table, schema.Aliases.NameJp, schema.Aliases.NameJp,
		schema.Aliases.NameRomaji, schema.Aliases.Table, schema.Aliases.NameRomaji, schema.Aliases.NameRomaji,
		schema.Aliases.AliasCN1, schema.Aliases.Table, schema.Aliases.AliasCN1, schema.Aliases.AliasCN1,
		schema.Aliases.AliasCN2, schema.Aliases.Table, schema.Aliases.AliasCN2, schema.Aliases.AliasCN2,
		schema.Aliases.AliasCN3, schema.Aliases.Table, schema.Aliases.AliasCN3, schema.Aliases.AliasCN3,
	)

	_, err := r.pool.Exec(ctx, query, incoming.WorkID, incoming.NameEN, incoming.NameJP, incoming.NameRomaji,
		incoming.AliasCN1, incoming.AliasCN2, incoming.AliasCN3)
	return dberr.Wrap(err, "write-if-empty aliases")
}

func (r *postgresRepository) UpdateAliasesForce(ctx context.Context, incoming Aliases) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
	`,
		schema.Aliases.Table, schema.Aliases.WorkID, schema.Aliases.NameEn, schema.Aliases.NameJp, schema.Aliases.NameRomaji,
		schema.Aliases.AliasCN1, schema.Aliases.AliasCN2, schema.Aliases.AliasCN3,
		schema.Aliases.WorkID,
		schema.Aliases.NameEn, schema.Aliases.NameEn,
		schema.Aliases.NameJp, schema.Aliases.NameJp,
		schema.Aliases.NameRomaji, schema.Aliases.NameRomaji,
		schema.Aliases.AliasCN1, schema.Aliases.AliasCN1,
		schema.Aliases.AliasCN2, schema.Aliases.AliasCN2,
		schema.Aliases.AliasCN3, schema.Aliases.AliasCN3,
	)

	_, err := r.pool.Exec(ctx, query, incoming.WorkID, incoming.NameEN, incoming.NameJP, incoming.NameRomaji,
		incoming.AliasCN1, incoming.AliasCN2, incoming.AliasCN3)
	return dberr.Wrap(err, "force-update aliases")
}

var workColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
	schema.Work.ID, schema.Work.Title, schema.Work.Type, schema.Work.Season,
	schema.Work.ImageURL, schema.Work.LocalImagePath, schema.Work.EpisodeCount, schema.Work.CreatedAt,
)

func (r *postgresRepository) scanWorks(rows pgx.Rows) ([]*Work, error) {
	var out []*Work
	for rows.Next() {
		w := &Work{}
		if err := rows.Scan(&w.ID, &w.Title, &w.Type, &w.Season, &w.ImageURL, &w.LocalImagePath, &w.EpisodeCount, &w.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan work")
		}
		out = append(out, w)
	}
	return out, dberr.Wrap(rows.Err(), "scan works")
}

func (r *postgresRepository) SearchFullText(ctx context.Context, keyword string) ([]*Work, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE to_tsvector('simple', unaccent(%s)) @@ websearch_to_tsquery('simple', unaccent($1))
		ORDER BY %s DESC
	`, workColumns, schema.Work.Table, schema.Work.Title, schema.Work.CreatedAt)

	rows, err := r.pool.Query(ctx, query, keyword)
	if err != nil {
		return nil, dberr.Wrap(err, "full-text search works")
	}
	defer rows.Close()
	return r.scanWorks(rows)
}

// SearchLike matches keyword against title and every alias column with
// colons/spaces folded out of both sides, permissive substring matching
// in either direction.
func (r *postgresRepository) SearchLike(ctx context.Context, keyword string) ([]*Work, error) {
	folded := foldForLikeMatch(keyword)
	pattern := "%" + folded + "%"

	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM %s w
		LEFT JOIN %s al ON al.%s = w.%s
		WHERE
			replace(replace(w.%s, ':', ''), ' ', '') ILIKE $1
			OR $2 ILIKE '%%' || replace(replace(w.%s, ':', ''), ' ', '') || '%%'
			OR replace(replace(COALESCE(al.%s, ''), ':', ''), ' ', '') ILIKE $1
			OR replace(replace(COALESCE(al.%s, ''), ':', ''), ' ', '') ILIKE $1
			OR replace(replace(COALESCE(al.%s, ''), ':', ''), ' ', '') ILIKE $1
			OR replace(replace(COALESCE(al.%s, ''), ':', ''), ' ', '') ILIKE $1
			OR replace(replace(COALESCE(al.%s, ''), ':', ''), ' ', '') ILIKE $1
			OR replace(replace(COALESCE(al.%s, ''), ':', ''), ' ', '') ILIKE $1
		ORDER BY w.%s DESC
	`,
		prefixColumns("w", workColumnNames), schema.Work.Table,
		schema.Aliases.Table, schema.Aliases.WorkID, schema.Work.ID,
		schema.Work.Title,
		schema.Work.Title,
		schema.Aliases.NameEn, schema.Aliases.NameJp, schema.Aliases.NameRomaji,
		schema.Aliases.AliasCN1, schema.Aliases.AliasCN2, schema.Aliases.AliasCN3,
		schema.Work.CreatedAt,
	)

	rows, err := r.pool.Query(ctx, query, pattern, folded)
	if err != nil {
		return nil, dberr.Wrap(err, "like-fallback search works")
	}
	defer rows.Close()
	return r.scanWorks(rows)
}

// ListTMDBLinked returns every Work whose Metadata.tmdb_id is set,
// consumed by the scheduler's TMDB mapping-refresh job.
func (r *postgresRepository) ListTMDBLinked(ctx context.Context) ([]*Work, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s w
		JOIN %s m ON m.%s = w.%s
		WHERE m.%s IS NOT NULL
		ORDER BY w.%s ASC
	`,
		prefixColumns("w", workColumnNames), schema.Work.Table,
		schema.Metadata.Table, schema.Metadata.WorkID, schema.Work.ID,
		schema.Metadata.TMDBID,
		schema.Work.ID,
	)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list tmdb-linked works")
	}
	defer rows.Close()
	return r.scanWorks(rows)
}

var workColumnNames = []string{
	schema.Work.ID, schema.Work.Title, schema.Work.Type, schema.Work.Season,
	schema.Work.ImageURL, schema.Work.LocalImagePath, schema.Work.EpisodeCount, schema.Work.CreatedAt,
}

func prefixColumns(alias string, columns []string) string {
	prefixed := make([]string, len(columns))
	for i, c := range columns {
		prefixed[i] = alias + "." + c
	}
	return strings.Join(prefixed, ", ")
}

// foldForLikeMatch lowercases and strips the same colon/space punctuation
// the SQL side folds out of stored columns, so both operands of the
// ILIKE comparison are on equal footing.
func foldForLikeMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
