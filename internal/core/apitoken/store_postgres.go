// Copyright (c) 2026 Danmu. All rights reserved.

package apitoken

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed apitoken store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var selectColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s",
	schema.APIToken.ID, schema.APIToken.Name, schema.APIToken.Token,
	schema.APIToken.IsEnabled, schema.APIToken.ExpiresAt, schema.APIToken.CreatedAt,
)

func scanToken(row pgx.Row) (*APIToken, error) {
	t := &APIToken{}
	err := row.Scan(&t.ID, &t.Name, &t.Token, &t.IsEnabled, &t.ExpiresAt, &t.CreatedAt)
	return t, err
}

func (r *postgresRepository) List(ctx context.Context) ([]*APIToken, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC",
		selectColumns, schema.APIToken.Table, schema.APIToken.ID)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list api tokens")
	}
	defer rows.Close()

	var out []*APIToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan api token")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*APIToken, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", selectColumns, schema.APIToken.Table, schema.APIToken.ID)
	t, err := scanToken(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find api token")
	}
	return t, nil
}

func (r *postgresRepository) FindByTokenHash(ctx context.Context, hash string) (*APIToken, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", selectColumns, schema.APIToken.Table, schema.APIToken.Token)
	t, err := scanToken(r.pool.QueryRow(ctx, query, hash))
	if err != nil {
		return nil, dberr.Wrap(err, "find api token by hash")
	}
	return t, nil
}

func (r *postgresRepository) Create(ctx context.Context, name, tokenHash string, expiresAt *time.Time) (*APIToken, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, true, $3)
		RETURNING %s
	`,
		schema.APIToken.Table, schema.APIToken.Name, schema.APIToken.Token, schema.APIToken.ExpiresAt,
		selectColumns,
	)

	t, err := scanToken(r.pool.QueryRow(ctx, query, name, tokenHash, expiresAt))
	if err != nil {
		return nil, dberr.Wrap(err, "create api token")
	}
	return t, nil
}

func (r *postgresRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.APIToken.Table, schema.APIToken.IsEnabled, schema.APIToken.ID), enabled, id)
	if err != nil {
		return dberr.Wrap(err, "set api token enabled")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("APIToken")
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.APIToken.Table, schema.APIToken.ID), id)
	if err != nil {
		return dberr.Wrap(err, "delete api token")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("APIToken")
	}
	return nil
}
