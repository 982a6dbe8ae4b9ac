// Copyright (c) 2026 Danmu. All rights reserved.

package uarule

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

// NewRepository constructs a PostgreSQL backed uarule store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var selectColumns = fmt.Sprintf("%s, %s", schema.UARule.ID, schema.UARule.UAString)

func scanRule(row pgx.Row) (*UARule, error) {
	r := &UARule{}
	err := row.Scan(&r.ID, &r.UAString)
	return r, err
}

func (r *postgresRepository) List(ctx context.Context) ([]*UARule, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC", selectColumns, schema.UARule.Table, schema.UARule.ID)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list ua rules")
	}
	defer rows.Close()

	var out []*UARule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan ua rule")
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Create(ctx context.Context, uaString string) (*UARule, error) {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1) RETURNING %s",
		schema.UARule.Table, schema.UARule.UAString, selectColumns)

	rule, err := scanRule(r.pool.QueryRow(ctx, query, uaString))
	if err != nil {
		return nil, dberr.Wrap(err, "create ua rule")
	}
	return rule, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.UARule.Table, schema.UARule.ID), id)
	if err != nil {
		return dberr.Wrap(err, "delete ua rule")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("UARule")
	}
	return nil
}
