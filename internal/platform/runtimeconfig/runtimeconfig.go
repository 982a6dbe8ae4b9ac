// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package runtimeconfig is the DB-backed overlay over platform.config: the
persisted config keys (TTLs, webhook_api_key, proxy settings, per-provider
credentials and toggles) that are hot-reloadable through the admin config
endpoint, as opposed to internal/platform/config's env-var bootstrap seeds.
*/
package runtimeconfig

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

// Store reads and writes platform.config key/value rows.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a [Store].
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns a single key's raw string value, found=false if unset.
func (s *Store) Get(ctx context.Context, key string) (value string, found bool, err error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", schema.Config.Value, schema.Config.Table, schema.Config.Key)
	err = s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, dberr.Wrap(err, "read config key")
	}
	return value, true, nil
}

// GetOr returns key's value, or fallback if unset or on read error.
func (s *Store) GetOr(ctx context.Context, key, fallback string) string {
	value, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return fallback
	}
	return value
}

// GetIntOr returns key's value parsed as an int, or fallback if unset,
// on read error, or on a malformed value.
func (s *Store) GetIntOr(ctx context.Context, key string, fallback int) int {
	value, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetDurationSecondsOr returns key's value parsed as an integer seconds
// count and converted to a [time.Duration], or fallback otherwise.
func (s *Store) GetDurationSecondsOr(ctx context.Context, key string, fallback time.Duration) time.Duration {
	value, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// Set upserts a single key/value pair.
func (s *Store) Set(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
	`, schema.Config.Table, schema.Config.Key, schema.Config.Value, schema.Config.Key, schema.Config.Value, schema.Config.Value)
	_, err := s.pool.Exec(ctx, query, key, value)
	return dberr.Wrap(err, "write config key")
}

// All returns every persisted key/value pair, for the admin config-get
// endpoint.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM %s", schema.Config.Key, schema.Config.Value, schema.Config.Table)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list config")
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, dberr.Wrap(err, "scan config row")
		}
		out[k] = v
	}
	return out, dberr.Wrap(rows.Err(), "iterate config rows")
}
