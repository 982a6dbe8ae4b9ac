// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package cache implements component A: a Postgres-backed, keyed, per-provider
TTL cache for scraper/metadata responses.

Unlike Redis (reserved for the cookie-refresh lock and rate-limit pacing),
the cache lives in the same Postgres database as the rest of the domain so
a single backup captures everything and a TTL of zero can be used to mean
"don't cache" without introducing a second storage dependency.
*/
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

// Cache is a keyed, TTL-gated, per-provider cache backed by platform.cache.
type Cache struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New constructs a [Cache].
func New(pool *pgxpool.Pool, logger *slog.Logger) *Cache {
	return &Cache{pool: pool, logger: logger}
}

// Get looks up provider/key and unmarshals the stored JSON value into dest.
// It returns found=false both when the key is absent and when it has expired
// — callers never need to special-case expiry.
func (c *Cache) Get(ctx context.Context, provider, key string, dest any) (found bool, err error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = $2 AND %s > now()",
		schema.Cache.CacheValue, schema.Cache.Table, schema.Cache.CacheProvider, schema.Cache.CacheKey, schema.Cache.ExpiresAt)

	var raw []byte
	err = c.pool.QueryRow(ctx, query, provider, key).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, dberr.Wrap(err, "read cache entry")
	}

	if dest != nil {
		if err := json.Unmarshal(raw, dest); err != nil {
			return false, fmt.Errorf("cache: decode %s/%s: %w", provider, key, err)
		}
	}
	return true, nil
}

// Set upserts provider/key with value, expiring after ttl. A non-positive
// ttl is a no-op: callers can pass a configured "0 disables caching" knob
// straight through without branching.
func (c *Cache) Set(ctx context.Context, provider, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s/%s: %w", provider, key, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, now() + make_interval(secs => $4))
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
	`,
		schema.Cache.Table, schema.Cache.CacheProvider, schema.Cache.CacheKey, schema.Cache.CacheValue, schema.Cache.ExpiresAt,
		schema.Cache.CacheKey,
		schema.Cache.CacheProvider, schema.Cache.CacheProvider, schema.Cache.CacheValue, schema.Cache.CacheValue, schema.Cache.ExpiresAt, schema.Cache.ExpiresAt,
	)

	_, err = c.pool.Exec(ctx, query, provider, key, raw, ttl.Seconds())
	return dberr.Wrap(err, "write cache entry")
}

// Clear deletes every cache row for provider, or the entire cache when
// provider is empty — backs the admin "clear cache" action.
func (c *Cache) Clear(ctx context.Context, provider string) error {
	if provider == "" {
		_, err := c.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", schema.Cache.Table))
		return dberr.Wrap(err, "clear entire cache")
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Cache.Table, schema.Cache.CacheProvider)
	_, err := c.pool.Exec(ctx, query, provider)
	return dberr.Wrap(err, "clear provider cache")
}

// Sweep deletes every expired row and returns how many were removed. The
// maintenance package runs this on an hourly ticker.
func (c *Cache) Sweep(ctx context.Context) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s <= now()", schema.Cache.Table, schema.Cache.ExpiresAt)
	tag, err := c.pool.Exec(ctx, query)
	if err != nil {
		return 0, dberr.Wrap(err, "sweep expired cache entries")
	}
	return tag.RowsAffected(), nil
}
