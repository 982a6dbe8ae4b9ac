// Copyright (c) 2026 Danmu. All rights reserved.

package scraper

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

// Setting is one row of platform.scraper.
type Setting struct {
	ProviderName string
	IsEnabled    bool
	DisplayOrder int
	UseProxy     bool
}

// Registry keeps platform.scraper synchronized with the providers actually
// compiled into the binary, and reports which are enabled for dispatch.
type Registry struct {
	pool      *pgxpool.Pool
	providers map[string]Provider
}

// NewRegistry constructs a [Registry] over the given providers, keyed by
// provider.Name().
func NewRegistry(pool *pgxpool.Pool, providers []Provider) *Registry {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Registry{pool: pool, providers: byName}
}

// Provider returns the named provider, or nil if unknown. It does not
// consult is_enabled.
func (r *Registry) Provider(name string) Provider {
	return r.providers[name]
}

// Sync upserts a platform.scraper row for every discovered provider name,
// preserving any existing is_enabled/display_order/use_proxy flags, and
// assigns display_order = max+1 to newcomers. It deletes rows for
// providers absent from discovered, UNLESS discovered is empty — guarding
// against a binary built with no providers wired in wiping every existing
// setting on startup.
func (r *Registry) Sync(ctx context.Context, discovered []string) error {
	if len(discovered) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin scraper registry sync")
	}
	defer tx.Rollback(ctx)

	maxOrderQuery := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", schema.Scraper.DisplayOrder, schema.Scraper.Table)
	var maxOrder int
	if err := tx.QueryRow(ctx, maxOrderQuery).Scan(&maxOrder); err != nil {
		return dberr.Wrap(err, "read max display_order")
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, true, $2, false)
		ON CONFLICT (%s) DO NOTHING
	`, schema.Scraper.Table, schema.Scraper.ProviderName, schema.Scraper.IsEnabled, schema.Scraper.DisplayOrder, schema.Scraper.UseProxy, schema.Scraper.ProviderName)

	for _, name := range discovered {
		maxOrder++
		if _, err := tx.Exec(ctx, insertQuery, name, maxOrder); err != nil {
			return dberr.Wrap(err, "upsert scraper setting")
		}
	}

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE NOT (%s = ANY($1))", schema.Scraper.Table, schema.Scraper.ProviderName)
	if _, err := tx.Exec(ctx, deleteQuery, discovered); err != nil {
		return dberr.Wrap(err, "prune stale scraper settings")
	}

	return dberr.Wrap(tx.Commit(ctx), "commit scraper registry sync")
}

// ListSettings returns every platform.scraper row, ordered by
// display_order, for the admin scraper-settings view.
func (r *Registry) ListSettings(ctx context.Context) ([]Setting, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s ORDER BY %s ASC",
		schema.Scraper.ProviderName, schema.Scraper.IsEnabled, schema.Scraper.DisplayOrder, schema.Scraper.UseProxy,
		schema.Scraper.Table, schema.Scraper.DisplayOrder)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list scraper settings")
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.ProviderName, &s.IsEnabled, &s.DisplayOrder, &s.UseProxy); err != nil {
			return nil, dberr.Wrap(err, "scan scraper setting")
		}
		out = append(out, s)
	}
	return out, dberr.Wrap(rows.Err(), "list scraper settings")
}

// SetEnabled toggles is_enabled for providerName, used by the admin API's
// scraper settings page.
func (r *Registry) SetEnabled(ctx context.Context, providerName string, enabled bool) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.Scraper.Table, schema.Scraper.IsEnabled, schema.Scraper.ProviderName)
	_, err := r.pool.Exec(ctx, query, enabled, providerName)
	return dberr.Wrap(err, "set scraper enabled")
}

// SetUseProxy toggles use_proxy for providerName.
func (r *Registry) SetUseProxy(ctx context.Context, providerName string, useProxy bool) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.Scraper.Table, schema.Scraper.UseProxy, schema.Scraper.ProviderName)
	_, err := r.pool.Exec(ctx, query, useProxy, providerName)
	return dberr.Wrap(err, "set scraper use_proxy")
}

// SetDisplayOrder moves providerName to a new display_order position.
func (r *Registry) SetDisplayOrder(ctx context.Context, providerName string, order int) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.Scraper.Table, schema.Scraper.DisplayOrder, schema.Scraper.ProviderName)
	_, err := r.pool.Exec(ctx, query, order, providerName)
	return dberr.Wrap(err, "set scraper display_order")
}

// Enabled returns every provider currently enabled in platform.scraper,
// ordered by display_order, for use by the search fan-out.
func (r *Registry) Enabled(ctx context.Context) ([]Provider, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = true ORDER BY %s ASC",
		schema.Scraper.ProviderName, schema.Scraper.Table, schema.Scraper.IsEnabled, schema.Scraper.DisplayOrder)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list enabled scrapers")
	}
	defer rows.Close()

	var enabled []Provider
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dberr.Wrap(err, "scan scraper setting")
		}
		if p, ok := r.providers[name]; ok {
			enabled = append(enabled, p)
		}
	}
	return enabled, dberr.Wrap(rows.Err(), "list enabled scrapers")
}
