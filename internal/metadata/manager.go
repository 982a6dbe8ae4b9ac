// Copyright (c) 2026 Danmu. All rights reserved.

package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

// Status is the last-observed connectivity state of one provider.
type Status struct {
	Connected bool
	LastError string
}

// SourceSetting is one row of platform.metadata_source.
type SourceSetting struct {
	ProviderName       string
	IsEnabled          bool
	IsAuxSearchEnabled bool
	DisplayOrder       int
	UseProxy           bool
}

// Manager tracks enabled metadata sources and fans alias searches out
// across them.
type Manager struct {
	pool      *pgxpool.Pool
	logger    *slog.Logger
	providers map[string]Provider

	mu     sync.RWMutex
	status map[string]Status
}

// NewManager constructs a [Manager] over the given providers.
func NewManager(pool *pgxpool.Pool, logger *slog.Logger, providers []Provider) *Manager {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Manager{pool: pool, logger: logger, providers: byName, status: make(map[string]Status)}
}

// Initialize syncs platform.metadata_source with the compiled-in provider
// set and runs an initial connectivity check against each.
func (m *Manager) Initialize(ctx context.Context) error {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	if err := m.sync(ctx, names); err != nil {
		return err
	}
	m.checkConnectivity(ctx)
	return nil
}

func (m *Manager) sync(ctx context.Context, discovered []string) error {
	if len(discovered) == 0 {
		return nil
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin metadata source sync")
	}
	defer tx.Rollback(ctx)

	maxOrderQuery := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", schema.MetadataSource.DisplayOrder, schema.MetadataSource.Table)
	var maxOrder int
	if err := tx.QueryRow(ctx, maxOrderQuery).Scan(&maxOrder); err != nil {
		return dberr.Wrap(err, "read max display_order")
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, true, false, $2, false)
		ON CONFLICT (%s) DO NOTHING
	`, schema.MetadataSource.Table,
		schema.MetadataSource.ProviderName, schema.MetadataSource.IsEnabled,
		schema.MetadataSource.IsAuxSearchEnabled, schema.MetadataSource.DisplayOrder,
		schema.MetadataSource.ProviderName)

	for _, name := range discovered {
		maxOrder++
		if _, err := tx.Exec(ctx, insertQuery, name, maxOrder); err != nil {
			return dberr.Wrap(err, "upsert metadata source setting")
		}
	}

	// tmdb's auxiliary search cannot be turned off independently: force
	// it true whenever tmdb is enabled, matching the Python manager's
	// always-on TMDB aux search invariant.
	forceQuery := fmt.Sprintf("UPDATE %s SET %s = true WHERE %s = 'tmdb' AND %s = true",
		schema.MetadataSource.Table, schema.MetadataSource.IsAuxSearchEnabled,
		schema.MetadataSource.ProviderName, schema.MetadataSource.IsEnabled)
	if _, err := tx.Exec(ctx, forceQuery); err != nil {
		return dberr.Wrap(err, "force tmdb aux search")
	}

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE NOT (%s = ANY($1))", schema.MetadataSource.Table, schema.MetadataSource.ProviderName)
	if _, err := tx.Exec(ctx, deleteQuery, discovered); err != nil {
		return dberr.Wrap(err, "prune stale metadata source settings")
	}

	return dberr.Wrap(tx.Commit(ctx), "commit metadata source sync")
}

func (m *Manager) checkConnectivity(ctx context.Context) {
	for name, p := range m.providers {
		err := p.CheckConnectivity(ctx)
		st := Status{Connected: err == nil}
		if err != nil {
			st.LastError = err.Error()
			m.logger.WarnContext(ctx, "metadata source connectivity check failed", "provider", name, "error", err)
		}
		m.mu.Lock()
		m.status[name] = st
		m.mu.Unlock()
	}
}

// Status returns the last-observed connectivity status for every provider.
func (m *Manager) Status() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Status, len(m.status))
	for k, v := range m.status {
		out[k] = v
	}
	return out
}

// ListSettings returns every platform.metadata_source row, ordered by
// display_order, for the admin metadata-source settings view.
func (m *Manager) ListSettings(ctx context.Context) ([]SourceSetting, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s ORDER BY %s ASC",
		schema.MetadataSource.ProviderName, schema.MetadataSource.IsEnabled, schema.MetadataSource.IsAuxSearchEnabled,
		schema.MetadataSource.DisplayOrder, schema.MetadataSource.UseProxy,
		schema.MetadataSource.Table, schema.MetadataSource.DisplayOrder)

	rows, err := m.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list metadata source settings")
	}
	defer rows.Close()

	var out []SourceSetting
	for rows.Next() {
		var s SourceSetting
		if err := rows.Scan(&s.ProviderName, &s.IsEnabled, &s.IsAuxSearchEnabled, &s.DisplayOrder, &s.UseProxy); err != nil {
			return nil, dberr.Wrap(err, "scan metadata source setting")
		}
		out = append(out, s)
	}
	return out, dberr.Wrap(rows.Err(), "list metadata source settings")
}

// SetEnabled toggles is_enabled for providerName.
func (m *Manager) SetEnabled(ctx context.Context, providerName string, enabled bool) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.MetadataSource.Table, schema.MetadataSource.IsEnabled, schema.MetadataSource.ProviderName)
	_, err := m.pool.Exec(ctx, query, enabled, providerName)
	return dberr.Wrap(err, "set metadata source enabled")
}

/*
SetAuxSearchEnabled toggles is_aux_search_enabled for providerName. It
writes the value as given for every provider; the admin handler is what
rejects the combination of providerName == "tmdb" and enabled == false
with a 409 conflict, since tmdb's flag stays on (see the always-on
invariant enforced by sync).
*/
func (m *Manager) SetAuxSearchEnabled(ctx context.Context, providerName string, enabled bool) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.MetadataSource.Table, schema.MetadataSource.IsAuxSearchEnabled, schema.MetadataSource.ProviderName)
	_, err := m.pool.Exec(ctx, query, enabled, providerName)
	return dberr.Wrap(err, "set metadata source aux search enabled")
}

// SetDisplayOrder moves providerName to a new display_order position.
func (m *Manager) SetDisplayOrder(ctx context.Context, providerName string, order int) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.MetadataSource.Table, schema.MetadataSource.DisplayOrder, schema.MetadataSource.ProviderName)
	_, err := m.pool.Exec(ctx, query, order, providerName)
	return dberr.Wrap(err, "set metadata source display_order")
}

// enabledProviderNames reads platform.metadata_source for is_enabled=true
// rows with is_aux_search_enabled=true, ordered by display_order.
func (m *Manager) enabledProviderNames(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = true AND %s = true ORDER BY %s ASC",
		schema.MetadataSource.ProviderName, schema.MetadataSource.Table,
		schema.MetadataSource.IsEnabled, schema.MetadataSource.IsAuxSearchEnabled, schema.MetadataSource.DisplayOrder)

	rows, err := m.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list enabled metadata sources")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dberr.Wrap(err, "scan metadata source")
		}
		names = append(names, name)
	}
	return names, dberr.Wrap(rows.Err(), "list enabled metadata sources")
}

// AliasSet fans keyword out across every enabled, aux-search-enabled
// provider and returns the union of their alias results. A single
// provider's failure does not abort the others.
func (m *Manager) AliasSet(ctx context.Context, keyword string) ([]string, error) {
	names, err := m.enabledProviderNames(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var aliases []string
	for _, name := range names {
		p, ok := m.providers[name]
		if !ok {
			continue
		}
		found, err := p.SearchAliases(ctx, keyword)
		if err != nil {
			m.logger.WarnContext(ctx, "alias search failed", "provider", name, "error", err)
			continue
		}
		for _, alias := range found {
			if _, ok := seen[alias]; ok || alias == "" {
				continue
			}
			seen[alias] = struct{}{}
			aliases = append(aliases, alias)
		}
	}
	return aliases, nil
}
