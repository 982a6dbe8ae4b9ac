// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package metadata implements component F: the metadata-source manager.

Five auxiliary identity sources — TMDB, Bangumi, Douban, IMDb, TVDB — each
know how to turn a free-text keyword into a set of alternate titles
(aliases) for a work. The manager tracks which are enabled, their last
connectivity check, and fans an alias search out across all of them;
internal/search folds the results into its own alias-filter pass.
*/
package metadata

import "context"

// Provider is implemented by every metadata source under
// internal/metadata/providers.
type Provider interface {
	// Name returns the provider's stable identifier, matching
	// platform.metadata_source.provider_name.
	Name() string

	// SearchAliases returns alternate titles for keyword, or an empty set
	// if the provider has nothing configured/found.
	SearchAliases(ctx context.Context, keyword string) ([]string, error)

	// CheckConnectivity performs a cheap reachability probe, used to
	// populate the admin-facing connected/lastError status.
	CheckConnectivity(ctx context.Context) error

	// ConfigKeys lists the platform.config keys this provider reads
	// (api key, base URL, cookie, ...).
	ConfigKeys() []string
}
