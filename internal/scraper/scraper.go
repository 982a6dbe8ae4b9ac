// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package scraper defines the contract every provider implementation
satisfies (component D) and the shared infrastructure — a rate-limited
HTTP client and a provider registry — that every provider is built on top
of.

Concrete per-site parsing (the part that knows Tencent's or Bilibili's
private JSON shapes) lives under internal/scraper/providers as thin
reference clients; the heavy lifting (pacing, retry, cookie refresh) is
shared here, and title sanitization in pkg/comment, so a new provider is mostly "parse the
response", not "reinvent the plumbing".
*/
package scraper

import "context"

// EpisodeInfo is a single episode discovered from a provider's media page.
type EpisodeInfo struct {
	Index             int
	Title             string
	ProviderEpisodeID string
	SourceURL         string
}

// SearchResult is a single candidate returned from a provider search.
type SearchResult struct {
	ProviderName string
	MediaID      string
	Title        string
	Type         string // "tv_series", "movie", "ova", "other"
	Season       int
	ImageURL     string
}

// RawComment is a single comment as returned by a provider, before
// normalization (see pkg/comment).
type RawComment struct {
	CID string
	P   string
	M   string
	T   float64
}

// ActionRequest is a provider-defined out-of-band action (e.g. "refresh
// cookies", "solve captcha token") triggered from the admin UI.
type ActionRequest struct {
	Name    string
	Payload map[string]string
}

// Scraper identifies a content provider by name; the contract every
// provider implements is [Provider].
type Scraper struct {
	ProviderName string
}

// Provider is implemented by every concrete scraper under
// internal/scraper/providers.
type Provider interface {
	// Name returns the provider's stable identifier, matching
	// platform.scraper.provider_name.
	Name() string

	// Search finds candidate media matching a free-text query.
	Search(ctx context.Context, query string) ([]SearchResult, error)

	// GetEpisodes lists a media id's episodes in provider order.
	GetEpisodes(ctx context.Context, mediaID string) ([]EpisodeInfo, error)

	// GetComments fetches every raw comment for one episode.
	GetComments(ctx context.Context, providerEpisodeID string) ([]RawComment, error)

	// ExecuteAction runs a provider-specific maintenance action (cookie
	// refresh, token rotation). Providers with none return
	// apperr.NotImplemented for any name.
	ExecuteAction(ctx context.Context, req ActionRequest) error

	// Close releases any held resources (open cookie jars, persistent
	// connections). Called once at shutdown.
	Close() error

	// ConfigurableFields lists the admin-editable settings this provider
	// exposes beyond the shared is_enabled/display_order/use_proxy triple
	// (e.g. a session cookie, a device id). Mirrors the Python
	// implementation's class-level configurable_fields attribute as a Go
	// interface method, since Go has no class attributes.
	ConfigurableFields() []string

	// IsLoggable reports whether raw upstream responses may be persisted
	// for debugging, gated by the scraper_<provider>_log_responses flag.
	IsLoggable() bool
}
