// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import (
	"context"
	"net/http"

	"github.com/sorahq/danmu/internal/core/tmdbmap"
	"github.com/sorahq/danmu/internal/platform/apperr"
)

// TMDB is a thin reference client for The Movie Database. It is also the
// provider internal/core/tmdbmap's episode-group refresh depends on.
type TMDB struct{ base }

// NewTMDB constructs the TMDB provider over client.
func NewTMDB(client *http.Client) *TMDB {
	return &TMDB{base{
		name:       "tmdb",
		http:       client,
		configKeys: []string{"tmdb_api_key", "tmdb_api_base_url", "tmdb_image_base_url"},
	}}
}

// FetchEpisodeGroups retrieves the upstream episode-group listing for a
// TV id/group id pair, the input internal/core/tmdbmap.BuildMappings
// consumes. Actual upstream parsing is out of scope; see
// internal/scraper/providers for the same pattern applied to scrapers.
func (t *TMDB) FetchEpisodeGroups(ctx context.Context, tmdbTVID int64, groupID string) ([]tmdbmap.UpstreamGroup, error) {
	return nil, apperr.NotImplemented("tmdb: fetch episode groups")
}
