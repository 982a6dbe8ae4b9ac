// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package source defines the Source entity: a single upstream provider's
binding to a library Work (e.g. "this Work's Tencent Video listing").

Core Responsibility:

  - Identity: natural key (work_id, provider_name, media_id).
  - Favorite: at most one Source per Work may be favorited; setting one
    clears the flag on its siblings.
  - Incremental refresh bookkeeping: a rolling failure counter that
    disables the feature once it crosses a configured threshold.
*/
package source

import "time"

// Source binds a Work to one upstream provider's media id.
type Source struct {
	ID                         int64     `json:"id"`
	WorkID                     int64     `json:"work_id"`
	ProviderName               string    `json:"provider_name"`
	MediaID                    string    `json:"media_id"`
	IsFavorited                bool      `json:"is_favorited"`
	IncrementalRefreshEnabled  bool      `json:"incremental_refresh_enabled"`
	IncrementalRefreshFailures int       `json:"incremental_refresh_failures"`
	CreatedAt                  time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldID            = "id"
	FieldWorkID        = "work_id"
	FieldProviderName  = "provider_name"
	FieldMediaID       = "media_id"
	FieldIsFavorited   = "is_favorited"
)
