// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "net/http"

// IMDb is a thin reference client for IMDb. It has no config keys of its
// own — the original project's manager declares the same empty set.
type IMDb struct{ base }

// NewIMDb constructs the IMDb provider over client.
func NewIMDb(client *http.Client) *IMDb {
	return &IMDb{base{name: "imdb", http: client}}
}
