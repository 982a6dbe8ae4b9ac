// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "net/http"

// TVDB is a thin reference client for TheTVDB.
type TVDB struct{ base }

// NewTVDB constructs the TVDB provider over client.
func NewTVDB(client *http.Client) *TVDB {
	return &TVDB{base{
		name:       "tvdb",
		http:       client,
		configKeys: []string{"tvdb_api_key"},
	}}
}
