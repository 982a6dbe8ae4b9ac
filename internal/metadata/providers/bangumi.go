// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "net/http"

// Bangumi is a thin reference client for bgm.tv.
type Bangumi struct{ base }

// NewBangumi constructs the Bangumi provider over client.
func NewBangumi(client *http.Client) *Bangumi {
	return &Bangumi{base{
		name:       "bangumi",
		http:       client,
		configKeys: []string{"bangumi_client_id", "bangumi_client_secret"},
	}}
}
