// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "net/http"

// Douban is a thin reference client for Douban.
type Douban struct{ base }

// NewDouban constructs the Douban provider over client.
func NewDouban(client *http.Client) *Douban {
	return &Douban{base{
		name:       "douban",
		http:       client,
		configKeys: []string{"douban_cookie"},
	}}
}
