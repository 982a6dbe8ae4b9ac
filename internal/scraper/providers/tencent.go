// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "github.com/sorahq/danmu/internal/scraper"

// Tencent is a thin reference client for Tencent Video (WeTV).
type Tencent struct{ base }

// NewTencent constructs the Tencent provider over client.
func NewTencent(client *scraper.RateLimitedClient) *Tencent {
	return &Tencent{base{
		name:               "tencent",
		client:             client,
		configurableFields: []string{"tencent_cookie"},
		loggable:           true,
	}}
}
