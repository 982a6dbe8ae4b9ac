// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "github.com/sorahq/danmu/internal/scraper"

// Renren is a thin reference client for the (now-defunct) Renren
// subtitle group site, kept for parity with the upstream provider set.
type Renren struct{ base }

// NewRenren constructs the Renren provider over client.
func NewRenren(client *scraper.RateLimitedClient) *Renren {
	return &Renren{base{
		name:               "renren",
		client:             client,
		configurableFields: nil,
		loggable:           false,
	}}
}
