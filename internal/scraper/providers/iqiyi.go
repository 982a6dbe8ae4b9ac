// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "github.com/sorahq/danmu/internal/scraper"

// IQiyi is a thin reference client for iQIYI.
type IQiyi struct{ base }

// NewIQiyi constructs the iQIYI provider over client.
func NewIQiyi(client *scraper.RateLimitedClient) *IQiyi {
	return &IQiyi{base{
		name:               "iqiyi",
		client:             client,
		configurableFields: []string{"iqiyi_cookie"},
		loggable:           true,
	}}
}
