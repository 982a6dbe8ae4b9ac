// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "github.com/sorahq/danmu/internal/scraper"

// Bilibili is a thin reference client for Bilibili. The original
// implementation decodes a protobuf-framed danmaku stream; that decoder is
// out of scope here (see the package doc), so GetComments is unimplemented
// until a protobuf schema is wired in.
type Bilibili struct{ base }

// NewBilibili constructs the Bilibili provider over client.
func NewBilibili(client *scraper.RateLimitedClient) *Bilibili {
	return &Bilibili{base{
		name:               "bilibili",
		client:             client,
		configurableFields: []string{"bilibili_cookie"},
		loggable:           true,
	}}
}
