// Copyright (c) 2026 Danmu. All rights reserved.

package providers

import "github.com/sorahq/danmu/internal/scraper"

// Gamer is a thin reference client for Bahamut Anime Crazy (巴哈姆特動畫瘋).
type Gamer struct{ base }

// NewGamer constructs the Gamer provider over client.
func NewGamer(client *scraper.RateLimitedClient) *Gamer {
	return &Gamer{base{
		name:               "gamer",
		client:             client,
		configurableFields: []string{"gamer_cookie", "gamer_user_agent"},
		loggable:           true,
	}}
}
