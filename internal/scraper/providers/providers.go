// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package providers holds thin reference implementations of
internal/scraper.Provider for the five upstream sites the original
project supported (Tencent, iQiyi, Bilibili, Gamer, Renren).

Each file wires a provider's identity, rate limit, and configurable
fields (cookie/user-agent, matching the Python class-attribute
declarations this is ported from) through the shared
internal/scraper.RateLimitedClient. The private per-site JSON/HTML
response shapes these APIs actually return are intentionally not
reverse-engineered here — that parsing is out of scope and would need
to track each site's private API indefinitely to stay correct.
Search/GetEpisodes/GetComments return
apperr.NotImplemented so the fan-out pipeline in internal/search treats
an un-configured provider as "no results" rather than a hard failure.
*/
package providers

import (
	"context"
	"time"

	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/scraper"
)

// base factors out the fields every provider stub shares.
type base struct {
	name               string
	client             *scraper.RateLimitedClient
	configurableFields []string
	loggable           bool
}

func (b *base) Name() string                 { return b.name }
func (b *base) ConfigurableFields() []string { return b.configurableFields }
func (b *base) IsLoggable() bool             { return b.loggable }
func (b *base) Close() error                 { return nil }

func (b *base) notImplemented(op string) error {
	return apperr.NotImplemented(b.name + ": " + op)
}

func (b *base) Search(ctx context.Context, query string) ([]scraper.SearchResult, error) {
	return nil, b.notImplemented("search")
}

func (b *base) GetEpisodes(ctx context.Context, mediaID string) ([]scraper.EpisodeInfo, error) {
	return nil, b.notImplemented("get episodes")
}

func (b *base) GetComments(ctx context.Context, providerEpisodeID string) ([]scraper.RawComment, error) {
	return nil, b.notImplemented("get comments")
}

func (b *base) ExecuteAction(ctx context.Context, req scraper.ActionRequest) error {
	return b.notImplemented("action " + req.Name)
}

// defaultMinInterval mirrors the 0.5s "be nice to the server" pacing every
// upstream scraper in the reference implementation used.
const defaultMinInterval = 500 * time.Millisecond
