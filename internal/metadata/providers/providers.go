// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package providers holds thin reference clients for the five auxiliary
identity sources the original project queried for aliases (TMDB, Bangumi,
Douban, IMDb, TVDB). As with internal/scraper/providers, the private
per-site response parsing is out of scope; these stubs wire identity,
config keys, and connectivity checks through a shared HTTP client and
return apperr.NotImplemented for the actual alias search until a concrete
API client is plugged in.
*/
package providers

import (
	"context"
	"net/http"

	"github.com/sorahq/danmu/internal/platform/apperr"
)

type base struct {
	name       string
	http       *http.Client
	configKeys []string
}

func (b *base) Name() string         { return b.name }
func (b *base) ConfigKeys() []string { return b.configKeys }

func (b *base) SearchAliases(ctx context.Context, keyword string) ([]string, error) {
	return nil, apperr.NotImplemented(b.name + ": alias search")
}

func (b *base) CheckConnectivity(ctx context.Context) error {
	return apperr.NotImplemented(b.name + ": connectivity check")
}
