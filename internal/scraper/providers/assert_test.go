// Copyright (c) 2026 Danmu. All rights reserved.

package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sorahq/danmu/internal/scraper"
	"github.com/sorahq/danmu/internal/scraper/providers"
)

func TestProviders_SatisfyProviderInterface(t *testing.T) {
	var all []scraper.Provider
	all = append(all,
		providers.NewTencent(nil),
		providers.NewIQiyi(nil),
		providers.NewBilibili(nil),
		providers.NewGamer(nil),
		providers.NewRenren(nil),
	)

	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name())
	}
	assert.ElementsMatch(t, []string{"tencent", "iqiyi", "bilibili", "gamer", "renren"}, names)
}
