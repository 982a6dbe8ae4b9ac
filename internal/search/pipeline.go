// Copyright (c) 2026 Danmu. All rights reserved.

package search

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sorahq/danmu/internal/metadata"
	"github.com/sorahq/danmu/internal/scraper"
)

// perProviderTimeout bounds how long a single provider's Search call may
// run before the pipeline gives up on it and treats it as empty.
const perProviderTimeout = 10 * time.Second

// Pipeline fans a query out across every enabled scraper and reconciles
// the results into a single, filtered, ordered candidate list.
type Pipeline struct {
	registry *scraper.Registry
	metadata *metadata.Manager
	logger   *slog.Logger
}

// NewPipeline constructs a [Pipeline].
func NewPipeline(registry *scraper.Registry, metadataManager *metadata.Manager, logger *slog.Logger) *Pipeline {
	return &Pipeline{registry: registry, metadata: metadataManager, logger: logger}
}

// Search parses keyword, fans it out across every enabled provider
// concurrently, and returns the fully filtered/ordered candidate list.
func (p *Pipeline) Search(ctx context.Context, keyword string) ([]Candidate, error) {
	query := ParseQuery(keyword)

	providers, err := p.registry.Enabled(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := p.fanOut(ctx, providers, query.Title)
	if err != nil {
		return nil, err
	}

	if p.metadata != nil {
		if aliases, err := p.metadata.AliasSet(ctx, query.Title); err == nil && len(aliases) > 0 {
			candidates = applyAliasFilter(candidates, aliases)
		}
	}

	candidates = applyTypeCorrection(candidates)
	candidates = applySeasonFilter(candidates, query.Season)
	candidates = applyEpisodeEcho(candidates, query.Episode)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DisplayOrder < candidates[j].DisplayOrder
	})

	return candidates, nil
}

// fanOut calls Search on every provider concurrently, bounding each call
// with its own deadline and tolerating individual provider failures — a
// scraper erroring or timing out contributes zero candidates rather than
// failing the whole search.
func (p *Pipeline) fanOut(ctx context.Context, providers []scraper.Provider, title string) ([]Candidate, error) {
	var (
		mu      sync.Mutex
		results []Candidate
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for order, provider := range providers {
		provider := provider
		order := order
		group.Go(func() error {
			callCtx, cancel := context.WithTimeout(groupCtx, perProviderTimeout)
			defer cancel()

			found, err := provider.Search(callCtx, title)
			if err != nil {
				p.logger.WarnContext(ctx, "scraper search failed", "provider", provider.Name(), "error", err)
				return nil
			}

			mapped := make([]Candidate, len(found))
			for i, r := range found {
				mapped[i] = Candidate{
					ProviderName: r.ProviderName,
					MediaID:      r.MediaID,
					Title:        r.Title,
					Type:         r.Type,
					Season:       r.Season,
					ImageURL:     r.ImageURL,
					DisplayOrder: order,
				}
			}

			mu.Lock()
			results = append(results, mapped...)
			mu.Unlock()
			return nil
		})
	}

	// errgroup.Group.Go's callbacks above never return a non-nil error
	// (provider failures are logged and swallowed), so Wait returns nil
	// here; a caller's cancellation surfaces as failed provider calls.
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
