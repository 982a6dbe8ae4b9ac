// Copyright (c) 2026 Danmu. All rights reserved.

package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitedClient wraps an *http.Client with a per-instance minimum
// interval between requests (mutex + monotonic clock, the same pacing
// scheme the Python scrapers built on asyncio.Lock), plus session-expiry
// detection and single-flight cookie refresh shared across every process
// hitting the same provider.
type RateLimitedClient struct {
	http        *http.Client
	minInterval time.Duration
	redis       *redis.Client

	mu            sync.Mutex
	lastRequestAt time.Time
}

// NewRateLimitedClient constructs a client that waits at least minInterval
// between successive requests. redisClient may be nil for providers that
// never need cookie refresh.
func NewRateLimitedClient(httpClient *http.Client, minInterval time.Duration, redisClient *redis.Client) *RateLimitedClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &RateLimitedClient{http: httpClient, minInterval: minInterval, redis: redisClient}
}

func (c *RateLimitedClient) wait(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.lastRequestAt)
	if elapsed < c.minInterval {
		select {
		case <-time.After(c.minInterval - elapsed):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastRequestAt = time.Now()
	return nil
}

// SessionExpiredFunc inspects a response and reports whether it signals an
// expired session that a cookie refresh might fix.
type SessionExpiredFunc func(*http.Response) bool

// CookieRefreshFunc obtains a fresh session cookie/token for provider and
// persists it wherever the provider keeps its session state.
type CookieRefreshFunc func(ctx context.Context) error

// RequestWithRetry performs req, respecting the rate limit. If
// isSessionExpired reports the response looks unauthenticated, it takes a
// Redis SETNX single-flight lock keyed "cookie_refresh:<provider>", calls
// refresh, and replays the request exactly once. Concurrent callers that
// lose the lock race simply retry after a short backoff once the lock
// holder's refresh has had time to land.
func (c *RateLimitedClient) RequestWithRetry(
	ctx context.Context,
	provider string,
	newRequest func() (*http.Request, error),
	isSessionExpired SessionExpiredFunc,
	refresh CookieRefreshFunc,
) (*http.Response, error) {
	resp, err := c.doOnce(ctx, newRequest)
	if err != nil {
		return nil, err
	}
	if isSessionExpired == nil || !isSessionExpired(resp) {
		return resp, nil
	}
	resp.Body.Close()

	if err := c.refreshCookiesOnce(ctx, provider, refresh); err != nil {
		return nil, fmt.Errorf("scraper: cookie refresh for %s: %w", provider, err)
	}

	return c.doOnce(ctx, newRequest)
}

func (c *RateLimitedClient) doOnce(ctx context.Context, newRequest func() (*http.Request, error)) (*http.Response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	req, err := newRequest()
	if err != nil {
		return nil, err
	}
	return c.http.Do(req.WithContext(ctx))
}

const cookieRefreshLockTTL = 30 * time.Second

func (c *RateLimitedClient) refreshCookiesOnce(ctx context.Context, provider string, refresh CookieRefreshFunc) error {
	if c.redis == nil || refresh == nil {
		if refresh != nil {
			return refresh(ctx)
		}
		return nil
	}

	lockKey := "cookie_refresh:" + provider
	acquired, err := c.redis.SetNX(ctx, lockKey, "1", cookieRefreshLockTTL).Result()
	if err != nil {
		return fmt.Errorf("acquire cookie refresh lock: %w", err)
	}
	if !acquired {
		// Another process is already refreshing; give it time to finish
		// and let the caller's replay pick up the new cookie.
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}
	defer c.redis.Del(ctx, lockKey)

	return refresh(ctx)
}

// DrainAndClose fully reads and closes resp.Body, which http.Client
// requires for connection reuse even when the caller doesn't need the body.
func DrainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
