// Copyright (c) 2026 Danmu. All rights reserved.

package uarule

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// # Service Layer

/*
Service orchestrates UARule bookkeeping and answers the denylist check
run on every inbound request. The rule set is cached in memory and
refreshed on every Create/Delete, since IsDenied sits on the hot path
of [internal/platform/middleware.DenyBlacklistedUA] and a UA denylist
is rarely more than a handful of rows.
*/
type Service struct {
	repo   Repository
	logger *slog.Logger

	mu    sync.RWMutex
	rules []*UARule
}

// NewService constructs a [Service]. Call Refresh once at startup to
// populate the in-memory cache before serving traffic.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Refresh reloads the in-memory rule cache from storage.
func (s *Service) Refresh(ctx context.Context) error {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()
	return nil
}

// List returns every UARule.
func (s *Service) List(ctx context.Context) ([]*UARule, error) {
	return s.repo.List(ctx)
}

// Create persists a new UARule and refreshes the in-memory cache.
func (s *Service) Create(ctx context.Context, uaString string) (*UARule, error) {
	rule, err := s.repo.Create(ctx, uaString)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.ErrorContext(ctx, "uarule: cache refresh after create failed", "error", err)
	}
	return rule, nil
}

// Delete removes a UARule and refreshes the in-memory cache.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.ErrorContext(ctx, "uarule: cache refresh after delete failed", "error", err)
	}
	return nil
}

/*
IsDenied satisfies internal/platform/middleware.UADenylistChecker. It
reports whether userAgent contains any cached rule's substring,
case-insensitively. An empty cache (never refreshed, or genuinely no
rules) always allows the request.
*/
func (s *Service) IsDenied(_ context.Context, userAgent string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lowered := strings.ToLower(userAgent)
	for _, rule := range s.rules {
		if rule.UAString == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(rule.UAString)) {
			return true
		}
	}
	return false
}
