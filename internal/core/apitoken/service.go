// Copyright (c) 2026 Danmu. All rights reserved.

package apitoken

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/platform/sec"
)

// # Service Layer

// Service orchestrates APIToken issuance and verification.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns every APIToken, newest first.
func (s *Service) List(ctx context.Context) ([]*APIToken, error) {
	return s.repo.List(ctx)
}

// Get returns a single APIToken by id.
func (s *Service) Get(ctx context.Context, id int64) (*APIToken, error) {
	return s.repo.FindByID(ctx, id)
}

/*
Issue mints a fresh bearer secret for name, stores only its SHA-256
hash, and returns both the persisted row and the one-time plaintext
secret — the only moment the caller ever sees it.
*/
func (s *Service) Issue(ctx context.Context, name string, expiresAt *time.Time) (*APIToken, string, error) {
	secret, err := sec.NewTokenSecret()
	if err != nil {
		return nil, "", err
	}

	token, err := s.repo.Create(ctx, name, sec.HashToken(secret), expiresAt)
	if err != nil {
		return nil, "", err
	}
	return token, secret, nil
}

// SetEnabled revokes or reinstates an APIToken.
func (s *Service) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.repo.SetEnabled(ctx, id, enabled)
}

// Delete permanently removes an APIToken.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

/*
VerifyToken satisfies internal/platform/middleware.TokenVerifier. It
hashes the presented secret, looks up the matching row, and rejects it
if disabled or past its expiry — never leaking which reason caused the
rejection.
*/
func (s *Service) VerifyToken(ctx context.Context, tokenStr string) (*sec.Principal, error) {
	token, err := s.repo.FindByTokenHash(ctx, sec.HashToken(tokenStr))
	if err != nil {
		return nil, apperr.Unauthorized("invalid API token")
	}
	if !token.IsEnabled {
		return nil, apperr.Unauthorized("invalid API token")
	}
	if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
		return nil, apperr.Unauthorized("invalid API token")
	}
	return &sec.Principal{TokenID: strconv.FormatInt(token.ID, 10), Name: token.Name}, nil
}
