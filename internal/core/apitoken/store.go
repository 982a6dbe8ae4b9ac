// Copyright (c) 2026 Danmu. All rights reserved.

package apitoken

import (
	"context"
	"time"
)

// # API Token Data Access

// Repository defines the data access contract for the APIToken domain.
type Repository interface {
	// List returns every APIToken, newest first.
	List(ctx context.Context) ([]*APIToken, error)

	// FindByID returns the APIToken with the given id, or apperr.NotFound.
	FindByID(ctx context.Context, id int64) (*APIToken, error)

	// FindByTokenHash returns the APIToken whose Token column matches
	// hash, or apperr.NotFound. Used by VerifyToken on every request.
	FindByTokenHash(ctx context.Context, hash string) (*APIToken, error)

	// Create persists a new APIToken and returns it with its id set.
	Create(ctx context.Context, name, tokenHash string, expiresAt *time.Time) (*APIToken, error)

	// SetEnabled toggles is_enabled, letting an operator revoke or
	// reinstate a token without deleting its history.
	SetEnabled(ctx context.Context, id int64, enabled bool) error

	// Delete permanently removes an APIToken.
	Delete(ctx context.Context, id int64) error
}
