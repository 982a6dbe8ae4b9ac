// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package apitoken defines the APIToken entity: an opaque bearer token
that authenticates calls to the admin API.

There is no user/session concept in this platform — a valid, enabled,
unexpired token is itself the principal, per
[github.com/sorahq/danmu/internal/platform/sec.Principal].
*/
package apitoken

import "time"

// APIToken is a named bearer credential. Token holds the SHA-256 hex
// digest of the secret, never the secret itself.
type APIToken struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Token     string     `json:"-"`
	IsEnabled bool       `json:"is_enabled"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// # Field Identifiers

const (
	FieldID    = "id"
	FieldName  = "name"
	FieldToken = "token"
)
