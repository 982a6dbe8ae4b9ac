// Copyright (c) 2026 Danmu. All rights reserved.

// Package middleware provides the HTTP middleware chain for the danmu API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthN, UA filtering, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/platform/ctxkey"
	"github.com/sorahq/danmu/internal/platform/respond"
	"github.com/sorahq/danmu/internal/platform/sec"
)

// TokenVerifier validates a bearer token string against the platform.api_token table.
//
// # Why an interface?
//
// Decouples the middleware from the token service's storage implementation,
// allowing mocks to be injected during unit tests.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tokenStr string) (*sec.Principal, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous (compat API routes are public).
//  3. If present, validate it via [TokenVerifier].
//  4. Inject [*sec.Principal] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			principal, err := verifier.VerifyToken(request.Context(), parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid, disabled, or expired token"))
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that did not present a valid API token.
//
// Must be registered in the router AFTER [Authenticate]. Used to gate the
// admin API; the compatibility API and webhook entry authenticate by other
// means (none, and a query-string key, respectively).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("A valid API token is required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// UADenylistChecker reports whether a User-Agent string matches a configured
// denylist substring rule.
type UADenylistChecker interface {
	IsDenied(ctx context.Context, userAgent string) bool
}

// DenyBlacklistedUA rejects requests whose User-Agent matches a UA rule.
//
// Grounded on the compatibility API's requirement that certain known-abusive
// player clients be refused outright rather than served.
func DenyBlacklistedUA(checker UADenylistChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if checker.IsDenied(request.Context(), request.UserAgent()) {
				respond.Error(writer, request, apperr.Forbidden("This client is not permitted"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// GetPrincipal retrieves the [*sec.Principal] from the [context.Context].
//
// Returns nil if the request is anonymous.
func GetPrincipal(ctx context.Context) *sec.Principal {
	principal, ok := ctx.Value(ctxkey.KeyUser).(*sec.Principal)
	if !ok {
		return nil
	}
	return principal
}
