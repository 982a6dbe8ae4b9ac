// Copyright (c) 2026 Danmu. All rights reserved.

package apitoken_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/core/apitoken"
	"github.com/sorahq/danmu/internal/platform/apperr"
)

type fakeRepository struct {
	byID   map[int64]*apitoken.APIToken
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[int64]*apitoken.APIToken)}
}

func (f *fakeRepository) List(context.Context) ([]*apitoken.APIToken, error) {
	var out []*apitoken.APIToken
	for _, t := range f.byID {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int64) (*apitoken.APIToken, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("APIToken")
	}
	return t, nil
}

func (f *fakeRepository) FindByTokenHash(_ context.Context, hash string) (*apitoken.APIToken, error) {
	for _, t := range f.byID {
		if t.Token == hash {
			return t, nil
		}
	}
	return nil, apperr.NotFound("APIToken")
}

func (f *fakeRepository) Create(_ context.Context, name, tokenHash string, expiresAt *time.Time) (*apitoken.APIToken, error) {
	f.nextID++
	t := &apitoken.APIToken{ID: f.nextID, Name: name, Token: tokenHash, IsEnabled: true, ExpiresAt: expiresAt, CreatedAt: time.Unix(0, 0)}
	f.byID[t.ID] = t
	return t, nil
}

func (f *fakeRepository) SetEnabled(_ context.Context, id int64, enabled bool) error {
	t, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("APIToken")
	}
	t.IsEnabled = enabled
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("APIToken")
	}
	delete(f.byID, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIssue_ThenVerifyTokenSucceedsWithThePlaintextSecret(t *testing.T) {
	svc := apitoken.NewService(newFakeRepository(), discardLogger())

	token, secret, err := svc.Issue(context.Background(), "sonarr-webhook", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.NotEqual(t, secret, token.Token, "stored token must be the hash, not the plaintext secret")

	principal, err := svc.VerifyToken(context.Background(), secret)
	require.NoError(t, err)
	assert.Equal(t, "sonarr-webhook", principal.Name)
}

func TestVerifyToken_RejectsUnknownSecret(t *testing.T) {
	svc := apitoken.NewService(newFakeRepository(), discardLogger())

	_, err := svc.VerifyToken(context.Background(), "does-not-exist")
	require.Error(t, err)
}

func TestVerifyToken_RejectsDisabledToken(t *testing.T) {
	svc := apitoken.NewService(newFakeRepository(), discardLogger())

	token, secret, err := svc.Issue(context.Background(), "revoked", nil)
	require.NoError(t, err)
	require.NoError(t, svc.SetEnabled(context.Background(), token.ID, false))

	_, err = svc.VerifyToken(context.Background(), secret)
	require.Error(t, err)
}

func TestVerifyToken_RejectsExpiredToken(t *testing.T) {
	svc := apitoken.NewService(newFakeRepository(), discardLogger())

	past := time.Now().Add(-time.Hour)
	_, secret, err := svc.Issue(context.Background(), "stale", &past)
	require.NoError(t, err)

	_, err = svc.VerifyToken(context.Background(), secret)
	require.Error(t, err)
}

func TestDelete_RemovesToken(t *testing.T) {
	svc := apitoken.NewService(newFakeRepository(), discardLogger())

	token, _, err := svc.Issue(context.Background(), "throwaway", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), token.ID))

	_, err = svc.Get(context.Background(), token.ID)
	require.Error(t, err)
}
