// Copyright (c) 2026 Danmu. All rights reserved.

package webhook_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/internal/webhook"
)

type fakeConfig struct {
	values map[string]string
}

func (f *fakeConfig) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func newRouter(d *webhook.Dispatcher) http.Handler {
	router := chi.NewRouter()
	router.Mount("/", d.Routes())
	return router
}

func TestDispatch_RejectsWrongAPIKey(t *testing.T) {
	d := webhook.NewDispatcher(&fakeConfig{values: map[string]string{"webhook_api_key": "secret"}})
	d.Register("sonarr", func(context.Context, *http.Request) error { return nil })

	req := httptest.NewRequest(http.MethodPost, "/sonarr?api_key=wrong", nil)
	rec := httptest.NewRecorder()
	newRouter(d).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDispatch_404sUnknownType(t *testing.T) {
	d := webhook.NewDispatcher(&fakeConfig{values: map[string]string{"webhook_api_key": "secret"}})

	req := httptest.NewRequest(http.MethodPost, "/unknown?api_key=secret", nil)
	rec := httptest.NewRecorder()
	newRouter(d).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatch_CallsRegisteredHandlerOnValidKey(t *testing.T) {
	var called bool
	d := webhook.NewDispatcher(&fakeConfig{values: map[string]string{"webhook_api_key": "secret"}})
	d.Register("sonarr", func(context.Context, *http.Request) error {
		called = true
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/sonarr?api_key=secret", nil)
	rec := httptest.NewRecorder()
	newRouter(d).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
