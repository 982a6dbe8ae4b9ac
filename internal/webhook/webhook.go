// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package webhook implements the pluggable inbound webhook entry point:
POST /api/webhook/{type}?api_key=…, authenticated against a single shared
key rather than the admin API's per-caller token model, and dispatched by
{type} to a registered [Handler].
*/
package webhook

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
)

// Handler processes one webhook {type}'s payload. It receives the raw
// request so each registered type is free to parse its own body shape.
type Handler func(ctx context.Context, request *http.Request) error

// ConfigReader is the single runtimeconfig.Store method the dispatcher
// needs, kept narrow so it can be faked in tests without a database.
type ConfigReader interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
}

// Dispatcher routes incoming webhooks to a registered [Handler] by type,
// after validating the shared api_key query parameter.
type Dispatcher struct {
	config   ConfigReader
	handlers map[string]Handler
}

// NewDispatcher constructs a [Dispatcher] with no registered handlers;
// call [Dispatcher.Register] for each supported {type}.
func NewDispatcher(config ConfigReader) *Dispatcher {
	return &Dispatcher{config: config, handlers: make(map[string]Handler)}
}

// Register adds a handler for the given webhook {type}. Calling it twice
// for the same type replaces the previous registration.
func (d *Dispatcher) Register(webhookType string, handler Handler) {
	d.handlers[webhookType] = handler
}

// Routes returns a [chi.Router] with the single POST /{type} endpoint,
// mounted at /api/webhook by the composition root.
func (d *Dispatcher) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/{type}", d.dispatch)
	return router
}

func (d *Dispatcher) dispatch(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	expected, found, err := d.config.Get(ctx, "webhook_api_key")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !found || expected == "" || request.URL.Query().Get("api_key") != expected {
		respond.Error(writer, request, apperr.Unauthorized("invalid or missing api_key"))
		return
	}

	webhookType := requestutil.Param(request, "type")
	handler, ok := d.handlers[webhookType]
	if !ok {
		respond.Error(writer, request, apperr.NotFound("webhook type "+webhookType))
		return
	}

	if err := handler(ctx, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": "ok"})
}
