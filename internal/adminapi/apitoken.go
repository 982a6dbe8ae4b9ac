// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
)

// GET /api/admin/api-tokens.
func (h *Handler) listAPITokens(writer http.ResponseWriter, request *http.Request) {
	tokens, err := h.tokens.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tokens)
}

type createAPITokenRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type createAPITokenResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// POST /api/admin/api-tokens — the only response that ever carries the
// plaintext secret; the stored row only keeps its hash.
func (h *Handler) createAPIToken(writer http.ResponseWriter, request *http.Request) {
	var input createAPITokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Name == "" {
		respond.Error(writer, request, apperr.ValidationError("name is required"))
		return
	}

	token, secret, err := h.tokens.Issue(request.Context(), input.Name, input.ExpiresAt)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, createAPITokenResponse{ID: token.ID, Name: token.Name, Secret: secret})
}

type setAPITokenEnabledRequest struct {
	IsEnabled bool `json:"is_enabled"`
}

// PUT /api/admin/api-tokens/{id}/enabled — revokes or reinstates a token.
func (h *Handler) setAPITokenEnabled(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(requestutil.ID(request, "id"), 10, 64)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("id must be an integer"))
		return
	}

	var input setAPITokenEnabledRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.tokens.SetEnabled(request.Context(), id, input.IsEnabled); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// DELETE /api/admin/api-tokens/{id}.
func (h *Handler) deleteAPIToken(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(requestutil.ID(request, "id"), 10, 64)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("id must be an integer"))
		return
	}

	if err := h.tokens.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
