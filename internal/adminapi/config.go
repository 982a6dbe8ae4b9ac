// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"

	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
)

// GET /api/admin/config — the full persisted-config key/value set.
func (h *Handler) getConfig(writer http.ResponseWriter, request *http.Request) {
	values, err := h.config.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, values)
}

type putConfigRequest struct {
	Value string `json:"value"`
}

// PUT /api/admin/config/{key}.
func (h *Handler) putConfig(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.ID(request, "key")
	if key == "" {
		respond.Error(writer, request, apperr.ValidationError("key is required"))
		return
	}

	var input putConfigRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.config.Set(request.Context(), key, input.Value); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
