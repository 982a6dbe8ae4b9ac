// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"

	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
	"github.com/sorahq/danmu/internal/scraper"
)

// GET /api/admin/scrapers.
func (h *Handler) listScraperSettings(writer http.ResponseWriter, request *http.Request) {
	settings, err := h.scrapers.ListSettings(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, settings)
}

type scraperSettingRequest struct {
	IsEnabled    *bool `json:"is_enabled"`
	UseProxy     *bool `json:"use_proxy"`
	DisplayOrder *int  `json:"display_order"`
}

// PUT /api/admin/scrapers/{name} — a partial update: only the fields
// present in the body are changed.
func (h *Handler) updateScraperSetting(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.ID(request, "name")

	var input scraperSettingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	if input.IsEnabled != nil {
		if err := h.scrapers.SetEnabled(ctx, name, *input.IsEnabled); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	if input.UseProxy != nil {
		if err := h.scrapers.SetUseProxy(ctx, name, *input.UseProxy); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	if input.DisplayOrder != nil {
		if err := h.scrapers.SetDisplayOrder(ctx, name, *input.DisplayOrder); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	respond.NoContent(writer)
}

// POST /api/admin/scrapers/{name}/actions/{action} — dispatches a
// provider-defined out-of-band action (cookie refresh, token rotation).
func (h *Handler) runScraperAction(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.ID(request, "name")
	action := requestutil.ID(request, "action")

	provider := h.scrapers.Provider(name)
	if provider == nil {
		respond.Error(writer, request, apperr.NotFound("scraper provider "+name))
		return
	}

	var payload map[string]string
	_ = requestutil.DecodeJSON(request, &payload)

	if err := provider.ExecuteAction(request.Context(), scraper.ActionRequest{Name: action, Payload: payload}); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
