// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"

	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
)

// GET /api/admin/metadata-sources.
func (h *Handler) listMetadataSettings(writer http.ResponseWriter, request *http.Request) {
	settings, err := h.metadata.ListSettings(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, settings)
}

type metadataSettingRequest struct {
	IsEnabled          *bool `json:"is_enabled"`
	IsAuxSearchEnabled *bool `json:"is_aux_search_enabled"`
	DisplayOrder       *int  `json:"display_order"`
}

// PUT /api/admin/metadata-sources/{name}.
func (h *Handler) updateMetadataSetting(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.ID(request, "name")

	var input metadataSettingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	if input.IsEnabled != nil {
		if err := h.metadata.SetEnabled(ctx, name, *input.IsEnabled); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	if input.IsAuxSearchEnabled != nil {
		if name == "tmdb" && !*input.IsAuxSearchEnabled {
			respond.Error(writer, request, apperr.Conflict("tmdb auxiliary search cannot be disabled independently"))
			return
		}
		if err := h.metadata.SetAuxSearchEnabled(ctx, name, *input.IsAuxSearchEnabled); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	if input.DisplayOrder != nil {
		if err := h.metadata.SetDisplayOrder(ctx, name, *input.DisplayOrder); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	respond.NoContent(writer)
}
