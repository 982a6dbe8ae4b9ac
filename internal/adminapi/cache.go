// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"

	"github.com/sorahq/danmu/internal/platform/respond"
)

// POST /api/admin/cache/clear?provider=… — clears every cached entry for
// provider, or the whole cache if provider is omitted.
func (h *Handler) clearCache(writer http.ResponseWriter, request *http.Request) {
	provider := request.URL.Query().Get("provider")

	if err := h.cache.Clear(request.Context(), provider); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
