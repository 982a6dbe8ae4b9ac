// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"
	"strconv"

	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
)

// GET /api/admin/ua-rules.
func (h *Handler) listUARules(writer http.ResponseWriter, request *http.Request) {
	rules, err := h.uarules.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rules)
}

type createUARuleRequest struct {
	UAString string `json:"ua_string"`
}

// POST /api/admin/ua-rules.
func (h *Handler) createUARule(writer http.ResponseWriter, request *http.Request) {
	var input createUARuleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.UAString == "" {
		respond.Error(writer, request, apperr.ValidationError("ua_string is required"))
		return
	}

	rule, err := h.uarules.Create(request.Context(), input.UAString)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, rule)
}

// DELETE /api/admin/ua-rules/{id}.
func (h *Handler) deleteUARule(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(requestutil.ID(request, "id"), 10, 64)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("id must be an integer"))
		return
	}

	if err := h.uarules.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
