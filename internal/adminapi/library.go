// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"
	"strconv"

	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
	"github.com/sorahq/danmu/internal/platform/validate"
	"github.com/sorahq/danmu/pkg/pagination"
)

// GET /api/admin/library — paginated, filterable Work listing.
func (h *Handler) listWorks(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := work.Filter{
		Query:   query.Get("q"),
		Type:    work.Type(query.Get("type")),
		Sort:    query.Get("sort"),
		SortDir: query.Get("dir"),
	}
	if season := query.Get("season"); season != "" {
		if n, err := strconv.Atoi(season); err == nil {
			filter.Season = &n
		}
	}

	works, total, err := h.works.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, works, pagination.NewMeta(params.Page, params.Limit, total))
}

func parseWorkID(request *http.Request) (int64, error) {
	id, err := strconv.ParseInt(requestutil.ID(request, "id"), 10, 64)
	if err != nil {
		return 0, apperr.ValidationError("id must be an integer")
	}
	return id, nil
}

// GET /api/admin/library/{id}.
func (h *Handler) getWork(writer http.ResponseWriter, request *http.Request) {
	id, err := parseWorkID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	w, err := h.works.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, w)
}

// DELETE /api/admin/library/{id}.
func (h *Handler) deleteWork(writer http.ResponseWriter, request *http.Request) {
	id, err := parseWorkID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.works.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// GET /api/admin/library/{id}/metadata.
func (h *Handler) getWorkMetadata(writer http.ResponseWriter, request *http.Request) {
	id, err := parseWorkID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	m, err := h.works.GetMetadata(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, m)
}

// PUT /api/admin/library/{id}/metadata.
func (h *Handler) putWorkMetadata(writer http.ResponseWriter, request *http.Request) {
	id, err := parseWorkID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var m work.Metadata
	if err := requestutil.DecodeJSON(request, &m); err != nil {
		respond.Error(writer, request, err)
		return
	}
	m.WorkID = id

	if err := h.works.SetMetadata(request.Context(), m); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, m)
}

// GET /api/admin/library/{id}/aliases.
func (h *Handler) getWorkAliases(writer http.ResponseWriter, request *http.Request) {
	id, err := parseWorkID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	aliases, err := h.works.GetAliasSet(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, aliases)
}

// PUT /api/admin/library/{id}/aliases.
func (h *Handler) putWorkAliases(writer http.ResponseWriter, request *http.Request) {
	id, err := parseWorkID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var a work.Aliases
	if err := requestutil.DecodeJSON(request, &a); err != nil {
		respond.Error(writer, request, err)
		return
	}
	a.WorkID = id

	if err := h.works.SetAliases(request.Context(), a); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, a)
}

// reassociateSourcesRequest is the inbound payload for moving every
// Source of one Work onto another, e.g. when a scrape created a
// duplicate library entry.
type reassociateSourcesRequest struct {
	FromWorkID int64 `json:"from_work_id"`
	ToWorkID   int64 `json:"to_work_id"`
}

// POST /api/admin/library/reassociate.
func (h *Handler) reassociateSources(writer http.ResponseWriter, request *http.Request) {
	var input reassociateSourcesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.FromWorkID == 0 || input.ToWorkID == 0 {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := h.sources.Reassociate(request.Context(), input.FromWorkID, input.ToWorkID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
