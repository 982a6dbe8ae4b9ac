// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"
	"strconv"

	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
	"github.com/sorahq/danmu/internal/platform/validate"
)

func parseSourceID(request *http.Request) (int64, error) {
	id, err := strconv.ParseInt(requestutil.ID(request, "id"), 10, 64)
	if err != nil {
		return 0, validate.ErrInvalidJSON
	}
	return id, nil
}

// GET /api/admin/library/{id}/sources.
func (h *Handler) listSourcesForWork(writer http.ResponseWriter, request *http.Request) {
	id, err := parseWorkID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sources, err := h.sources.ListByWork(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sources)
}

// GET /api/admin/sources/{id}.
func (h *Handler) getSource(writer http.ResponseWriter, request *http.Request) {
	id, err := parseSourceID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	src, err := h.sources.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, src)
}

type setFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// PUT /api/admin/sources/{id}/favorite.
func (h *Handler) setSourceFavorite(writer http.ResponseWriter, request *http.Request) {
	id, err := parseSourceID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setFavoriteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.sources.SetFavorite(request.Context(), id, input.Favorite); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// DELETE /api/admin/sources/{id}.
func (h *Handler) deleteSource(writer http.ResponseWriter, request *http.Request) {
	id, err := parseSourceID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.sources.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

type bulkDeleteSourcesRequest struct {
	IDs []int64 `json:"ids"`
}

// POST /api/admin/sources/bulk-delete.
func (h *Handler) bulkDeleteSources(writer http.ResponseWriter, request *http.Request) {
	var input bulkDeleteSourcesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	for _, id := range input.IDs {
		if err := h.sources.Delete(request.Context(), id); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	respond.NoContent(writer)
}

// GET /api/admin/sources/{id}/episodes.
func (h *Handler) listEpisodes(writer http.ResponseWriter, request *http.Request) {
	id, err := parseSourceID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodes, err := h.episodes.ListBySource(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, episodes)
}

type reorderEpisodesRequest struct {
	EpisodeIDs []int64 `json:"episode_ids"`
}

// PUT /api/admin/sources/{id}/episodes/reorder.
func (h *Handler) reorderEpisodes(writer http.ResponseWriter, request *http.Request) {
	id, err := parseSourceID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reorderEpisodesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.episodes.Reorder(request.Context(), id, input.EpisodeIDs); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// POST /api/admin/sources/{id}/refresh — submits a background task that
// re-fetches the source's episode listing from its upstream provider.
// See refresh.go for the job body.
func (h *Handler) refreshSource(writer http.ResponseWriter, request *http.Request) {
	id, err := parseSourceID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	full := request.URL.Query().Get("full") == "true"

	taskID, err := h.submitSourceRefresh(request.Context(), id, full)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]string{"task_id": taskID})
}

// POST /api/admin/episodes/{id}/refresh — submits a background task that
// re-fetches a single episode's comments.
func (h *Handler) refreshEpisode(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(requestutil.ID(request, "id"), 10, 64)
	if err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	taskID, err := h.submitEpisodeRefresh(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]string{"task_id": taskID})
}
