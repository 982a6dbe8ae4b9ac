// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"

	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
)

// GET /api/admin/search?keyword=… fans a keyword out across every
// enabled scraper via internal/search.Pipeline and returns the raw,
// alias-filtered candidate list so an operator can pick one to attach to
// a Work as a new source.
func (h *Handler) searchProviders(writer http.ResponseWriter, request *http.Request) {
	keyword := request.URL.Query().Get("keyword")
	if keyword == "" {
		respond.Error(writer, request, apperr.ValidationError("keyword is required"))
		return
	}

	candidates, err := h.pipeline.Search(request.Context(), keyword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, candidates)
}

type addSourceFromCandidateRequest struct {
	ProviderName string `json:"provider_name"`
	MediaID      string `json:"media_id"`
}

// POST /api/admin/library/{id}/sources — attaches a chosen search
// candidate to a Work as a new Source, by its natural key.
func (h *Handler) addSourceFromCandidate(writer http.ResponseWriter, request *http.Request) {
	workID, err := parseWorkID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addSourceFromCandidateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.ProviderName == "" || input.MediaID == "" {
		respond.Error(writer, request, apperr.ValidationError("provider_name and media_id are required"))
		return
	}

	s, err := h.sources.FindOrCreate(request.Context(), workID, input.ProviderName, input.MediaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, s)
}

type createWorkRequest struct {
	Title        string `json:"title"`
	Season       int    `json:"season"`
	Type         string `json:"type"`
	ImageURL     string `json:"image_url"`
	ProviderName string `json:"provider_name"`
	MediaID      string `json:"media_id"`
}

/*
POST /api/admin/library is the entry point for ingesting a title that
isn't in the catalogue yet: find-or-create the Work by (title, season),
attach the chosen search candidate as its first Source, then submit a
full import of that source's episode listing as a background task —
the same find-or-create-Work, find-or-create-Source, import-episodes
sequence a scheduled incremental refresh runs for a title already on
file, just triggered for the first time from an operator's search pick
instead of a recurring job.
*/
func (h *Handler) createWorkFromCandidate(writer http.ResponseWriter, request *http.Request) {
	var input createWorkRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Title == "" || input.ProviderName == "" || input.MediaID == "" {
		respond.Error(writer, request, apperr.ValidationError("title, provider_name and media_id are required"))
		return
	}

	w, err := h.works.FindOrCreateForImport(request.Context(), input.Title, input.Season, work.Type(input.Type), input.ImageURL, "")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	s, err := h.sources.FindOrCreate(request.Context(), w.ID, input.ProviderName, input.MediaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	taskID, err := h.submitSourceRefresh(request.Context(), s.ID, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"work_id": w.ID, "source_id": s.ID, "task_id": taskID})
}
