// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"errors"
	"net/http"

	"github.com/sorahq/danmu/internal/platform/apperr"
	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
	"github.com/sorahq/danmu/internal/task"
)

// GET /api/admin/tasks.
func (h *Handler) listTasks(writer http.ResponseWriter, request *http.Request) {
	tasks, err := h.tasks.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tasks)
}

// GET /api/admin/tasks/{id}.
func (h *Handler) getTask(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	t, err := h.tasks.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, t)
}

// POST /api/admin/tasks/{id}/pause — best-effort; a no-op if id is
// unknown or already finished, matching [task.Engine.Pause]'s contract.
func (h *Handler) pauseTask(writer http.ResponseWriter, request *http.Request) {
	h.tasks.Pause(requestutil.ID(request, "id"))
	respond.NoContent(writer)
}

// POST /api/admin/tasks/{id}/resume.
func (h *Handler) resumeTask(writer http.ResponseWriter, request *http.Request) {
	h.tasks.Resume(requestutil.ID(request, "id"))
	respond.NoContent(writer)
}

// POST /api/admin/tasks/{id}/abort.
func (h *Handler) abortTask(writer http.ResponseWriter, request *http.Request) {
	if err := h.tasks.Abort(requestutil.ID(request, "id")); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			respond.Error(writer, request, apperr.NotFound("Task"))
			return
		}
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// DELETE /api/admin/tasks/{id} — removes a finished task's history row.
func (h *Handler) deleteTask(writer http.ResponseWriter, request *http.Request) {
	if err := h.tasks.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
