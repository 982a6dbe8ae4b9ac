// Copyright (c) 2026 Danmu. All rights reserved.

package adminapi

import (
	"net/http"

	requestutil "github.com/sorahq/danmu/internal/platform/request"
	"github.com/sorahq/danmu/internal/platform/respond"
)

// GET /api/admin/scheduled-tasks.
func (h *Handler) listScheduledTasks(writer http.ResponseWriter, request *http.Request) {
	rows, err := h.scheduled.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rows)
}

type scheduledTaskRequest struct {
	Name           string `json:"name"`
	JobType        string `json:"job_type"`
	CronExpression string `json:"cron_expression"`
	IsEnabled      bool   `json:"is_enabled"`
}

// POST /api/admin/scheduled-tasks — creates a row, then reloads the live
// scheduler so a newly enabled row takes effect without a restart.
func (h *Handler) createScheduledTask(writer http.ResponseWriter, request *http.Request) {
	var input scheduledTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	row, err := h.scheduled.Create(request.Context(), input.Name, input.JobType, input.CronExpression, input.IsEnabled)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := h.scheduler.Reload(request.Context()); err != nil {
		h.logger.ErrorContext(request.Context(), "scheduler reload after create failed", "error", err)
	}
	respond.Created(writer, row)
}

// PUT /api/admin/scheduled-tasks/{id}.
func (h *Handler) updateScheduledTask(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	var input scheduledTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.scheduled.Update(request.Context(), id, input.Name, input.CronExpression, input.IsEnabled); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := h.scheduler.Reload(request.Context()); err != nil {
		h.logger.ErrorContext(request.Context(), "scheduler reload after update failed", "error", err)
	}
	respond.NoContent(writer)
}

// DELETE /api/admin/scheduled-tasks/{id}.
func (h *Handler) deleteScheduledTask(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	if err := h.scheduled.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := h.scheduler.Reload(request.Context()); err != nil {
		h.logger.ErrorContext(request.Context(), "scheduler reload after delete failed", "error", err)
	}
	respond.NoContent(writer)
}

// POST /api/admin/scheduled-tasks/{id}/run-now — submits the bound job
// immediately, out of band from its cron schedule.
func (h *Handler) runScheduledTaskNow(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	row, err := h.scheduled.FindByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.scheduler.RunNow(request.Context(), row.JobType); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
