package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/buildcrew/sitework-backend-go/internal/domain/task"
	"github.com/buildcrew/sitework-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TaskHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Start(w http.ResponseWriter, r *http.Request)
	Pause(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	RecordProgress(w http.ResponseWriter, r *http.Request)
	ListToday(w http.ResponseWriter, r *http.Request)
	DailySummary(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	taskService task.TaskService
}

func NewTaskHandler(taskService task.TaskService) TaskHandler {
	return &taskHandlerImpl{
		taskService: taskService,
	}
}

// Create implements TaskHandler. Supervisor-only, enforced by the router.
func (h *taskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req task.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.CreateAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Assignment created", result)
}

// Start implements TaskHandler.
func (h *taskHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.taskService.Start(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Pause implements TaskHandler.
func (h *taskHandlerImpl) Pause(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.taskService.Pause(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Complete implements TaskHandler. The body is optional; force_complete is a
// supervisor escalation and is rejected for worker tokens before the service
// sees it.
func (h *taskHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	var req task.CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssignmentID = chi.URLParam(r, "id")

	if req.ForceComplete && !isSupervisor(r) {
		response.Forbidden(w, "force_complete requires supervisor access")
		return
	}

	result, err := h.taskService.Complete(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecordProgress implements TaskHandler.
func (h *taskHandlerImpl) RecordProgress(w http.ResponseWriter, r *http.Request) {
	var req task.RecordProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssignmentID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.RecordProgress(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListToday implements TaskHandler.
func (h *taskHandlerImpl) ListToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.ListToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DailySummary implements TaskHandler.
func (h *taskHandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.DailySummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
