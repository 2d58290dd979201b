package http

import (
	"encoding/json"
	"net/http"

	"github.com/buildcrew/sitework-backend-go/internal/domain/overtime"
	"github.com/buildcrew/sitework-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{
		overtimeService: overtimeService,
	}
}

// Request implements OvertimeHandler.
func (h *overtimeHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	var req overtime.RequestOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.overtimeService.Request(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime requested", result)
}

// Decide implements OvertimeHandler. Supervisor-only, enforced by the router.
func (h *overtimeHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req overtime.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.overtimeService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Status implements OvertimeHandler.
func (h *overtimeHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.overtimeService.Status(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
