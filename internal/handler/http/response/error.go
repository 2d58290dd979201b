package response

import (
	"errors"
	"net/http"

	"github.com/buildcrew/sitework-backend-go/internal/domain/attendance"
	"github.com/buildcrew/sitework-backend-go/internal/domain/auth"
	"github.com/buildcrew/sitework-backend-go/internal/domain/overtime"
	"github.com/buildcrew/sitework-backend-go/internal/domain/project"
	"github.com/buildcrew/sitework-backend-go/internal/domain/task"
	"github.com/buildcrew/sitework-backend-go/internal/domain/worker"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/geo"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses with stable machine codes.
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var depErr *task.DependencyNotMetError
	if errors.As(err, &depErr) {
		details := make(map[string]string, len(depErr.Unmet))
		for _, name := range depErr.Unmet {
			details[name] = "not completed"
		}
		Error(w, http.StatusConflict, "DEPENDENCY_NOT_MET", depErr.Error(), details)
		return
	}

	var conflictErr *task.ActiveTaskConflictError
	if errors.As(err, &conflictErr) {
		Error(w, http.StatusConflict, "ACTIVE_TASK_CONFLICT", conflictErr.Error(), map[string]string{
			"active_task_id":   conflictErr.TaskID,
			"active_task_name": conflictErr.TaskName,
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, worker.ErrWorkerInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, worker.ErrSupervisorAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrOutsideGeofence):
		Error(w, http.StatusForbidden, "OUTSIDE_GEOFENCE", err.Error(), nil)
	case errors.Is(err, attendance.ErrOutsideLoginWindow):
		Error(w, http.StatusForbidden, "OUTSIDE_LOGIN_WINDOW", err.Error(), nil)
	case errors.Is(err, attendance.ErrOutsideTimeWindow):
		Error(w, http.StatusForbidden, "OUTSIDE_TIME_WINDOW", err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidStateTransition):
		Error(w, http.StatusConflict, "INVALID_STATE_TRANSITION", err.Error(), nil)
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, geo.ErrInvalidCoordinate):
		Error(w, http.StatusBadRequest, "INVALID_COORDINATE", err.Error(), nil)

	// Overtime domain errors
	case errors.Is(err, overtime.ErrDuplicatePendingRequest):
		Error(w, http.StatusConflict, "DUPLICATE_PENDING_REQUEST", err.Error(), nil)
	case errors.Is(err, overtime.ErrNotPending):
		Error(w, http.StatusConflict, "NOT_PENDING", err.Error(), nil)
	case errors.Is(err, overtime.ErrRequestNotFound):
		NotFound(w, err.Error())

	// Task domain errors
	case errors.Is(err, task.ErrNoActiveAttendanceSession):
		Error(w, http.StatusForbidden, "NO_ACTIVE_ATTENDANCE_SESSION", err.Error(), nil)
	case errors.Is(err, task.ErrIncompleteOutput):
		Error(w, http.StatusConflict, "INCOMPLETE_OUTPUT", err.Error(), nil)
	case errors.Is(err, task.ErrInvalidDelta):
		Error(w, http.StatusBadRequest, "INVALID_DELTA", err.Error(), nil)
	case errors.Is(err, task.ErrAssignmentNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, task.ErrNotInProgress):
		Error(w, http.StatusConflict, "INVALID_STATE_TRANSITION", err.Error(), nil)
	case errors.Is(err, task.ErrInvalidStatusTransition):
		Error(w, http.StatusConflict, "INVALID_STATE_TRANSITION", err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
