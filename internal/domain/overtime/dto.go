package overtime

import (
	"github.com/buildcrew/sitework-backend-go/internal/pkg/validator"
)

type RequestOvertimeRequest struct {
	Reason string `json:"reason"`
}

func (r *RequestOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecideRequest struct {
	ID       string `json:"-"`
	Decision string `json:"decision"` // approve, reject
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "request id is required",
		})
	}

	if !validator.IsInSlice(r.Decision, []string{"approve", "reject"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: approve, reject",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RequestResponse struct {
	ID        string  `json:"id"`
	WorkerID  string  `json:"worker_id"`
	ProjectID string  `json:"project_id"`
	Date      string  `json:"date"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	DecidedBy *string `json:"decided_by,omitempty"`
	DecidedAt *string `json:"decided_at,omitempty"`
}

// MapRequestToResponse converts a Request entity to RequestResponse.
func MapRequestToResponse(req Request) RequestResponse {
	var decidedAt *string
	if req.DecidedAt != nil {
		v := req.DecidedAt.Format("2006-01-02 15:04:05")
		decidedAt = &v
	}

	return RequestResponse{
		ID:        req.ID,
		WorkerID:  req.WorkerID,
		ProjectID: req.ProjectID,
		Date:      req.Date.Format("2006-01-02"),
		Reason:    req.Reason,
		Status:    string(req.Status),
		DecidedBy: req.DecidedBy,
		DecidedAt: decidedAt,
	}
}
