package task

import (
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/pkg/validator"
)

// CreateAssignmentRequest is the supervisor write path that seeds the
// resolver.
type CreateAssignmentRequest struct {
	WorkerID       string   `json:"worker_id"`
	Date           string   `json:"date"` // YYYY-MM-DD
	Name           string   `json:"name"`
	Sequence       int      `json:"sequence"`
	Dependencies   []string `json:"dependencies,omitempty"`
	TargetQuantity float64  `json:"target_quantity"`
	TargetUnit     string   `json:"target_unit"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.Sequence < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "sequence",
			Message: "sequence must not be negative",
		})
	}

	if r.TargetQuantity <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "target_quantity",
			Message: "target_quantity must be positive",
		})
	}

	if validator.IsEmpty(r.TargetUnit) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_unit",
			Message: "target_unit is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CompleteTaskRequest struct {
	AssignmentID  string `json:"-"`
	ForceComplete bool   `json:"force_complete,omitempty"`
}

type RecordProgressRequest struct {
	AssignmentID string  `json:"-"`
	Delta        float64 `json:"delta"`
}

func (r *RecordProgressRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssignmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "assignment id is required",
		})
	}

	// Negative deltas are corrections; only a no-op delta is rejected here.
	// The store guards against the running total going negative.
	if r.Delta == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "delta",
			Message: "delta must not be zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssignmentResponse struct {
	ID              string   `json:"id"`
	WorkerID        string   `json:"worker_id"`
	ProjectID       string   `json:"project_id"`
	Date            string   `json:"date"`
	Name            string   `json:"name"`
	Sequence        int      `json:"sequence"`
	Status          string   `json:"status"`
	Dependencies    []string `json:"dependencies,omitempty"`
	TargetQuantity  float64  `json:"target_quantity"`
	TargetUnit      string   `json:"target_unit"`
	ActualOutput    float64  `json:"actual_output"`
	ProgressPercent int      `json:"progress_percent"`
	StartedAt       *string  `json:"started_at,omitempty"`
	CompletedAt     *string  `json:"completed_at,omitempty"`
}

// TodayResponse lists a worker's assignments with the advisory next task.
type TodayResponse struct {
	Assignments     []AssignmentResponse `json:"assignments"`
	SuggestedNextID *string              `json:"suggested_next_id,omitempty"`
}

// UnitProgress aggregates a worker's output per target unit for header-level
// display.
type UnitProgress struct {
	Unit            string  `json:"unit"`
	TotalOutput     float64 `json:"total_output"`
	TotalTarget     float64 `json:"total_target"`
	ProgressPercent int     `json:"progress_percent"`
}

type DailySummaryResponse struct {
	Date  string         `json:"date"`
	Units []UnitProgress `json:"units"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// MapAssignmentToResponse converts an Assignment entity to AssignmentResponse.
func MapAssignmentToResponse(a Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:              a.ID,
		WorkerID:        a.WorkerID,
		ProjectID:       a.ProjectID,
		Date:            a.Date.Format("2006-01-02"),
		Name:            a.Name,
		Sequence:        a.Sequence,
		Status:          string(a.Status),
		Dependencies:    a.Dependencies,
		TargetQuantity:  a.DailyTarget.Quantity,
		TargetUnit:      a.DailyTarget.Unit,
		ActualOutput:    a.ActualOutput,
		ProgressPercent: a.ProgressPercent,
		StartedAt:       timePtrToString(a.StartedAt),
		CompletedAt:     timePtrToString(a.CompletedAt),
	}
}
