package attendance

import (
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/pkg/validator"
)

// LocationRequest carries the worker's reported position for any attendance
// action.
type LocationRequest struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
}

func (r *LocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.AccuracyMeters < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy_meters",
			Message: "accuracy_meters must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ValidateLocationResponse struct {
	InsideGeofence bool    `json:"inside_geofence"`
	DistanceMeters float64 `json:"distance_meters"`
}

type SessionResponse struct {
	ID           string  `json:"id"`
	WorkerID     string  `json:"worker_id"`
	ProjectID    string  `json:"project_id"`
	Date         string  `json:"date"`
	State        string  `json:"state"`
	ClockInAt    *string `json:"clock_in_at,omitempty"`
	LunchStartAt *string `json:"lunch_start_at,omitempty"`
	LunchEndAt   *string `json:"lunch_end_at,omitempty"`
	ClockOutAt   *string `json:"clock_out_at,omitempty"`
	IsLate       bool    `json:"is_late"`
	MinutesLate  int     `json:"minutes_late"`

	RegularHours              float64 `json:"regular_hours"`
	OTHours                   float64 `json:"ot_hours"`
	UnapprovedOvertime        bool    `json:"unapproved_overtime"`
	UnapprovedOvertimeMinutes int     `json:"unapproved_overtime_minutes,omitempty"`

	LastInsideGeofence *bool `json:"last_inside_geofence,omitempty"`
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// MapSessionToResponse converts a Session entity to SessionResponse.
func MapSessionToResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:                        s.ID,
		WorkerID:                  s.WorkerID,
		ProjectID:                 s.ProjectID,
		Date:                      s.Date.Format("2006-01-02"),
		State:                     string(s.State),
		ClockInAt:                 timePtrToString(s.ClockInAt),
		LunchStartAt:              timePtrToString(s.LunchStartAt),
		LunchEndAt:                timePtrToString(s.LunchEndAt),
		ClockOutAt:                timePtrToString(s.ClockOutAt),
		IsLate:                    s.IsLate,
		MinutesLate:               s.MinutesLate,
		RegularHours:              s.RegularHours,
		OTHours:                   s.OTHours,
		UnapprovedOvertime:        s.UnapprovedOvertime,
		UnapprovedOvertimeMinutes: s.UnapprovedOvertimeMinutes,
		LastInsideGeofence:        s.LastInsideGeofence,
	}
}
