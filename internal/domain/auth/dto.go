package auth

import (
	"github.com/buildcrew/sitework-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	WorkerCode string `json:"worker_code"`
	PIN        string `json:"pin"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidWorkerCode(r.WorkerCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_code",
			Message: "worker_code must be in NNNN-NNNN format",
		})
	}

	if len(r.PIN) < 4 || len(r.PIN) > 8 || !validator.IsNumeric(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be 4-8 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginResponse struct {
	AccessToken      string `json:"access_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`
	RefreshToken     string `json:"-"` // delivered as an HttpOnly cookie
	RefreshExpiresAt int64  `json:"-"`
	WorkerID         string `json:"worker_id"`
	FullName         string `json:"full_name"`
	Role             string `json:"role"`
	ProjectID        string `json:"project_id"`
}

type RefreshResponse struct {
	AccessToken     string `json:"access_token"`
	AccessExpiresAt int64  `json:"access_expires_at"`
}
