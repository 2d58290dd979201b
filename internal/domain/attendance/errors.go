package attendance

import "errors"

// Precondition failures. All of these leave the session unchanged and are
// retryable by the client once the condition is corrected.
var (
	ErrOutsideGeofence        = errors.New("you are outside the project geofence")
	ErrOutsideLoginWindow     = errors.New("clock-in is not allowed at this time")
	ErrOutsideTimeWindow      = errors.New("this action is not allowed at this time")
	ErrInvalidStateTransition = errors.New("action not allowed in the current attendance state")
	ErrSessionNotFound        = errors.New("no attendance session found for today")
)
