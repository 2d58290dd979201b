package overtime

import "errors"

var (
	ErrDuplicatePendingRequest = errors.New("an overtime request is already pending for today")
	ErrNotPending              = errors.New("overtime request has already been decided")
	ErrRequestNotFound         = errors.New("overtime request not found")
)
