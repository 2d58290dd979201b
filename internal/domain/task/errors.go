package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoActiveAttendanceSession = errors.New("you must be clocked in to work on tasks")
	ErrIncompleteOutput          = errors.New("daily target not reached")
	ErrInvalidDelta              = errors.New("progress delta would make output negative")
	ErrAssignmentNotFound        = errors.New("task assignment not found")
	ErrNotInProgress             = errors.New("task is not in progress")
	ErrInvalidStatusTransition   = errors.New("action not allowed in the current task status")
)

// DependencyNotMetError names the prerequisite tasks that are not completed
// yet so the client can list them.
type DependencyNotMetError struct {
	Unmet []string // task names
}

func (e *DependencyNotMetError) Error() string {
	return fmt.Sprintf("complete these tasks first: %s", strings.Join(e.Unmet, ", "))
}

// ActiveTaskConflictError names the task that is already in progress. The
// caller must pause it explicitly before starting another; tasks are never
// switched silently.
type ActiveTaskConflictError struct {
	TaskID   string
	TaskName string
}

func (e *ActiveTaskConflictError) Error() string {
	return fmt.Sprintf("task %q is already in progress: pause it first", e.TaskName)
}
