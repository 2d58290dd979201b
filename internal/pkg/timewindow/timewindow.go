package timewindow

import (
	"fmt"
	"time"
)

// Action is a named attendance action with a fixed daily window.
type Action string

const (
	ActionLogin      Action = "login"
	ActionLunchStart Action = "lunch_start"
	ActionLunchEnd   Action = "lunch_end"
	ActionLogout     Action = "logout"
)

// Site-wide attendance windows. These are policy constants, not user-editable
// configuration: every project runs the same shift.
const (
	loginDeadlineHour   = 8
	loginGraceMinutes   = 30
	lunchOpenHour       = 12
	lunchCloseHour      = 13
	shiftEndHour        = 17
	logoutGraceHour     = 19
	minutesPerHour      = 60
	standardShiftMinute = shiftEndHour * minutesPerHour
)

// Result classifies "now" against an action's window.
type Result struct {
	CanProceed    bool
	IsGracePeriod bool
	// RequiresOvertimeApproval is set for logout attempts past the extended
	// grace window; the caller must hold an approved overtime request.
	RequiresOvertimeApproval bool
	Message                  string
}

// minuteOfDay returns now's wall-clock position within its day, in minutes.
func minuteOfDay(now time.Time) int {
	return now.Hour()*minutesPerHour + now.Minute()
}

// Check classifies now against the window for action.
func Check(action Action, now time.Time) Result {
	m := minuteOfDay(now)

	switch action {
	case ActionLogin:
		deadline := loginDeadlineHour * minutesPerHour
		graceEnd := deadline + loginGraceMinutes
		switch {
		case m <= deadline:
			return Result{CanProceed: true, Message: "on time"}
		case m <= graceEnd:
			return Result{CanProceed: true, IsGracePeriod: true, Message: "late clock-in within grace period"}
		default:
			return Result{Message: fmt.Sprintf("clock-in closed at %02d:%02d", loginDeadlineHour, loginGraceMinutes)}
		}

	case ActionLunchStart, ActionLunchEnd:
		open := lunchOpenHour * minutesPerHour
		closed := lunchCloseHour * minutesPerHour
		switch {
		case m < open:
			return Result{Message: fmt.Sprintf("too early: lunch window opens at %02d:00", lunchOpenHour)}
		case m <= closed:
			return Result{CanProceed: true, Message: "within lunch window"}
		default:
			return Result{Message: fmt.Sprintf("lunch window closed at %02d:00", lunchCloseHour)}
		}

	case ActionLogout:
		open := shiftEndHour * minutesPerHour
		graceEnd := logoutGraceHour * minutesPerHour
		switch {
		case m < open:
			return Result{Message: fmt.Sprintf("too early: shift ends at %02d:00", shiftEndHour)}
		case m <= graceEnd:
			grace := m > open
			msg := "within logout window"
			if grace {
				msg = "late logout within extended grace"
			}
			return Result{CanProceed: true, IsGracePeriod: grace, Message: msg}
		default:
			return Result{
				RequiresOvertimeApproval: true,
				Message:                  fmt.Sprintf("past %02d:00: logout requires approved overtime", logoutGraceHour),
			}
		}
	}

	return Result{Message: fmt.Sprintf("unknown action %q", action)}
}

// MinutesLate returns how many minutes past the login deadline now falls, or
// zero when now is on time.
func MinutesLate(now time.Time) int {
	late := minuteOfDay(now) - loginDeadlineHour*minutesPerHour
	if late < 0 {
		return 0
	}
	return late
}

// ShiftEnd returns the standard shift end (17:00) on now's date.
func ShiftEnd(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), shiftEndHour, 0, 0, 0, now.Location())
}
