package attendance

import (
	"math"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/pkg/timewindow"
)

// computeHours splits a closed session into regular and overtime hours.
// Regular time runs from clock-in to the standard shift end (or the clock-out
// when earlier), minus the lunch break. Time past the shift end is the
// overtime segment: payable only when approved, otherwise recorded as
// unapproved minutes and excluded from otHours.
func computeHours(clockIn time.Time, lunchStart, lunchEnd *time.Time, clockOut time.Time, otApproved bool) (regular, ot float64, unapprovedMinutes int) {
	shiftEnd := timewindow.ShiftEnd(clockOut)

	regularEnd := clockOut
	if regularEnd.After(shiftEnd) {
		regularEnd = shiftEnd
	}

	var lunch time.Duration
	if lunchStart != nil && lunchEnd != nil {
		lunch = lunchEnd.Sub(*lunchStart)
	}

	regularDur := regularEnd.Sub(clockIn) - lunch
	if regularDur < 0 {
		regularDur = 0
	}
	regular = roundHours(regularDur)

	if clockOut.After(shiftEnd) {
		otDur := clockOut.Sub(shiftEnd)
		if otApproved {
			ot = roundHours(otDur)
		} else {
			unapprovedMinutes = int(otDur.Minutes())
		}
	}

	return regular, ot, unapprovedMinutes
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
