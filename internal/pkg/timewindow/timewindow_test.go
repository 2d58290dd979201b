package timewindow

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestCheckLogin(t *testing.T) {
	cases := []struct {
		name       string
		now        time.Time
		canProceed bool
		grace      bool
	}{
		{"early morning", at(6, 30), true, false},
		{"exactly on deadline", at(8, 0), true, false},
		{"within grace", at(8, 15), true, true},
		{"end of grace", at(8, 30), true, true},
		{"past grace", at(8, 45), false, false},
		{"afternoon", at(14, 0), false, false},
	}
	for _, c := range cases {
		got := Check(ActionLogin, c.now)
		if got.CanProceed != c.canProceed || got.IsGracePeriod != c.grace {
			t.Errorf("%s: Check(login, %s) = {CanProceed:%v Grace:%v}, want {%v %v}",
				c.name, c.now.Format("15:04"), got.CanProceed, got.IsGracePeriod, c.canProceed, c.grace)
		}
	}
}

func TestCheckLunch(t *testing.T) {
	for _, action := range []Action{ActionLunchStart, ActionLunchEnd} {
		cases := []struct {
			now        time.Time
			canProceed bool
		}{
			{at(11, 59), false},
			{at(12, 0), true},
			{at(12, 30), true},
			{at(13, 0), true},
			{at(13, 1), false},
		}
		for _, c := range cases {
			got := Check(action, c.now)
			if got.CanProceed != c.canProceed {
				t.Errorf("Check(%s, %s).CanProceed = %v, want %v",
					action, c.now.Format("15:04"), got.CanProceed, c.canProceed)
			}
		}
	}
}

func TestCheckLogout(t *testing.T) {
	cases := []struct {
		name       string
		now        time.Time
		canProceed bool
		grace      bool
		requiresOT bool
	}{
		{"before shift end", at(16, 30), false, false, false},
		{"at shift end", at(17, 0), true, false, false},
		{"within extended grace", at(18, 30), true, true, false},
		{"end of extended grace", at(19, 0), true, true, false},
		{"past grace needs overtime", at(19, 30), false, false, true},
		{"late night needs overtime", at(22, 0), false, false, true},
	}
	for _, c := range cases {
		got := Check(ActionLogout, c.now)
		if got.CanProceed != c.canProceed || got.IsGracePeriod != c.grace || got.RequiresOvertimeApproval != c.requiresOT {
			t.Errorf("%s: Check(logout, %s) = {CanProceed:%v Grace:%v OT:%v}, want {%v %v %v}",
				c.name, c.now.Format("15:04"), got.CanProceed, got.IsGracePeriod, got.RequiresOvertimeApproval,
				c.canProceed, c.grace, c.requiresOT)
		}
	}
}

func TestMinutesLate(t *testing.T) {
	cases := []struct {
		now  time.Time
		want int
	}{
		{at(7, 45), 0},
		{at(8, 0), 0},
		{at(8, 15), 15},
		{at(8, 30), 30},
		{at(9, 5), 65},
	}
	for _, c := range cases {
		if got := MinutesLate(c.now); got != c.want {
			t.Errorf("MinutesLate(%s) = %d, want %d", c.now.Format("15:04"), got, c.want)
		}
	}
}

func TestShiftEnd(t *testing.T) {
	end := ShiftEnd(at(10, 15))
	if end.Hour() != 17 || end.Minute() != 0 {
		t.Errorf("ShiftEnd = %s, want 17:00", end.Format("15:04"))
	}
	if end.Day() != 2 || end.Month() != 3 {
		t.Errorf("ShiftEnd moved to a different day: %s", end.Format("2006-01-02"))
	}
}

func TestCheckUnknownAction(t *testing.T) {
	got := Check(Action("teleport"), at(12, 0))
	if got.CanProceed {
		t.Error("unknown action must not proceed")
	}
}
