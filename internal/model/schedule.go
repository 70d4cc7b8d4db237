package model

import (
	"fmt"
	"time"
)

// fallbackSlotMinutes is assumed when a template carries a non-positive
// or unparsable duration, so bad rows degrade instead of blocking checkout.
const fallbackSlotMinutes = 30

// SlotTemplate is a daily-recurring time-of-day window. The pair
// (StartTime, EndTime) is unique and EndTime must be after StartTime.
// Times are stored as "HH:MM:SS" strings matching the MySQL TIME columns.
type SlotTemplate struct {
	ID        uint64 // slot_templates.id
	StartTime string // slot_templates.start_time ("HH:MM:SS")
	EndTime   string // slot_templates.end_time ("HH:MM:SS")
	IsActive  bool   // slot_templates.is_active
}

// DurationMinutes returns EndTime-StartTime in minutes. Degenerate values
// (unparsable clocks or end <= start) fall back to 30 minutes.
func (t SlotTemplate) DurationMinutes() int {
	start, ok1 := ClockMinutes(t.StartTime)
	end, ok2 := ClockMinutes(t.EndTime)
	if !ok1 || !ok2 || end <= start {
		return fallbackSlotMinutes
	}
	return end - start
}

// ClockMinutes parses a "HH:MM" or "HH:MM:SS" clock string into minutes
// since midnight. It reports false on malformed input.
func ClockMinutes(clock string) (int, bool) {
	var h, m, s int
	if _, err := fmt.Sscanf(clock, "%d:%d:%d", &h, &m, &s); err != nil {
		if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
			return 0, false
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// WorkingDay flags one weekday as working or closed. Weekday follows the
// scheduling convention 0=Monday .. 6=Sunday. Absent rows default to
// working when the calendar policy is evaluated.
type WorkingDay struct {
	ID        uint64 // working_days.id
	Weekday   int    // working_days.weekday (0=Mon .. 6=Sun)
	IsWorking bool   // working_days.is_working
}

// MondayWeekday converts a time.Weekday (Sunday=0) into the 0=Monday
// convention used by working-day rules.
func MondayWeekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// Holiday closes one specific calendar date regardless of weekday rules.
type Holiday struct {
	ID     uint64    // holidays.id
	Date   time.Time // holidays.holiday_date (date only)
	Reason string    // holidays.reason
}

// DateKey normalizes a timestamp to its "YYYY-MM-DD" form, the key used
// for holiday lookups and slot_date comparisons.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
