// Package scheduler maintains the rolling inventory of bookable slot
// instances: it evaluates the calendar policy (holidays and weekly
// working-day rules) and runs the maintenance sweep that materializes,
// refreshes and retires slot instances for the forward window.
package scheduler

import (
	"time"

	"github.com/santhokumarp/salonhub/internal/model"
)

// Policy classifies calendar dates as open or closed. It is a pure value
// built from the holiday set and the weekly working-day rules; evaluating
// it has no side effects.
type Policy struct {
	holidays map[string]struct{}
	working  map[int]bool
}

// NewPolicy builds a Policy from the configured holidays and weekday
// rules. Weekdays without a rule default to working: admins may not have
// configured every weekday, and failing open keeps the salon bookable.
func NewPolicy(holidays []model.Holiday, days []model.WorkingDay) Policy {
	p := Policy{
		holidays: make(map[string]struct{}, len(holidays)),
		working:  make(map[int]bool, len(days)),
	}
	for _, h := range holidays {
		p.holidays[model.DateKey(h.Date)] = struct{}{}
	}
	for _, d := range days {
		p.working[d.Weekday] = d.IsWorking
	}
	return p
}

// IsClosed reports whether the business is closed on the given date: the
// date is a holiday, or a weekday rule exists and marks it non-working.
func (p Policy) IsClosed(date time.Time) bool {
	if _, ok := p.holidays[model.DateKey(date)]; ok {
		return true
	}
	if working, ok := p.working[model.MondayWeekday(date)]; ok && !working {
		return true
	}
	return false
}
