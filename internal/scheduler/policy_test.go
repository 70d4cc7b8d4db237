package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/santhokumarp/salonhub/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPolicyHolidayClosesDate(t *testing.T) {
	pol := NewPolicy([]model.Holiday{{Date: date(2026, time.January, 26)}}, nil)
	assert.True(t, pol.IsClosed(date(2026, time.January, 26)))
	assert.False(t, pol.IsClosed(date(2026, time.January, 27)))
}

func TestPolicyWeekdayRule(t *testing.T) {
	// 2026-01-26 is a Monday; weekday 0 in the rule table.
	pol := NewPolicy(nil, []model.WorkingDay{{Weekday: 0, IsWorking: false}})
	assert.True(t, pol.IsClosed(date(2026, time.January, 26)))
	assert.False(t, pol.IsClosed(date(2026, time.January, 27)), "Tuesday has no rule and defaults to open")
}

func TestPolicyFailsOpenWithoutRules(t *testing.T) {
	pol := NewPolicy(nil, nil)
	for i := 0; i < 7; i++ {
		assert.False(t, pol.IsClosed(date(2026, time.March, 2+i)))
	}
}

func TestPolicyHolidayBeatsWorkingRule(t *testing.T) {
	pol := NewPolicy(
		[]model.Holiday{{Date: date(2026, time.January, 26)}},
		[]model.WorkingDay{{Weekday: 0, IsWorking: true}},
	)
	assert.True(t, pol.IsClosed(date(2026, time.January, 26)))
}

func TestMondayWeekdayMapping(t *testing.T) {
	// Monday maps to 0, Sunday to 6.
	assert.Equal(t, 0, model.MondayWeekday(date(2026, time.January, 26)))
	assert.Equal(t, 6, model.MondayWeekday(date(2026, time.February, 1)))
}
