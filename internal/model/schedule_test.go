package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockMinutes(t *testing.T) {
	min, ok := ClockMinutes("10:30:00")
	assert.True(t, ok)
	assert.Equal(t, 630, min)

	min, ok = ClockMinutes("09:15")
	assert.True(t, ok)
	assert.Equal(t, 555, min)

	_, ok = ClockMinutes("25:00:00")
	assert.False(t, ok)
	_, ok = ClockMinutes("not a clock")
	assert.False(t, ok)
}

func TestDurationMinutesFallsBackOnDegenerateWindow(t *testing.T) {
	assert.Equal(t, 45, SlotTemplate{StartTime: "11:00:00", EndTime: "11:45:00"}.DurationMinutes())
	assert.Equal(t, 30, SlotTemplate{StartTime: "11:00:00", EndTime: "11:00:00"}.DurationMinutes())
	assert.Equal(t, 30, SlotTemplate{StartTime: "12:00:00", EndTime: "11:00:00"}.DurationMinutes())
	assert.Equal(t, 30, SlotTemplate{StartTime: "bogus", EndTime: "11:00:00"}.DurationMinutes())
}
