package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santhokumarp/salonhub/internal/model"
)

func dayTemplates() []model.SlotTemplate {
	return []model.SlotTemplate{
		{ID: 1, StartTime: "10:00:00", EndTime: "10:30:00", IsActive: true},
		{ID: 2, StartTime: "10:30:00", EndTime: "11:00:00", IsActive: true},
		{ID: 3, StartTime: "11:00:00", EndTime: "11:45:00", IsActive: true},
	}
}

func TestFindContiguousRunMinimalPrefix(t *testing.T) {
	run, ok := FindContiguousRun(dayTemplates(), 1, 45)
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 2}, run, "45 minutes needs exactly two 30-minute slots")
}

func TestFindContiguousRunExactFit(t *testing.T) {
	run, ok := FindContiguousRun(dayTemplates(), 2, 30)
	require.True(t, ok)
	assert.Equal(t, []uint64{2}, run)
}

func TestFindContiguousRunSpansToEnd(t *testing.T) {
	run, ok := FindContiguousRun(dayTemplates(), 1, 105)
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 2, 3}, run)
}

func TestFindContiguousRunInsufficientTail(t *testing.T) {
	_, ok := FindContiguousRun(dayTemplates(), 3, 60)
	assert.False(t, ok, "only 45 minutes remain from the last template")
}

func TestFindContiguousRunStartTemplateMissing(t *testing.T) {
	_, ok := FindContiguousRun(dayTemplates(), 99, 30)
	assert.False(t, ok)
}

func TestFindContiguousRunEmptySchedule(t *testing.T) {
	_, ok := FindContiguousRun(nil, 1, 30)
	assert.False(t, ok)
}

func TestFindContiguousRunDegenerateTemplateCountsAsThirtyMinutes(t *testing.T) {
	templates := []model.SlotTemplate{
		{ID: 7, StartTime: "12:00:00", EndTime: "12:00:00", IsActive: true},
		{ID: 8, StartTime: "12:30:00", EndTime: "13:00:00", IsActive: true},
	}
	run, ok := FindContiguousRun(templates, 7, 60)
	require.True(t, ok)
	assert.Equal(t, []uint64{7, 8}, run)
}

func TestRequiredMinutesWeighsQuantity(t *testing.T) {
	lines := []model.BookingLine{
		{DurationMin: 45, Quantity: 1},
		{DurationMin: 20, Quantity: 2},
	}
	assert.Equal(t, 85, RequiredMinutes(lines))
}
