package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santhokumarp/salonhub/internal/model"
)

var planTemplates = []model.SlotTemplate{
	{ID: 1, StartTime: "10:00:00", EndTime: "10:30:00", IsActive: true},
	{ID: 2, StartTime: "10:30:00", EndTime: "11:00:00", IsActive: true},
}

// materialize turns a plan's creates into persisted-looking instances so
// a follow-up sweep can be planned over them.
func materialize(p Plan) []model.SlotInstance {
	out := make([]model.SlotInstance, len(p.Create))
	for i, s := range p.Create {
		s.ID = uint64(i + 1)
		out[i] = s
	}
	return out
}

func TestBuildPlanFillsEmptyWindow(t *testing.T) {
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	plan := BuildPlan(now, 3, planTemplates, nil, nil, NewPolicy(nil, nil))
	assert.Len(t, plan.Create, 6, "2 templates over 3 days")
	assert.Empty(t, plan.DeleteIDs)
	assert.Empty(t, plan.Refresh)
	for _, s := range plan.Create {
		assert.Equal(t, model.SlotAvailable, s.Status)
	}
}

func TestBuildPlanIsIdempotent(t *testing.T) {
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	pol := NewPolicy(nil, nil)
	first := BuildPlan(now, 3, planTemplates, nil, nil, pol)
	second := BuildPlan(now, 3, planTemplates, materialize(first), nil, pol)
	assert.True(t, second.Empty(), "re-sweeping an aligned state plans no work")
}

func TestBuildPlanDeletesStalePastButKeepsBooked(t *testing.T) {
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	user := uint64(5)
	existing := []model.SlotInstance{
		{ID: 10, TemplateID: 1, Date: now.AddDate(0, 0, -1), Status: model.SlotAvailable},
		{ID: 11, TemplateID: 2, Date: now.AddDate(0, 0, -1), Status: model.SlotBooked, BookedBy: &user},
		{ID: 12, TemplateID: 1, Date: now.AddDate(0, 0, -2), Status: model.SlotExpired},
	}
	plan := BuildPlan(now, 1, planTemplates, existing, nil, NewPolicy(nil, nil))
	assert.ElementsMatch(t, []uint64{10, 12}, plan.DeleteIDs)
	for _, ids := range plan.Refresh {
		assert.NotContains(t, ids, uint64(11))
	}
}

func TestBuildPlanKeepsPastInstancesReferencedByBookings(t *testing.T) {
	// A declined booking releases its slots to available, but its history
	// rows still point at them. The sweep must not delete those instances
	// once their date passes, or the delete trips the foreign key and the
	// whole sweep aborts before any new slots are created.
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	existing := []model.SlotInstance{
		{ID: 10, TemplateID: 1, Date: now.AddDate(0, 0, -1), Status: model.SlotAvailable},
		{ID: 11, TemplateID: 2, Date: now.AddDate(0, 0, -1), Status: model.SlotAvailable},
	}
	pinned := map[uint64]bool{10: true}
	plan := BuildPlan(now, 1, planTemplates, existing, pinned, NewPolicy(nil, nil))
	assert.Equal(t, []uint64{11}, plan.DeleteIDs)
}

func TestBuildPlanNeverTouchesBookedInWindow(t *testing.T) {
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	user := uint64(5)
	existing := []model.SlotInstance{
		{ID: 20, TemplateID: 1, Date: now, Status: model.SlotBooked, BookedBy: &user},
		{ID: 21, TemplateID: 2, Date: now, Status: model.SlotAvailable},
	}
	// Holiday today: the available slot realigns to blocked, the booked
	// one stays booked.
	pol := NewPolicy([]model.Holiday{{Date: now}}, nil)
	plan := BuildPlan(now, 1, planTemplates, existing, nil, pol)
	require.Contains(t, plan.Refresh, model.SlotBlocked)
	assert.Equal(t, []uint64{21}, plan.Refresh[model.SlotBlocked])
	assert.Empty(t, plan.DeleteIDs)
	assert.Empty(t, plan.Create, "booked and blocked rows still occupy their (template, date) pairs")
}

func TestBuildPlanFreesLapsedReservationKeepsLiveOne(t *testing.T) {
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	user := uint64(5)
	lapsed := now.Add(-time.Minute)
	live := now.Add(10 * time.Minute)
	existing := []model.SlotInstance{
		{ID: 30, TemplateID: 1, Date: now, Status: model.SlotReserved, ReservedBy: &user, ReservedUntil: &lapsed},
		{ID: 31, TemplateID: 2, Date: now, Status: model.SlotReserved, ReservedBy: &user, ReservedUntil: &live},
	}
	plan := BuildPlan(now, 1, planTemplates, existing, nil, NewPolicy(nil, nil))
	require.Contains(t, plan.Refresh, model.SlotAvailable)
	assert.Equal(t, []uint64{30}, plan.Refresh[model.SlotAvailable])
}

func TestBuildPlanExpiresTodaysEndedWindows(t *testing.T) {
	// 10:45: the first template has ended, the second is still running.
	now := time.Date(2026, time.March, 2, 10, 45, 0, 0, time.UTC)
	existing := []model.SlotInstance{
		{ID: 40, TemplateID: 1, Date: now, Status: model.SlotAvailable},
		{ID: 41, TemplateID: 2, Date: now, Status: model.SlotAvailable},
	}
	plan := BuildPlan(now, 1, planTemplates, existing, nil, NewPolicy(nil, nil))
	require.Contains(t, plan.Refresh, model.SlotExpired)
	assert.Equal(t, []uint64{40}, plan.Refresh[model.SlotExpired])
	assert.NotContains(t, plan.Refresh, model.SlotBlocked)
}

func TestBuildPlanCreatesBlockedOnClosedDate(t *testing.T) {
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)
	pol := NewPolicy([]model.Holiday{{Date: tomorrow}}, nil)
	plan := BuildPlan(now, 2, planTemplates, nil, nil, pol)
	statusByDate := make(map[string][]string)
	for _, s := range plan.Create {
		key := model.DateKey(s.Date)
		statusByDate[key] = append(statusByDate[key], s.Status)
	}
	assert.Equal(t, []string{model.SlotAvailable, model.SlotAvailable}, statusByDate[model.DateKey(now)])
	assert.Equal(t, []string{model.SlotBlocked, model.SlotBlocked}, statusByDate[model.DateKey(tomorrow)])
}

func TestBuildPlanSkipsInactiveTemplates(t *testing.T) {
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	templates := []model.SlotTemplate{
		{ID: 1, StartTime: "10:00:00", EndTime: "10:30:00", IsActive: true},
		{ID: 2, StartTime: "10:30:00", EndTime: "11:00:00", IsActive: false},
	}
	plan := BuildPlan(now, 2, templates, nil, nil, NewPolicy(nil, nil))
	assert.Len(t, plan.Create, 2)
	for _, s := range plan.Create {
		assert.Equal(t, uint64(1), s.TemplateID)
	}
}
