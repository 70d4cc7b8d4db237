package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santhokumarp/salonhub/internal/model"
)

func TestReleaseSetComesFromStoredRunNotTemplates(t *testing.T) {
	// Checkout over two half-hour windows allocates both slots.
	original := []model.SlotTemplate{
		{ID: 1, StartTime: "10:00:00", EndTime: "10:30:00", IsActive: true},
		{ID: 2, StartTime: "10:30:00", EndTime: "11:00:00", IsActive: true},
	}
	runIDs, ok := FindContiguousRun(original, 1, 60)
	require.True(t, ok)
	require.Equal(t, []uint64{1, 2}, runIDs)

	// Widening the first window shrinks a recomputed run to one template,
	// so a decline that rederived the run would leave the second slot
	// booked forever. Release works from the instances stored at checkout
	// instead, and those cover the whole run.
	widened := []model.SlotTemplate{
		{ID: 1, StartTime: "10:00:00", EndTime: "11:00:00", IsActive: true},
		{ID: 2, StartTime: "10:30:00", EndTime: "11:00:00", IsActive: true},
	}
	recomputed, ok := FindContiguousRun(widened, 1, 60)
	require.True(t, ok)
	require.Equal(t, []uint64{1}, recomputed)

	user := uint64(7)
	stored := []model.SlotInstance{
		{ID: 101, TemplateID: 1, Status: model.SlotBooked, BookedBy: &user},
		{ID: 102, TemplateID: 2, Status: model.SlotBooked, BookedBy: &user},
	}
	assert.Equal(t, []uint64{101, 102}, releasableIDs(stored, user))
}

func TestReleasableIDsSkipsInstancesNotHeld(t *testing.T) {
	user := uint64(7)
	other := uint64(8)
	stored := []model.SlotInstance{
		{ID: 201, Status: model.SlotBooked, BookedBy: &user},
		{ID: 202, Status: model.SlotBooked, BookedBy: &other},
		{ID: 203, Status: model.SlotAvailable},
		{ID: 204, Status: model.SlotBooked},
	}
	assert.Equal(t, []uint64{201}, releasableIDs(stored, user))
}
