package scheduler

import (
	"time"

	"github.com/santhokumarp/salonhub/internal/model"
)

// Plan is the set of changes one sweep wants to apply. It is computed
// purely from a snapshot of the current state, so running the same sweep
// twice with no intervening change yields an empty plan the second time.
type Plan struct {
	DeleteIDs []uint64                      // stale instances to remove (past, not booked, not pinned)
	Create    []model.SlotInstance          // missing (template, date) pairs to materialize
	Refresh   map[string][]uint64           // target status -> instance ids to realign
}

// Empty reports whether the plan contains no work.
func (p Plan) Empty() bool {
	return len(p.DeleteIDs) == 0 && len(p.Create) == 0 && len(p.Refresh) == 0
}

// BuildPlan computes the sweep for a window of windowDays days starting at
// now's date. existing must contain every instance dated on or before the
// window end. pinned holds the ids of instances some booking still points
// at; those rows back history reads and carry foreign keys, so the sweep
// must leave them alone even once released.
//
// Rules, mirroring the slot lifecycle:
//   - instances dated before today are deleted, except booked or pinned
//     ones, which are kept for history and lazy completion;
//   - every (active template, window date) pair gets an instance; the
//     initial status is blocked on closed dates, expired for today's
//     windows that already ended, available otherwise;
//   - existing non-booked instances are realigned to that same desired
//     status, except reservations whose grace period is still running;
//   - booked instances are never touched here. Only the booking lifecycle
//     may change them.
func BuildPlan(now time.Time, windowDays int, templates []model.SlotTemplate, existing []model.SlotInstance, pinned map[uint64]bool, pol Policy) Plan {
	if windowDays < 1 {
		windowDays = 1
	}
	plan := Plan{Refresh: make(map[string][]uint64)}
	today := model.DateKey(now)

	byTemplate := make(map[uint64]model.SlotTemplate, len(templates))
	for _, t := range templates {
		byTemplate[t.ID] = t
	}

	windowKeys := make(map[string]time.Time, windowDays)
	for i := 0; i < windowDays; i++ {
		d := now.AddDate(0, 0, i)
		windowKeys[model.DateKey(d)] = d
	}

	// seen tracks which (template, date) pairs already exist.
	seen := make(map[uint64]map[string]bool)
	for _, inst := range existing {
		key := model.DateKey(inst.Date)
		if key < today {
			if inst.Status != model.SlotBooked && !pinned[inst.ID] {
				plan.DeleteIDs = append(plan.DeleteIDs, inst.ID)
			}
			continue
		}
		if m := seen[inst.TemplateID]; m == nil {
			seen[inst.TemplateID] = map[string]bool{key: true}
		} else {
			m[key] = true
		}
		if inst.Status == model.SlotBooked || inst.ReservationLive(now) {
			continue
		}
		tpl, ok := byTemplate[inst.TemplateID]
		if !ok {
			continue
		}
		want := desiredStatus(now, inst.Date, tpl, pol)
		if inst.Status != want {
			plan.Refresh[want] = append(plan.Refresh[want], inst.ID)
		}
	}

	for _, tpl := range templates {
		if !tpl.IsActive {
			continue
		}
		for key, date := range windowKeys {
			if seen[tpl.ID][key] {
				continue
			}
			plan.Create = append(plan.Create, model.SlotInstance{
				TemplateID: tpl.ID,
				Date:       date,
				Status:     desiredStatus(now, date, tpl, pol),
			})
		}
	}
	return plan
}

// desiredStatus is the status an untouched (non-booked, non-reserved)
// instance should hold: expired once today's window has ended, blocked on
// closed dates, available otherwise. The expiry check is evaluated before
// calendar policy: a slot whose time has passed is gone either way.
func desiredStatus(now time.Time, date time.Time, tpl model.SlotTemplate, pol Policy) string {
	if model.DateKey(date) == model.DateKey(now) {
		if end, ok := model.ClockMinutes(tpl.EndTime); ok {
			if now.Hour()*60+now.Minute() >= end {
				return model.SlotExpired
			}
		}
	}
	if pol.IsClosed(date) {
		return model.SlotBlocked
	}
	return model.SlotAvailable
}
