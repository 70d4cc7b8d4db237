package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/santhokumarp/salonhub/internal/repository"
)

// sweepLockKey is the Redis key used as an advisory lock so only one
// process runs the sweep at a time across server instances.
const sweepLockKey = "salonhub:sweep:lock"

// sweepLockTTL bounds how long a crashed sweeper can hold the lock.
const sweepLockTTL = 60 * time.Second

// Generator is the rolling slot generator. It keeps exactly the slot
// instances needed for the forward window in sync with the active
// templates and the calendar policy. Sweeps run on a timer and
// synchronously after template mutations; all transitions are idempotent,
// so an occasional overlapping run is wasteful but never incorrect.
type Generator struct {
	Schedule   *repository.ScheduleRepo
	Slots      *repository.SlotRepo
	Bookings   *repository.BookingRepo
	Redis      *redis.Client // nil disables cross-process coordination
	WindowDays int

	mu sync.Mutex // in-process fallback when Redis is absent
}

// NewGenerator constructs a Generator. windowDays is inclusive of today;
// values below 1 are clamped.
func NewGenerator(schedule *repository.ScheduleRepo, slots *repository.SlotRepo, bookings *repository.BookingRepo, rdb *redis.Client, windowDays int) *Generator {
	if windowDays < 1 {
		windowDays = 1
	}
	return &Generator{Schedule: schedule, Slots: slots, Bookings: bookings, Redis: rdb, WindowDays: windowDays}
}

// Sweep runs one maintenance pass: snapshot state, build the plan, apply
// it. When another sweeper holds the lock the call returns nil without
// doing work.
func (g *Generator) Sweep(ctx context.Context) error {
	release, ok := g.acquireLock(ctx)
	if !ok {
		return nil
	}
	defer release()

	now := time.Now().UTC()

	holidays, err := g.Schedule.ListHolidays(ctx)
	if err != nil {
		return err
	}
	days, err := g.Schedule.ListWorkingDays(ctx)
	if err != nil {
		return err
	}
	templates, err := g.Schedule.ListTemplates(ctx, false)
	if err != nil {
		return err
	}
	windowEnd := now.AddDate(0, 0, g.WindowDays-1)
	existing, err := g.Slots.ListThrough(ctx, windowEnd)
	if err != nil {
		return err
	}
	pinned, err := g.Bookings.ReferencedSlotIDs(ctx)
	if err != nil {
		return err
	}

	plan := BuildPlan(now, g.WindowDays, templates, existing, pinned, NewPolicy(holidays, days))
	if plan.Empty() {
		return nil
	}

	if err := g.Slots.DeleteByIDs(ctx, plan.DeleteIDs); err != nil {
		return err
	}
	if err := g.Slots.CreateBulk(ctx, plan.Create); err != nil {
		return err
	}
	for status, ids := range plan.Refresh {
		if err := g.Slots.RefreshStatus(ctx, ids, status); err != nil {
			return err
		}
	}
	log.Printf("slot sweep: deleted=%d created=%d refreshed=%d",
		len(plan.DeleteIDs), len(plan.Create), refreshCount(plan))
	return nil
}

func refreshCount(p Plan) int {
	n := 0
	for _, ids := range p.Refresh {
		n += len(ids)
	}
	return n
}

// acquireLock takes the sweep lock. With Redis it is a SET NX PX advisory
// lock that survives the process; without Redis it degrades to an
// in-process mutex.
func (g *Generator) acquireLock(ctx context.Context) (func(), bool) {
	if g.Redis != nil {
		ok, err := g.Redis.SetNX(ctx, sweepLockKey, "1", sweepLockTTL).Result()
		if err != nil {
			// Redis down: fall through to the local mutex rather than
			// stalling sweeps entirely.
			log.Printf("slot sweep: redis lock unavailable: %v", err)
		} else if !ok {
			return nil, false
		} else {
			return func() { _ = g.Redis.Del(context.Background(), sweepLockKey).Err() }, true
		}
	}
	if !g.mu.TryLock() {
		return nil, false
	}
	return g.mu.Unlock, true
}

// Start launches the periodic sweep loop. It returns immediately; the
// loop stops when ctx is cancelled. One sweep is executed up front so the
// window is populated before the server accepts traffic.
func (g *Generator) Start(ctx context.Context, every time.Duration) {
	if err := g.Sweep(ctx); err != nil {
		log.Printf("slot sweep failed: %v", err)
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := g.Sweep(ctx); err != nil {
					log.Printf("slot sweep failed: %v", err)
				}
			}
		}
	}()
}
