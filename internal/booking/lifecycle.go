package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/santhokumarp/salonhub/internal/model"
	"github.com/santhokumarp/salonhub/internal/repository"
)

// Lifecycle drives booking status changes after checkout: admin accept
// and decline, customer cancellation and the lazy completion sweep.
// Declines and cancellations release the booking's slot run back to
// available inside the same transaction that rewrites the status.
type Lifecycle struct {
	Slots    *repository.SlotRepo
	Bookings *repository.BookingRepo
}

// Accept confirms a pending booking. The slots were already booked at
// checkout, so only the booking row changes.
func (lc *Lifecycle) Accept(ctx context.Context, bookingID uint64, note string) (model.Booking, error) {
	return lc.decide(ctx, bookingID, model.BookingConfirmed, note, false)
}

// Decline rejects a pending booking and frees its slot run.
func (lc *Lifecycle) Decline(ctx context.Context, bookingID uint64, note string) (model.Booking, error) {
	return lc.decide(ctx, bookingID, model.BookingDeclined, note, true)
}

func (lc *Lifecycle) decide(ctx context.Context, bookingID uint64, target, note string, release bool) (model.Booking, error) {
	tx, err := lc.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := lc.Bookings.GetByIDForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !model.CanTransitionBooking(b.Status, target) {
		return model.Booking{}, ErrInvalidTransition
	}
	if release {
		if err := lc.releaseRunTx(ctx, tx, b); err != nil {
			return model.Booking{}, err
		}
	}
	if err := lc.Bookings.UpdateStatusTx(ctx, tx, b.ID, target, note); err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true
	b.Status = target
	b.AdminNote = note
	return b, nil
}

// Cancel lets a customer (or an admin on their behalf) cancel a pending
// or confirmed booking, releasing its slot run.
func (lc *Lifecycle) Cancel(ctx context.Context, bookingID, actorID uint64, isAdmin bool) (model.Booking, error) {
	tx, err := lc.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := lc.Bookings.GetByIDForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !isAdmin && b.UserID != actorID {
		return model.Booking{}, repository.ErrForbidden
	}
	if !model.CanTransitionBooking(b.Status, model.BookingCancelled) {
		return model.Booking{}, ErrInvalidTransition
	}
	if err := lc.releaseRunTx(ctx, tx, b); err != nil {
		return model.Booking{}, err
	}
	if err := lc.Bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingCancelled, b.AdminNote); err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true
	b.Status = model.BookingCancelled
	return b, nil
}

// releaseRunTx returns every slot instance recorded for the booking at
// checkout to available. The run comes from booking_slots, not from the
// current template layout, so template edits between checkout and the
// decision cannot strand a booked instance.
func (lc *Lifecycle) releaseRunTx(ctx context.Context, tx *sql.Tx, b model.Booking) error {
	ids, err := lc.Bookings.SlotIDsByBookingTx(ctx, tx, b.ID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		ids = []uint64{b.StartSlotID}
	}
	run, err := lc.Slots.ListByIDsForUpdateTx(ctx, tx, ids)
	if err != nil {
		return err
	}
	return lc.Slots.ReleaseTx(ctx, tx, releasableIDs(run, b.UserID))
}

// releasableIDs filters the stored run down to the instances the booking's
// user still holds. An instance already released and rebooked by someone
// else stays untouched.
func releasableIDs(run []model.SlotInstance, userID uint64) []uint64 {
	ids := make([]uint64, 0, len(run))
	for _, s := range run {
		if heldBy(s, userID) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func heldBy(s model.SlotInstance, userID uint64) bool {
	return s.Status == model.SlotBooked && s.BookedBy != nil && *s.BookedBy == userID
}

// CompleteDue flips confirmed bookings whose slot window has passed to
// completed and returns how many changed. Called lazily before admin
// listings rather than from a dedicated timer.
func (lc *Lifecycle) CompleteDue(ctx context.Context, now time.Time) (int, error) {
	ids, err := lc.Bookings.ListConfirmedDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := lc.Bookings.MarkCompleted(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
