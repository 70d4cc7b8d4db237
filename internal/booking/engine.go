package booking

import (
	"context"
	"database/sql"

	"github.com/santhokumarp/salonhub/internal/model"
	"github.com/santhokumarp/salonhub/internal/repository"
)

// Engine runs checkout: it resolves the contiguous slot run covering the
// requested services, transitions the run to booked and records the
// booking with its billing snapshot, all in one transaction.
type Engine struct {
	Slots      *repository.SlotRepo
	Schedule   *repository.ScheduleRepo
	Bookings   *repository.BookingRepo
	Cart       *repository.CartRepo
	TaxPercent int
}

// CheckoutResult is what the engine hands back to the handler: the
// persisted booking plus the slot window it occupies.
type CheckoutResult struct {
	Booking   model.Booking
	Lines     []model.BookingLine
	SlotIDs   []uint64
	Date      string
	StartTime string
	EndTime   string
}

// Checkout books the run of slots starting at startSlotID for the given
// lines. When lines is empty the user's cart is read inside the
// transaction, snapshotted and cleared. Row locks are taken on the start
// instance first and then on the whole run in ascending id order.
func (e *Engine) Checkout(ctx context.Context, userID, startSlotID uint64, lines []model.BookingLine) (CheckoutResult, error) {
	tx, err := e.Slots.DB().BeginTx(ctx, nil)
	if err != nil {
		return CheckoutResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	start, err := e.Slots.GetByIDForUpdateTx(ctx, tx, startSlotID)
	if err == sql.ErrNoRows {
		return CheckoutResult{}, ErrSlotNotFound
	}
	if err != nil {
		return CheckoutResult{}, err
	}
	if start.Status != model.SlotAvailable {
		return CheckoutResult{}, ErrSlotUnavailable
	}

	fromCart := len(lines) == 0
	if fromCart {
		cartLines, err := e.Cart.ListByUserTx(ctx, tx, userID)
		if err != nil {
			return CheckoutResult{}, err
		}
		for _, cl := range cartLines {
			lines = append(lines, model.BookingLine{
				ServiceID:   cl.ServiceID,
				ServiceName: cl.ServiceName,
				PricePaise:  cl.PricePaise,
				DurationMin: cl.DurationMin,
				Quantity:    cl.Quantity,
			})
		}
	}
	if len(lines) == 0 {
		return CheckoutResult{}, ErrCartEmpty
	}

	templates, err := e.Schedule.ListTemplates(ctx, true)
	if err != nil {
		return CheckoutResult{}, err
	}
	required := RequiredMinutes(lines)
	runIDs, ok := FindContiguousRun(templates, start.TemplateID, required)
	if !ok {
		return CheckoutResult{}, ErrInsufficientCapacity
	}

	run, err := e.Slots.ListByTemplatesAndDateForUpdateTx(ctx, tx, runIDs, start.Date)
	if err != nil {
		return CheckoutResult{}, err
	}
	if len(run) != len(runIDs) {
		return CheckoutResult{}, ErrSlotSetIncomplete
	}
	slotIDs := make([]uint64, 0, len(run))
	for _, s := range run {
		if s.Status != model.SlotAvailable {
			return CheckoutResult{}, ErrSlotUnavailable
		}
		slotIDs = append(slotIDs, s.ID)
	}

	if err := e.Slots.MarkBookedTx(ctx, tx, slotIDs, userID, lines[0].ServiceID); err != nil {
		return CheckoutResult{}, err
	}

	totals := ComputeTotals(lines, e.TaxPercent)
	b := model.Booking{
		UserID:          userID,
		StartSlotID:     startSlotID,
		Status:          model.BookingPending,
		BaseTotalPaise:  totals.BasePaise,
		TaxPercent:      totals.TaxPercent,
		TaxAmountPaise:  totals.TaxPaise,
		GrandTotalPaise: totals.GrandPaise,
	}
	if err := e.Bookings.CreateTx(ctx, tx, &b); err != nil {
		return CheckoutResult{}, err
	}
	if err := e.Bookings.CreateSlotLinksTx(ctx, tx, b.ID, slotIDs); err != nil {
		return CheckoutResult{}, err
	}
	for i := range lines {
		lines[i].BookingID = b.ID
	}
	if err := e.Bookings.CreateLinesBulkTx(ctx, tx, lines); err != nil {
		return CheckoutResult{}, err
	}
	if fromCart {
		if err := e.Cart.ClearTx(ctx, tx, userID); err != nil {
			return CheckoutResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return CheckoutResult{}, err
	}
	committed = true

	res := CheckoutResult{
		Booking: b,
		Lines:   lines,
		SlotIDs: slotIDs,
		Date:    model.DateKey(start.Date),
	}
	res.StartTime, res.EndTime = runWindow(templates, runIDs)
	return res, nil
}

// runWindow returns the wall-clock window spanned by the run: the first
// template's start time and the last template's end time.
func runWindow(templates []model.SlotTemplate, runIDs []uint64) (string, string) {
	if len(runIDs) == 0 {
		return "", ""
	}
	byID := make(map[uint64]model.SlotTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}
	first, last := byID[runIDs[0]], byID[runIDs[len(runIDs)-1]]
	return first.StartTime, last.EndTime
}
