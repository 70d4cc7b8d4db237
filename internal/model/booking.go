package model

import "time"

// Booking statuses. A booking is never deleted; terminal states are
// represented as statuses so history survives.
const (
	BookingPending   = "pending"   // created at checkout, awaiting admin decision
	BookingConfirmed = "confirmed" // admin accepted
	BookingDeclined  = "declined"  // admin rejected, slots released
	BookingCancelled = "cancelled" // user or admin cancelled, slots released
	BookingCompleted = "completed" // confirmed and the slot end time has elapsed
)

// bookingTransitions lists the legal status moves of the lifecycle state
// machine. declined, cancelled and completed are terminal.
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingDeclined, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransitionBooking reports whether moving a booking from one status to
// another is legal.
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookingTerminal reports whether a status admits no further transitions.
func BookingTerminal(status string) bool {
	return len(bookingTransitions[status]) == 0
}

// Booking is the aggregate root created by checkout. StartSlotID points at
// the first slot instance of the allocated contiguous run; the full run is
// recomputed from the line durations when the booking is finalized or
// reversed. Billing totals are stored in paise and snapshot the tax rate,
// so later rate changes never alter historic bookings.
type Booking struct {
	ID              uint64    // bookings.id
	UserID          uint64    // bookings.user_id
	StartSlotID     uint64    // bookings.start_slot_id
	Status          string    // bookings.status
	AdminNote       string    // bookings.admin_note
	BaseTotalPaise  int64     // bookings.base_total_paise
	TaxPercent      int       // bookings.tax_percent
	TaxAmountPaise  int64     // bookings.tax_amount_paise
	GrandTotalPaise int64     // bookings.grand_total_paise
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}

// BookingLine snapshots one service at booking time. Price, name and
// duration are copied from the catalog row so later catalog edits do not
// rewrite history.
type BookingLine struct {
	ID          uint64 // booking_lines.id
	BookingID   uint64 // booking_lines.booking_id
	ServiceID   uint64 // booking_lines.service_id
	ServiceName string // booking_lines.service_name
	PricePaise  int64  // booking_lines.price_paise
	DurationMin int    // booking_lines.duration_min
	Quantity    int    // booking_lines.quantity
}
