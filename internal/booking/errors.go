// Package booking implements the slot allocation engine and the booking
// lifecycle: checkout against a contiguous run of slot instances, admin
// accept/decline, cancellation and lazy completion. All slot transitions
// happen inside a single transaction holding row locks, acquired in
// ascending id order across every code path.
package booking

import "errors"

// ErrSlotNotFound is returned when the requested start slot instance does
// not exist. Handlers translate it into a 404.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotUnavailable is returned when a slot in the requested run is not
// in the available state. Exactly one of several concurrent checkouts
// over the same run succeeds; the rest observe this error.
var ErrSlotUnavailable = errors.New("slot not available")

// ErrInsufficientCapacity is returned when no contiguous run of templates
// starting at the requested slot covers the required duration.
var ErrInsufficientCapacity = errors.New("not enough consecutive slots available")

// ErrSlotSetIncomplete is returned when the computed template run has no
// materialized instance for every template on the requested date.
var ErrSlotSetIncomplete = errors.New("required slots are not all present")

// ErrCartEmpty is returned by checkout when neither explicit services nor
// cart lines are supplied.
var ErrCartEmpty = errors.New("no services provided and cart is empty")

// ErrInvalidTransition is returned when an admin decision or cancellation
// is not legal from the booking's current status.
var ErrInvalidTransition = errors.New("booking status does not allow this transition")
