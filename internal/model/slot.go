package model

import "time"

// Slot instance statuses. Transitions are driven only by the allocation
// engine, the booking lifecycle and the rolling generator sweep; a booked
// instance is never overwritten outside an explicit admin decision.
const (
	SlotAvailable = "available"
	SlotReserved  = "reserved"
	SlotBooked    = "booked"
	SlotBlocked   = "blocked"
	SlotExpired   = "expired"
)

// SlotInstance is the concrete bookable unit: one template materialized on
// one date. (TemplateID, Date) is unique. Reservation and booking actor
// fields are explicit optional columns, NULL when the slot is free.
type SlotInstance struct {
	ID              uint64     // slot_instances.id
	TemplateID      uint64     // slot_instances.template_id
	Date            time.Time  // slot_instances.slot_date (date only)
	Status          string     // slot_instances.status
	ReservedBy      *uint64    // slot_instances.reserved_by (nullable)
	ReservedUntil   *time.Time // slot_instances.reserved_until (nullable)
	BookedBy        *uint64    // slot_instances.booked_by (nullable)
	BookedServiceID *uint64    // slot_instances.booked_service_id (nullable)
}

// ReservationLive reports whether the instance holds a reservation whose
// grace period has not yet elapsed at the given instant.
func (s SlotInstance) ReservationLive(now time.Time) bool {
	return s.Status == SlotReserved && s.ReservedUntil != nil && s.ReservedUntil.After(now)
}
