// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notification log lines.
package queue

// BookingDecisionEvent is published whenever a booking changes status
// outside of checkout: admin accept or decline, customer cancellation and
// lazy completion. It carries enough context for downstream consumers to
// notify the customer without querying the primary database.
type BookingDecisionEvent struct {
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	UserEmail       string `json:"user_email"`
	Status          string `json:"status"`
	AdminNote       string `json:"admin_note,omitempty"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	GrandTotalPaise int64  `json:"grand_total_paise"`
	DecidedAt       string `json:"decided_at"`
}
