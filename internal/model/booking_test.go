package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingDeclined, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingDeclined, false},
		{BookingConfirmed, BookingPending, false},
		{BookingDeclined, BookingConfirmed, false},
		{BookingCancelled, BookingPending, false},
		{BookingCompleted, BookingCancelled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransitionBooking(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingTerminal(t *testing.T) {
	assert.False(t, BookingTerminal(BookingPending))
	assert.False(t, BookingTerminal(BookingConfirmed))
	assert.True(t, BookingTerminal(BookingDeclined))
	assert.True(t, BookingTerminal(BookingCancelled))
	assert.True(t, BookingTerminal(BookingCompleted))
}
