package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestedBookingCanBeAccepted(t *testing.T) {
	booking := &Booking{Status: BookingStatusRequested}
	state := GetBookingState(booking.Status)

	require.NoError(t, state.Accept(booking))
	assert.Equal(t, BookingStatusConfirmed, booking.Status)
}

func TestRequestedBookingCanBeRejected(t *testing.T) {
	booking := &Booking{Status: BookingStatusRequested}
	state := GetBookingState(booking.Status)

	require.NoError(t, state.Reject(booking))
	assert.Equal(t, BookingStatusRejected, booking.Status)
}

func TestConfirmedBookingIsTerminal(t *testing.T) {
	booking := &Booking{Status: BookingStatusConfirmed}
	state := GetBookingState(booking.Status)

	assert.Error(t, state.Accept(booking))
	assert.Error(t, state.Reject(booking))
	assert.Equal(t, BookingStatusConfirmed, booking.Status)
}

func TestRejectedBookingIsTerminal(t *testing.T) {
	booking := &Booking{Status: BookingStatusRejected}
	state := GetBookingState(booking.Status)

	assert.Error(t, state.Accept(booking))
	assert.Error(t, state.Reject(booking))
	assert.Equal(t, BookingStatusRejected, booking.Status)
}

func TestUnknownStatusIsNotTransitionable(t *testing.T) {
	booking := &Booking{Status: 42}
	state := GetBookingState(booking.Status)

	assert.Error(t, state.Accept(booking))
	assert.Error(t, state.Reject(booking))
	assert.Equal(t, 42, booking.Status)
}
