package models

import (
	"errors"
	"fmt"
)

// BookingState defines the provider-triggered transitions for one booking
// status. Requested is the only state with legal transitions; Confirmed and
// Rejected are terminal for provider action.
type BookingState interface {
	Accept(booking *Booking) error
	Reject(booking *Booking) error
}

// RequestedState: waiting on the provider
type RequestedState struct{}

func (s *RequestedState) Accept(booking *Booking) error {
	booking.Status = BookingStatusConfirmed
	return nil
}

func (s *RequestedState) Reject(booking *Booking) error {
	booking.Status = BookingStatusRejected
	return nil
}

// ConfirmedState: terminal
type ConfirmedState struct{}

func (s *ConfirmedState) Accept(booking *Booking) error {
	return errors.New("booking already confirmed")
}

func (s *ConfirmedState) Reject(booking *Booking) error {
	return errors.New("cannot reject a confirmed booking")
}

// RejectedState: terminal
type RejectedState struct{}

func (s *RejectedState) Accept(booking *Booking) error {
	return errors.New("cannot confirm a rejected booking")
}

func (s *RejectedState) Reject(booking *Booking) error {
	return errors.New("booking already rejected")
}

// UnknownState rejects every transition; a booking whose stored status is
// outside the known set must never become transitionable.
type UnknownState struct {
	status int
}

func (s *UnknownState) Accept(booking *Booking) error {
	return fmt.Errorf("unknown booking status %d", s.status)
}

func (s *UnknownState) Reject(booking *Booking) error {
	return fmt.Errorf("unknown booking status %d", s.status)
}

// GetBookingState returns the state for a booking status
func GetBookingState(status int) BookingState {
	switch status {
	case BookingStatusRequested:
		return &RequestedState{}
	case BookingStatusConfirmed:
		return &ConfirmedState{}
	case BookingStatusRejected:
		return &RejectedState{}
	default:
		return &UnknownState{status: status}
	}
}
