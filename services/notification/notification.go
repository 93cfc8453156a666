package notification

import (
	"fmt"

	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// BookingMessageBuilder builds the broadcast text for a booking transition
type BookingMessageBuilder struct {
	bookingID uint
	status    string
}

func NewBookingMessageBuilder(bookingID uint, status string) *BookingMessageBuilder {
	return &BookingMessageBuilder{
		bookingID: bookingID,
		status:    status,
	}
}

func (b *BookingMessageBuilder) Build() string {
	return fmt.Sprintf("Booking %d is now %s", b.bookingID, b.status)
}
