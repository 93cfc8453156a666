package dto

import "time"

// BookingResponse is the provider-facing read model for one booking.
type BookingResponse struct {
	ID          uint      `json:"id"`
	ServiceID   uint      `json:"serviceId"`
	ServiceName string    `json:"serviceName"`
	GuestName   string    `json:"guestName"`
	GuestPhone  string    `json:"guestPhone"`
	GuestEmail  string    `json:"guestEmail,omitempty"`
	Plan        string    `json:"plan"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Persons     int       `json:"persons"`
	Amount      int       `json:"amount"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CalendarDay is one day of the monthly booking overview for a service.
type CalendarDay struct {
	Date  string            `json:"date"`
	Count int               `json:"count"`
	Guest map[string]string `json:"guest,omitempty"`
}
