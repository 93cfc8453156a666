package models

import (
	"time"
)

// Booking status constants
const (
	BookingStatusRequested = 0
	BookingStatusConfirmed = 1
	BookingStatusRejected  = 2
)

type Booking struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ServiceID  uint      `json:"serviceId"`
	Service    Service   `json:"service" gorm:"foreignKey:ServiceID"`
	GuestName  string    `json:"guestName"`
	GuestPhone string    `json:"guestPhone"`
	GuestEmail string    `json:"guestEmail,omitempty"`
	Plan       string    `json:"plan"` // daily | weekly | monthly
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Persons    int       `json:"persons"`
	Amount     int       `json:"amount"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
