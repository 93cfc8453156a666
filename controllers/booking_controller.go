package controllers

import (
	"stayserve/constants"
	"stayserve/response"
	"stayserve/services"

	"github.com/gin-gonic/gin"
)

// BookingController serves the status-partitioned booking views and the
// provider accept/reject actions.
type BookingController struct {
	svc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{svc: svc}
}

var bookingStatusNames = map[string]int{
	"requested": constants.BookingStatusRequested,
	"confirmed": constants.BookingStatusConfirmed,
	"rejected":  constants.BookingStatusRejected,
}

// GetBookings returns one status bucket. The status query parameter selects
// the bucket and defaults to requested.
func (ctl *BookingController) GetBookings(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	name := c.DefaultQuery("status", "requested")
	status, ok := bookingStatusNames[name]
	if !ok {
		response.BadRequest(c, "Status must be requested, confirmed or rejected")
		return
	}

	result, err := ctl.svc.ListByStatus(c.Request.Context(), providerID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// AcceptBooking confirms a requested booking
func (ctl *BookingController) AcceptBooking(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	bookingID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	booking, err := ctl.svc.Accept(c.Request.Context(), providerID, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"id": booking.ID, "status": booking.Status})
}

// RejectBooking declines a requested booking
func (ctl *BookingController) RejectBooking(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	bookingID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	booking, err := ctl.svc.Reject(c.Request.Context(), providerID, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"id": booking.ID, "status": booking.Status})
}

// GetBookingCalendar returns the month overview of confirmed bookings for one
// service. The date query parameter uses the mm/yyyy format.
func (ctl *BookingController) GetBookingCalendar(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	serviceID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, "Date query parameter is required")
		return
	}

	days, err := ctl.svc.Calendar(c.Request.Context(), providerID, serviceID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, days)
}
