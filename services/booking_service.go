package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayserve/constants"
	"stayserve/dto"
	apperrors "stayserve/errors"
	"stayserve/models"
	"stayserve/services/logger"
	"stayserve/services/notification"

	"gorm.io/gorm"
)

// BookingService serves the status-partitioned booking views and runs the
// provider-triggered transitions.
type BookingService struct {
	db       *gorm.DB
	cache    Cache
	notifier notification.Service
	log      logger.Logger
}

func NewBookingService(db *gorm.DB, cache Cache, notifier notification.Service, log logger.Logger) *BookingService {
	return &BookingService{
		db:       db,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

func bookingBucketKey(providerID uint, status int) string {
	return fmt.Sprintf("bookings:provider:%d:status:%d", providerID, status)
}

// ListByStatus returns one status bucket. Each bucket is an independent query
// (and cache entry), not a client-side filter over a unified list.
func (s *BookingService) ListByStatus(ctx context.Context, providerID uint, status int) ([]dto.BookingResponse, error) {
	cacheKey := bookingBucketKey(providerID, status)

	var cached []dto.BookingResponse
	if found, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	var bookings []models.Booking
	err := s.db.Preload("Service").
		Joins("JOIN services ON services.id = bookings.service_id").
		Where("services.provider_id = ? AND bookings.status = ?", providerID, status).
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot list bookings", err)
	}

	result := make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, bookingResponse(&b))
	}

	if err := s.cache.SetJSON(ctx, cacheKey, result, 5*time.Minute); err != nil {
		s.log.Error("failed to cache booking bucket %s: %v", cacheKey, err)
	}
	return result, nil
}

// Accept confirms a requested booking
func (s *BookingService) Accept(ctx context.Context, providerID, bookingID uint) (*models.Booking, error) {
	return s.transition(ctx, providerID, bookingID, constants.BookingStatusConfirmed)
}

// Reject declines a requested booking
func (s *BookingService) Reject(ctx context.Context, providerID, bookingID uint) (*models.Booking, error) {
	return s.transition(ctx, providerID, bookingID, constants.BookingStatusRejected)
}

// transition applies one provider action through the state machine. A failed
// update leaves the booking in its previous status; an illegal transition is a
// precondition violation surfaced to the caller, never silently accepted.
func (s *BookingService) transition(ctx context.Context, providerID, bookingID uint, target int) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Service").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load booking", err)
	}
	if booking.Service.ProviderID != providerID {
		return nil, apperrors.ErrNotOwner
	}

	state := models.GetBookingState(booking.Status)

	var err error
	switch target {
	case constants.BookingStatusConfirmed:
		err = state.Accept(&booking)
	case constants.BookingStatusRejected:
		err = state.Reject(&booking)
	default:
		err = fmt.Errorf("unsupported target status %d", target)
	}
	if err != nil {
		cause := err
		if booking.Status == constants.BookingStatusConfirmed || booking.Status == constants.BookingStatusRejected {
			cause = apperrors.ErrBookingNotRequested
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidTransition, err.Error(), cause)
	}

	if err := s.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", booking.Status).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot update booking status", err)
	}

	s.invalidateBuckets(ctx, providerID)
	s.notify(booking.ID, booking.Status)

	return &booking, nil
}

// Calendar builds the month overview of confirmed bookings for one service.
// The date parameter uses the mm/yyyy format.
func (s *BookingService) Calendar(ctx context.Context, providerID, serviceID uint, date string) ([]dto.CalendarDay, error) {
	var service models.Service
	if err := s.db.First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load service", err)
	}
	if service.ProviderID != providerID {
		return nil, apperrors.ErrNotOwner
	}

	parsed, err := time.Parse("01/2006", date)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Date must use the mm/yyyy format", err)
	}

	firstDay := time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.Local)
	lastDay := firstDay.AddDate(0, 1, -1)

	var bookings []models.Booking
	if err := s.db.Where("service_id = ? AND status = ?", serviceID, constants.BookingStatusConfirmed).
		Find(&bookings).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot list bookings", err)
	}

	dateFormat := "02/01/2006"
	counts := make(map[string]int)
	guests := make(map[string]map[string]string)

	for _, b := range bookings {
		start, err := time.Parse(dateFormat, b.StartDate)
		if err != nil {
			s.log.Error("booking %d has invalid start date %q", b.ID, b.StartDate)
			continue
		}
		end, err := time.Parse(dateFormat, b.EndDate)
		if err != nil {
			s.log.Error("booking %d has invalid end date %q", b.ID, b.EndDate)
			continue
		}

		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			key := day.Format(dateFormat)
			counts[key]++
			if _, exists := guests[key]; !exists {
				guests[key] = map[string]string{
					"guest_name":  b.GuestName,
					"guest_phone": b.GuestPhone,
				}
			}
		}
	}

	var days []dto.CalendarDay
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateFormat)
		days = append(days, dto.CalendarDay{
			Date:  key,
			Count: counts[key],
			Guest: guests[key],
		})
	}

	return days, nil
}

func (s *BookingService) invalidateBuckets(ctx context.Context, providerID uint) {
	keys := []string{
		bookingBucketKey(providerID, constants.BookingStatusRequested),
		bookingBucketKey(providerID, constants.BookingStatusConfirmed),
		bookingBucketKey(providerID, constants.BookingStatusRejected),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Error("failed to invalidate booking buckets for provider %d: %v", providerID, err)
	}
}

func (s *BookingService) notify(bookingID uint, status int) {
	if s.notifier == nil {
		return
	}
	label := "requested"
	switch status {
	case constants.BookingStatusConfirmed:
		label = "confirmed"
	case constants.BookingStatusRejected:
		label = "rejected"
	}
	message := notification.NewBookingMessageBuilder(bookingID, label).Build()
	if err := s.notifier.SendMessage(message); err != nil {
		s.log.Error("failed to broadcast booking update: %v", err)
	}
}

func bookingResponse(b *models.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:          b.ID,
		ServiceID:   b.ServiceID,
		ServiceName: b.Service.Name,
		GuestName:   b.GuestName,
		GuestPhone:  b.GuestPhone,
		GuestEmail:  b.GuestEmail,
		Plan:        b.Plan,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		Persons:     b.Persons,
		Amount:      b.Amount,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
	}
}
