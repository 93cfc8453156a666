package services

import (
	"context"
	"fmt"
	"time"

	"stayserve/constants"
	"stayserve/dto"
	apperrors "stayserve/errors"
	"stayserve/models"
	"stayserve/services/logger"
	"stayserve/validator"

	"gorm.io/gorm"
)

// defaultOpeningTime is assumed when a service never set one
const defaultOpeningTime = "08:00"

// OfflineService runs the offline-availability scheduler: one batched submit
// marks the selected services offline, the cron job brings them back when
// their come-back time elapses.
type OfflineService struct {
	db    *gorm.DB
	cache Cache
	log   logger.Logger
}

func NewOfflineService(db *gorm.DB, cache Cache, log logger.Logger) *OfflineService {
	return &OfflineService{
		db:    db,
		cache: cache,
		log:   log,
	}
}

// WireOfflineType collapses the come-back options to the two-valued wire enum.
// The backend contract only distinguishes manual reactivation ("scheduled")
// from everything else ("immediate"); the concrete delay is not part of the
// wire value. Known contract limitation, kept as-is.
func WireOfflineType(option string) string {
	if option == constants.ComeBackManual {
		return constants.OfflineTypeScheduled
	}
	return constants.OfflineTypeImmediate
}

// ResolveComeBack computes the concrete return timestamp for a come-back
// option. untilManualReactivation has none and yields nil.
func ResolveComeBack(option string, delayMinutes int, openingTime string, now time.Time) (*time.Time, error) {
	switch option {
	case constants.ComeBackManual:
		return nil, nil
	case constants.ComeBackFixedDelay:
		at := now.Add(time.Duration(delayMinutes) * time.Minute)
		return &at, nil
	case constants.ComeBackNextOpening:
		if openingTime == "" {
			openingTime = defaultOpeningTime
		}
		parsed, err := time.Parse("15:04", openingTime)
		if err != nil {
			return nil, fmt.Errorf("invalid opening time %q: %w", openingTime, err)
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return &at, nil
	default:
		return nil, fmt.Errorf("unknown come-back option %q", option)
	}
}

// SelectableServices returns the services eligible for the offline modal:
// only currently-online services owned by the provider.
func (s *OfflineService) SelectableServices(ctx context.Context, providerID uint) ([]dto.OnlineServiceResponse, error) {
	var services []models.Service
	if err := s.db.Where("provider_id = ? AND status = ?", providerID, constants.ServiceStatusOnline).
		Order("name").Find(&services).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot list online services", err)
	}

	result := make([]dto.OnlineServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, dto.OnlineServiceResponse{
			ID:   svc.ID,
			Name: svc.Name,
			Type: svc.Type,
			Area: svc.Area,
		})
	}
	return result, nil
}

// Submit applies one batched offline request: every target goes offline with
// an OfflinePeriod row, in a single transaction, or nothing changes.
func (s *OfflineService) Submit(ctx context.Context, providerID uint, req *dto.OfflineScheduleRequest, now time.Time) error {
	if err := validator.ValidateOfflineSchedule(req); err != nil {
		return err
	}

	// A service named twice goes offline once
	ids := make([]uint, 0, len(req.ServiceIDs))
	seen := make(map[uint]bool, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var services []models.Service
		if err := tx.Where("id IN ? AND provider_id = ?", ids, providerID).
			Find(&services).Error; err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load services", err)
		}
		if len(services) != len(ids) {
			return apperrors.ErrServiceNotFound
		}

		for i := range services {
			if services[i].Status != constants.ServiceStatusOnline {
				return apperrors.ErrServiceOffline
			}
		}

		for i := range services {
			comeBackAt, err := ResolveComeBack(req.ComeBackOption, req.DelayMinutes, services[i].OpeningTime, now)
			if err != nil {
				return apperrors.NewAppError(apperrors.ErrCodeValidation, err.Error(), err)
			}

			period := models.OfflinePeriod{
				ServiceID:      services[i].ID,
				Reason:         req.Reason,
				OfflineType:    WireOfflineType(req.ComeBackOption),
				ComeBackOption: req.ComeBackOption,
				ComeBackAt:     comeBackAt,
			}
			if err := tx.Create(&period).Error; err != nil {
				return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot record offline period", err)
			}

			if err := tx.Model(&models.Service{}).Where("id = ?", services[i].ID).
				Update("status", constants.ServiceStatusOffline).Error; err != nil {
				return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot mark service offline", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, providerID)
	return nil
}

// Reactivate brings one offline service back online on provider request
func (s *OfflineService) Reactivate(ctx context.Context, providerID, serviceID uint, now time.Time) error {
	var service models.Service
	if err := s.db.First(&service, serviceID).Error; err != nil {
		return apperrors.ErrServiceNotFound
	}
	if service.ProviderID != providerID {
		return apperrors.ErrNotOwner
	}
	if service.Status != constants.ServiceStatusOffline {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "Service is not offline", nil)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Service{}).Where("id = ?", serviceID).
			Update("status", constants.ServiceStatusOnline).Error; err != nil {
			return err
		}
		return tx.Model(&models.OfflinePeriod{}).
			Where("service_id = ? AND reactivated_at IS NULL", serviceID).
			Update("reactivated_at", now).Error
	})
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot reactivate service", err)
	}

	s.invalidate(ctx, providerID)
	return nil
}

// ReactivateDue flips services back online once their come-back time has
// elapsed. Periods without a come-back time (manual reactivation) are never
// touched. Returns how many services came back.
func (s *OfflineService) ReactivateDue(now time.Time) (int, error) {
	var due []models.OfflinePeriod
	if err := s.db.Where("come_back_at IS NOT NULL AND come_back_at <= ? AND reactivated_at IS NULL", now).
		Find(&due).Error; err != nil {
		return 0, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot list due offline periods", err)
	}

	count := 0
	for _, period := range due {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Service{}).Where("id = ?", period.ServiceID).
				Update("status", constants.ServiceStatusOnline).Error; err != nil {
				return err
			}
			return tx.Model(&models.OfflinePeriod{}).Where("id = ?", period.ID).
				Update("reactivated_at", now).Error
		})
		if err != nil {
			s.log.Error("failed to reactivate service %d: %v", period.ServiceID, err)
			continue
		}
		count++
	}

	if count > 0 {
		s.invalidateAll()
	}
	return count, nil
}

func (s *OfflineService) invalidate(ctx context.Context, providerID uint) {
	if err := s.cache.Delete(ctx, providerServicesKey(providerID)); err != nil {
		s.log.Error("failed to invalidate service cache for provider %d: %v", providerID, err)
	}
}

// invalidateAll is used by the cron path where the provider set is unknown;
// provider caches expire by TTL instead.
func (s *OfflineService) invalidateAll() {
	s.log.Info("offline reactivation ran, provider caches will refresh on TTL")
}
