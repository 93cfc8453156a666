package services

import (
	"context"
	"testing"
	"time"

	"stayserve/constants"
	"stayserve/dto"
	apperrors "stayserve/errors"
	"stayserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireOfflineType(t *testing.T) {
	// Only manual reactivation maps to "scheduled"; both timed options
	// collapse to "immediate".
	assert.Equal(t, constants.OfflineTypeScheduled, WireOfflineType(constants.ComeBackManual))
	assert.Equal(t, constants.OfflineTypeImmediate, WireOfflineType(constants.ComeBackFixedDelay))
	assert.Equal(t, constants.OfflineTypeImmediate, WireOfflineType(constants.ComeBackNextOpening))
}

func TestResolveComeBackManualHasNoTimestamp(t *testing.T) {
	at, err := ResolveComeBack(constants.ComeBackManual, 0, "", time.Now())
	require.NoError(t, err)
	assert.Nil(t, at)
}

func TestResolveComeBackFixedDelay(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	at, err := ResolveComeBack(constants.ComeBackFixedDelay, 90, "", now)
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.Equal(t, now.Add(90*time.Minute), *at)
}

func TestResolveComeBackNextOpeningToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.Local)
	at, err := ResolveComeBack(constants.ComeBackNextOpening, 0, "09:30", now)
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local), *at)
}

func TestResolveComeBackNextOpeningRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 11, 0, 0, 0, time.Local)
	at, err := ResolveComeBack(constants.ComeBackNextOpening, 0, "09:30", now)
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 30, 0, 0, time.Local), *at)
}

func TestResolveComeBackDefaultsOpeningTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 11, 0, 0, 0, time.Local)
	at, err := ResolveComeBack(constants.ComeBackNextOpening, 0, "", now)
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.Equal(t, time.Date(2026, 3, 11, 8, 0, 0, 0, time.Local), *at)
}

func TestResolveComeBackUnknownOption(t *testing.T) {
	_, err := ResolveComeBack("whenever", 0, "", time.Now())
	assert.Error(t, err)
}

func seedService(t *testing.T, svc *OfflineService, providerID uint, name string, status int) uint {
	t.Helper()
	service := models.Service{
		ProviderID: providerID,
		Name:       name,
		Status:     status,
	}
	require.NoError(t, svc.db.Create(&service).Error)
	return service.ID
}

func newOfflineService(t *testing.T) *OfflineService {
	t.Helper()
	return NewOfflineService(openTestDB(t), newMemCache(), testLogger())
}

func TestSelectableServicesOnlineOnly(t *testing.T) {
	svc := newOfflineService(t)
	onlineID := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)
	seedService(t, svc, 7, "Annapurna Tiffins", constants.ServiceStatusOffline)
	seedService(t, svc, 8, "Other Provider Hostel", constants.ServiceStatusOnline)

	result, err := svc.SelectableServices(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, onlineID, result[0].ID)
}

func TestSubmitMarksAllTargetsOffline(t *testing.T) {
	svc := newOfflineService(t)
	id1 := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)
	id2 := seedService(t, svc, 7, "Annapurna Tiffins", constants.ServiceStatusOnline)

	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	req := &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{id1, id2},
		Reason:         constants.OfflineReasonMaintenance,
		ComeBackOption: constants.ComeBackFixedDelay,
		DelayMinutes:   120,
	}
	require.NoError(t, svc.Submit(context.Background(), 7, req, now))

	for _, id := range []uint{id1, id2} {
		var service models.Service
		require.NoError(t, svc.db.First(&service, id).Error)
		assert.Equal(t, constants.ServiceStatusOffline, service.Status)
	}

	var periods []models.OfflinePeriod
	require.NoError(t, svc.db.Order("service_id").Find(&periods).Error)
	require.Len(t, periods, 2)
	for _, period := range periods {
		assert.Equal(t, constants.OfflineReasonMaintenance, period.Reason)
		assert.Equal(t, constants.OfflineTypeImmediate, period.OfflineType)
		require.NotNil(t, period.ComeBackAt)
		assert.Equal(t, now.Add(2*time.Hour).Unix(), period.ComeBackAt.Unix())
	}
}

func TestSubmitRejectsForeignService(t *testing.T) {
	svc := newOfflineService(t)
	mine := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)
	other := seedService(t, svc, 8, "Other Provider Hostel", constants.ServiceStatusOnline)

	req := &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{mine, other},
		Reason:         constants.OfflineReasonVacation,
		ComeBackOption: constants.ComeBackManual,
	}
	err := svc.Submit(context.Background(), 7, req, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)

	// Nothing changed: the batch is atomic
	var service models.Service
	require.NoError(t, svc.db.First(&service, mine).Error)
	assert.Equal(t, constants.ServiceStatusOnline, service.Status)
}

func TestSubmitRejectsAlreadyOfflineService(t *testing.T) {
	svc := newOfflineService(t)
	online := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)
	offline := seedService(t, svc, 7, "Annapurna Tiffins", constants.ServiceStatusOffline)

	req := &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{online, offline},
		Reason:         constants.OfflineReasonFullyBooked,
		ComeBackOption: constants.ComeBackManual,
	}
	err := svc.Submit(context.Background(), 7, req, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrServiceOffline)

	var service models.Service
	require.NoError(t, svc.db.First(&service, online).Error)
	assert.Equal(t, constants.ServiceStatusOnline, service.Status)
}

func TestSubmitDeduplicatesServiceIDs(t *testing.T) {
	svc := newOfflineService(t)
	id := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)

	req := &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{id, id},
		Reason:         constants.OfflineReasonMaintenance,
		ComeBackOption: constants.ComeBackManual,
	}
	require.NoError(t, svc.Submit(context.Background(), 7, req, time.Now()))

	var service models.Service
	require.NoError(t, svc.db.First(&service, id).Error)
	assert.Equal(t, constants.ServiceStatusOffline, service.Status)

	var count int64
	require.NoError(t, svc.db.Model(&models.OfflinePeriod{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitManualLeavesNoComeBackTime(t *testing.T) {
	svc := newOfflineService(t)
	id := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)

	req := &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{id},
		Reason:         constants.OfflineReasonVacation,
		ComeBackOption: constants.ComeBackManual,
	}
	require.NoError(t, svc.Submit(context.Background(), 7, req, time.Now()))

	var period models.OfflinePeriod
	require.NoError(t, svc.db.First(&period).Error)
	assert.Nil(t, period.ComeBackAt)
	assert.Equal(t, constants.OfflineTypeScheduled, period.OfflineType)
}

func TestReactivate(t *testing.T) {
	svc := newOfflineService(t)
	id := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)

	req := &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{id},
		Reason:         constants.OfflineReasonVacation,
		ComeBackOption: constants.ComeBackManual,
	}
	require.NoError(t, svc.Submit(context.Background(), 7, req, time.Now()))

	now := time.Now()
	require.NoError(t, svc.Reactivate(context.Background(), 7, id, now))

	var service models.Service
	require.NoError(t, svc.db.First(&service, id).Error)
	assert.Equal(t, constants.ServiceStatusOnline, service.Status)

	var period models.OfflinePeriod
	require.NoError(t, svc.db.First(&period).Error)
	require.NotNil(t, period.ReactivatedAt)
}

func TestReactivateRejectsOnlineService(t *testing.T) {
	svc := newOfflineService(t)
	id := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)

	err := svc.Reactivate(context.Background(), 7, id, time.Now())
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidOperation, appErr.Code)
}

func TestReactivateDue(t *testing.T) {
	svc := newOfflineService(t)
	dueID := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)
	manualID := seedService(t, svc, 7, "Annapurna Tiffins", constants.ServiceStatusOnline)

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	require.NoError(t, svc.Submit(context.Background(), 7, &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{dueID},
		Reason:         constants.OfflineReasonMaintenance,
		ComeBackOption: constants.ComeBackFixedDelay,
		DelayMinutes:   60,
	}, base))
	require.NoError(t, svc.Submit(context.Background(), 7, &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{manualID},
		Reason:         constants.OfflineReasonVacation,
		ComeBackOption: constants.ComeBackManual,
	}, base))

	count, err := svc.ReactivateDue(base.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var due models.Service
	require.NoError(t, svc.db.First(&due, dueID).Error)
	assert.Equal(t, constants.ServiceStatusOnline, due.Status)

	var manual models.Service
	require.NoError(t, svc.db.First(&manual, manualID).Error)
	assert.Equal(t, constants.ServiceStatusOffline, manual.Status)
}

func TestReactivateDueIsIdempotent(t *testing.T) {
	svc := newOfflineService(t)
	id := seedService(t, svc, 7, "Sunrise Boys Hostel", constants.ServiceStatusOnline)

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	require.NoError(t, svc.Submit(context.Background(), 7, &dto.OfflineScheduleRequest{
		ServiceIDs:     []uint{id},
		Reason:         constants.OfflineReasonMaintenance,
		ComeBackOption: constants.ComeBackFixedDelay,
		DelayMinutes:   30,
	}, base))

	count, err := svc.ReactivateDue(base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.ReactivateDue(base.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
