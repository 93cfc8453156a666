package services

import (
	"context"
	"testing"

	"stayserve/constants"
	apperrors "stayserve/errors"
	"stayserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffPhotosRemoveOneExisting(t *testing.T) {
	original := ExistingRefs([]string{"u1", "u2", "u3"})
	current := ExistingRefs([]string{"u1", "u3"})

	diff := DiffPhotos(original, current)

	assert.Empty(t, diff.ToUpload)
	assert.Equal(t, []string{"u2"}, diff.ToDelete)
}

func TestDiffPhotosAddOneNew(t *testing.T) {
	original := ExistingRefs([]string{"u1", "u2", "u3"})
	current := append(ExistingRefs([]string{"u1", "u2", "u3"}), models.NewPhoto("fresh.jpg"))

	diff := DiffPhotos(original, current)

	assert.Empty(t, diff.ToDelete)
	require.Len(t, diff.ToUpload, 1)
	assert.Equal(t, models.PhotoNew, diff.ToUpload[0].Origin)
	assert.Equal(t, "fresh.jpg", diff.ToUpload[0].Handle)
}

func TestDiffPhotosScopedPerEntity(t *testing.T) {
	// Two rooms with three photos each. Removing one from room A and adding
	// one to room B must never cross-contaminate the diffs.
	roomA := ExistingRefs([]string{"a1", "a2", "a3"})
	roomB := ExistingRefs([]string{"b1", "b2", "b3"})

	diffA := DiffPhotos(roomA, ExistingRefs([]string{"a1", "a3"}))
	diffB := DiffPhotos(roomB, append(ExistingRefs([]string{"b1", "b2", "b3"}), models.NewPhoto("b-new.jpg")))

	assert.Equal(t, []string{"a2"}, diffA.ToDelete)
	assert.Empty(t, diffA.ToUpload)

	assert.Empty(t, diffB.ToDelete)
	require.Len(t, diffB.ToUpload, 1)
	assert.Equal(t, "b-new.jpg", diffB.ToUpload[0].Handle)
}

func TestDiffPhotosMixedChanges(t *testing.T) {
	original := ExistingRefs([]string{"keep", "drop1", "drop2"})
	current := []models.PhotoRef{
		models.ExistingPhoto("keep"),
		models.NewPhoto("n1"),
		models.NewPhoto("n2"),
	}

	diff := DiffPhotos(original, current)

	assert.Equal(t, []string{"drop1", "drop2"}, diff.ToDelete)
	require.Len(t, diff.ToUpload, 2)
	assert.Equal(t, "n1", diff.ToUpload[0].Handle)
	assert.Equal(t, "n2", diff.ToUpload[1].Handle)
}

func TestDiffPhotosEmptySets(t *testing.T) {
	diff := DiffPhotos(nil, nil)
	assert.Empty(t, diff.ToUpload)
	assert.Empty(t, diff.ToDelete)
}

func TestClassifyPhoto(t *testing.T) {
	assert.Equal(t, models.PhotoExisting, ClassifyPhoto(models.ExistingPhoto("u")))
	assert.Equal(t, models.PhotoNew, ClassifyPhoto(models.NewPhoto("h")))
}

func TestDeleteServicePhotos(t *testing.T) {
	db := openTestDB(t)
	uploader := newFakeUploader()
	reconciler := NewPhotoReconciler(db, uploader)

	service := models.Service{
		ProviderID: 7,
		Name:       "Annapurna Tiffins",
		Status:     constants.ServiceStatusOnline,
		Photos:     encodeJSON(t, []string{"u1", "u2", "u3"}),
	}
	require.NoError(t, db.Create(&service).Error)

	err := reconciler.DeleteServicePhotos(context.Background(), 7, service.ID, []string{"u2"})
	require.NoError(t, err)

	var reloaded models.Service
	require.NoError(t, db.First(&reloaded, service.ID).Error)
	urls, err := reloaded.PhotoURLs()
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3"}, urls)
	assert.Equal(t, []string{"u2"}, uploader.destroyed)
}

func TestDeleteServicePhotosRequiresOwnership(t *testing.T) {
	db := openTestDB(t)
	reconciler := NewPhotoReconciler(db, newFakeUploader())

	service := models.Service{
		ProviderID: 7,
		Name:       "Annapurna Tiffins",
		Status:     constants.ServiceStatusOnline,
		Photos:     encodeJSON(t, []string{"u1"}),
	}
	require.NoError(t, db.Create(&service).Error)

	err := reconciler.DeleteServicePhotos(context.Background(), 99, service.ID, []string{"u1"})
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
}

func TestDeleteServicePhotosKeepsURLOnDestroyFailure(t *testing.T) {
	db := openTestDB(t)
	uploader := newFakeUploader()
	uploader.destroyErr["u2"] = errDestroy
	reconciler := NewPhotoReconciler(db, uploader)

	service := models.Service{
		ProviderID: 7,
		Name:       "Annapurna Tiffins",
		Status:     constants.ServiceStatusOnline,
		Photos:     encodeJSON(t, []string{"u1", "u2", "u3"}),
	}
	require.NoError(t, db.Create(&service).Error)

	err := reconciler.DeleteServicePhotos(context.Background(), 7, service.ID, []string{"u1", "u2", "u3"})
	require.Error(t, err)

	// u1 was destroyed before the failure and is gone; u2 failed and stays;
	// u3 was never attempted and stays.
	var reloaded models.Service
	require.NoError(t, db.First(&reloaded, service.ID).Error)
	urls, err2 := reloaded.PhotoURLs()
	require.NoError(t, err2)
	assert.Equal(t, []string{"u2", "u3"}, urls)
}

func TestDeleteRoomPhotos(t *testing.T) {
	db := openTestDB(t)
	uploader := newFakeUploader()
	reconciler := NewPhotoReconciler(db, uploader)

	service := models.Service{
		ProviderID: 7,
		Name:       "Sunrise Boys Hostel",
		Status:     constants.ServiceStatusOnline,
	}
	require.NoError(t, db.Create(&service).Error)

	room := models.Room{
		ServiceID: service.ID,
		RoomNo:    "101",
		Beds:      3,
		Photos:    encodeJSON(t, []string{"r1", "r2"}),
	}
	require.NoError(t, db.Create(&room).Error)

	err := reconciler.DeleteRoomPhotos(context.Background(), 7, service.ID, room.RoomID, []string{"r1"})
	require.NoError(t, err)

	var reloaded models.Room
	require.NoError(t, db.First(&reloaded, room.RoomID).Error)
	urls, err := reloaded.PhotoURLs()
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, urls)
}

func TestDeleteRoomPhotosUnknownRoom(t *testing.T) {
	db := openTestDB(t)
	reconciler := NewPhotoReconciler(db, newFakeUploader())

	service := models.Service{
		ProviderID: 7,
		Name:       "Sunrise Boys Hostel",
		Status:     constants.ServiceStatusOnline,
	}
	require.NoError(t, db.Create(&service).Error)

	err := reconciler.DeleteRoomPhotos(context.Background(), 7, service.ID, 12345, []string{"r1"})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeDBNotFound, appErr.Code)
}
