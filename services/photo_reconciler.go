package services

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "stayserve/errors"
	"stayserve/models"

	"gorm.io/gorm"
)

// PhotoDiff is the minimal set of operations that moves server state to match
// the local draft for one owning entity (the service itself or a single room).
type PhotoDiff struct {
	ToUpload []models.PhotoRef
	ToDelete []string
}

// ClassifyPhoto returns the origin of a photo reference
func ClassifyPhoto(p models.PhotoRef) models.PhotoOrigin {
	return p.Origin
}

// DiffPhotos computes the delta between the hydrated photo set and the current
// draft set. ToUpload is every new-origin photo remaining in current; ToDelete
// is every existing URL present in original and absent from current. Order is
// preserved on both sides.
func DiffPhotos(original, current []models.PhotoRef) PhotoDiff {
	var diff PhotoDiff

	kept := make(map[string]bool)
	for _, p := range current {
		if p.Origin == models.PhotoExisting {
			kept[p.URL] = true
		} else {
			diff.ToUpload = append(diff.ToUpload, p)
		}
	}

	for _, p := range original {
		if p.Origin == models.PhotoExisting && !kept[p.URL] {
			diff.ToDelete = append(diff.ToDelete, p.URL)
		}
	}

	return diff
}

// ExistingRefs wraps persisted URLs as existing-origin photo references
func ExistingRefs(urls []string) []models.PhotoRef {
	refs := make([]models.PhotoRef, 0, len(urls))
	for _, u := range urls {
		refs = append(refs, models.ExistingPhoto(u))
	}
	return refs
}

// PhotoReconciler applies explicit remote deletes scoped to the owning entity.
// A delete is never optimistic: the remote destroy must succeed before the
// stored list loses the URL, so a failed call leaves the photo visible.
type PhotoReconciler struct {
	db       *gorm.DB
	uploader Uploader
}

func NewPhotoReconciler(db *gorm.DB, uploader Uploader) *PhotoReconciler {
	return &PhotoReconciler{db: db, uploader: uploader}
}

// DeleteServicePhotos removes service-level photos
func (r *PhotoReconciler) DeleteServicePhotos(ctx context.Context, providerID, serviceID uint, urls []string) error {
	var service models.Service
	if err := r.db.First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrServiceNotFound
		}
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load service", err)
	}
	if service.ProviderID != providerID {
		return apperrors.ErrNotOwner
	}

	stored, err := service.PhotoURLs()
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
	}

	remaining, destroyErr := r.destroy(ctx, stored, urls)
	if saveErr := r.savePhotoColumn(&models.Service{}, "id", serviceID, remaining); saveErr != nil {
		return saveErr
	}
	return destroyErr
}

// DeleteRoomPhotos removes photos of one room of a service
func (r *PhotoReconciler) DeleteRoomPhotos(ctx context.Context, providerID, serviceID, roomID uint, urls []string) error {
	var service models.Service
	if err := r.db.First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrServiceNotFound
		}
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load service", err)
	}
	if service.ProviderID != providerID {
		return apperrors.ErrNotOwner
	}

	var room models.Room
	if err := r.db.Where("room_id = ? AND service_id = ?", roomID, serviceID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewAppError(apperrors.ErrCodeDBNotFound, "Room not found", err)
		}
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load room", err)
	}

	stored, err := room.PhotoURLs()
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
	}

	remaining, destroyErr := r.destroy(ctx, stored, urls)
	if saveErr := r.savePhotoColumn(&models.Room{}, "room_id", roomID, remaining); saveErr != nil {
		return saveErr
	}
	return destroyErr
}

// destroy removes the requested URLs one by one and returns the list that must
// stay persisted. When a destroy fails the loop stops: URLs already destroyed
// are dropped from the list, everything after the failure stays.
func (r *PhotoReconciler) destroy(ctx context.Context, stored, urls []string) ([]string, error) {
	requested := make(map[string]bool, len(urls))
	for _, u := range urls {
		requested[u] = true
	}

	destroyed := make(map[string]bool, len(urls))
	var destroyErr error
	for _, u := range urls {
		if err := r.uploader.Destroy(ctx, u); err != nil {
			destroyErr = apperrors.NewAppError(apperrors.ErrCodeDeleteFailed, err.Error(), err)
			break
		}
		destroyed[u] = true
	}

	var remaining []string
	for _, u := range stored {
		if requested[u] && destroyed[u] {
			continue
		}
		remaining = append(remaining, u)
	}
	return remaining, destroyErr
}

func (r *PhotoReconciler) savePhotoColumn(model interface{}, idColumn string, id uint, urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	encoded, err := json.Marshal(urls)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Cannot encode photo list", err)
	}

	if err := r.db.Model(model).Where(idColumn+" = ?", id).
		Update("photos", json.RawMessage(encoded)).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot update photo list", err)
	}
	return nil
}
