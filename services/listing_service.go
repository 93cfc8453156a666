package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"stayserve/constants"
	"stayserve/dto"
	apperrors "stayserve/errors"
	"stayserve/models"
	"stayserve/services/logger"
	"stayserve/validator"

	"gorm.io/gorm"
)

// SubmitFiles holds the binary parts of a multipart submit request, keyed by
// part name: "photos" for the service level, "roomPhotos[<roomId>]" per room.
type SubmitFiles map[string][]*multipart.FileHeader

// RoomFilesKey is the multipart part name carrying a room's new photos
func RoomFilesKey(roomID string) string {
	return fmt.Sprintf("roomPhotos[%s]", roomID)
}

// MergeUploads reconciles the draft's photo lists with the binaries actually
// present in the submit request. Existing-origin references are kept; stale
// new-origin references from earlier step saves are replaced by one new-origin
// reference per uploaded file, so the validated draft and the upload set can
// never drift apart.
func MergeUploads(draft *dto.ListingDraft, files SubmitFiles) {
	draft.StepOne.Photos = mergeEntityUploads(draft.StepOne.Photos, files["photos"])
	for i := range draft.StepOne.Rooms {
		room := &draft.StepOne.Rooms[i]
		room.Photos = mergeEntityUploads(room.Photos, files[RoomFilesKey(room.ID)])
	}
}

func mergeEntityUploads(refs []models.PhotoRef, headers []*multipart.FileHeader) []models.PhotoRef {
	merged := make([]models.PhotoRef, 0, len(refs)+len(headers))
	for _, p := range refs {
		if p.Origin == models.PhotoExisting {
			merged = append(merged, p)
		}
	}
	for _, fh := range headers {
		merged = append(merged, models.NewPhoto(fh.Filename))
	}
	return merged
}

// ListingService is the submission pipeline: it validates the composed draft,
// maps it to the stored wire vocabulary, performs the photo reconciliation and
// persists the listing.
type ListingService struct {
	db       *gorm.DB
	drafts   *DraftStore
	uploader Uploader
	cache    Cache
	log      logger.Logger
}

func NewListingService(db *gorm.DB, drafts *DraftStore, uploader Uploader, cache Cache, log logger.Logger) *ListingService {
	return &ListingService{
		db:       db,
		drafts:   drafts,
		uploader: uploader,
		cache:    cache,
		log:      log,
	}
}

func providerServicesKey(providerID uint) string {
	return fmt.Sprintf("services:provider:%d", providerID)
}

// Create submits a brand-new listing. On success the draft session is cleared;
// on any failure it survives untouched so the provider can retry without
// re-entering data. Submitting the same draft twice creates two records.
func (s *ListingService) Create(ctx context.Context, providerID uint, draft *dto.ListingDraft, files SubmitFiles) (uint, error) {
	MergeUploads(draft, files)

	if err := validator.ValidateListingDraft(draft, constants.SubmitModeCreate); err != nil {
		return 0, err
	}

	labels, err := models.AmenitiesToWire(draft.StepOne.Amenities)
	if err != nil {
		return 0, apperrors.NewAppError(apperrors.ErrCodeUnknownAmenity, err.Error(), err)
	}

	serviceURLs, err := s.resolvePhotos(ctx, draft.StepOne.Photos, files["photos"], "services")
	if err != nil {
		return 0, err
	}

	service := buildService(providerID, draft, labels, serviceURLs)

	for _, roomDraft := range draft.StepOne.Rooms {
		roomURLs, err := s.resolvePhotos(ctx, roomDraft.Photos, files[RoomFilesKey(roomDraft.ID)], "rooms")
		if err != nil {
			return 0, err
		}
		service.Rooms = append(service.Rooms, buildRoom(roomDraft, roomURLs))
	}

	if err := s.db.Create(service).Error; err != nil {
		return 0, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot create service", err)
	}

	if err := s.drafts.Clear(ctx, providerID); err != nil {
		s.log.Error("failed to clear draft for provider %d: %v", providerID, err)
	}
	s.invalidate(ctx, providerID)

	return service.ID, nil
}

// Update submits an edited listing. Per-room photo reconciliation runs against
// the persisted state: kept existing URLs stay, missing existing URLs are
// destroyed remotely, new binaries are uploaded. Rooms absent from the snapshot
// are removed; rooms flagged IsNewRoom are appended. Remote destroys run only
// after the transaction commits, so a failed update leaves every stored URL
// resolvable and the submit can be retried.
func (s *ListingService) Update(ctx context.Context, providerID, serviceID uint, draft *dto.ListingDraft, files SubmitFiles) error {
	MergeUploads(draft, files)

	if err := validator.ValidateListingDraft(draft, constants.SubmitModeUpdate); err != nil {
		return err
	}

	var service models.Service
	if err := s.db.Preload("Rooms").First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrServiceNotFound
		}
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load service", err)
	}
	if service.ProviderID != providerID {
		return apperrors.ErrNotOwner
	}

	labels, err := models.AmenitiesToWire(draft.StepOne.Amenities)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeUnknownAmenity, err.Error(), err)
	}

	storedURLs, err := service.PhotoURLs()
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
	}
	serviceURLs, staleURLs, err := s.reconcileEntityPhotos(ctx, storedURLs, draft.StepOne.Photos, files["photos"], "services")
	if err != nil {
		return err
	}
	pendingDeletes := staleURLs

	persistedRooms := make(map[uint]*models.Room, len(service.Rooms))
	for i := range service.Rooms {
		persistedRooms[service.Rooms[i].RoomID] = &service.Rooms[i]
	}

	var newRooms []models.Room
	type roomUpdate struct {
		room *models.Room
		urls []string
		src  dto.RoomDraft
	}
	var updates []roomUpdate
	seen := make(map[uint]bool)

	for _, roomDraft := range draft.StepOne.Rooms {
		if roomDraft.IsNewRoom {
			roomURLs, err := s.resolvePhotos(ctx, roomDraft.Photos, files[RoomFilesKey(roomDraft.ID)], "rooms")
			if err != nil {
				return err
			}
			room := buildRoom(roomDraft, roomURLs)
			room.ServiceID = serviceID
			newRooms = append(newRooms, room)
			continue
		}

		id, err := strconv.ParseUint(roomDraft.ID, 10, 64)
		if err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat,
				fmt.Sprintf("Room %s is not new but has no persisted id", roomDraft.RoomNo), err)
		}
		persisted, ok := persistedRooms[uint(id)]
		if !ok {
			return apperrors.NewAppError(apperrors.ErrCodeDBNotFound,
				fmt.Sprintf("Room %s does not belong to this service", roomDraft.RoomNo), nil)
		}
		seen[persisted.RoomID] = true

		storedRoomURLs, err := persisted.PhotoURLs()
		if err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
		}
		roomURLs, stale, err := s.reconcileEntityPhotos(ctx, storedRoomURLs, roomDraft.Photos, files[RoomFilesKey(roomDraft.ID)], "rooms")
		if err != nil {
			return err
		}
		pendingDeletes = append(pendingDeletes, stale...)
		updates = append(updates, roomUpdate{room: persisted, urls: roomURLs, src: roomDraft})
	}

	// Rooms missing from the full snapshot were removed by the provider;
	// their photos go with the rows once the transaction commits.
	var removedRooms []*models.Room
	for id, room := range persistedRooms {
		if seen[id] {
			continue
		}
		urls, err := room.PhotoURLs()
		if err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
		}
		pendingDeletes = append(pendingDeletes, urls...)
		removedRooms = append(removedRooms, room)
	}

	applyDraftToService(&service, draft, labels)
	service.Photos = encodeURLs(serviceURLs)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		service.Rooms = nil
		if err := tx.Save(&service).Error; err != nil {
			return err
		}
		for _, u := range updates {
			u.room.RoomNo = u.src.RoomNo
			u.room.Beds = u.src.Beds
			u.room.Description = u.src.Description
			u.room.Photos = encodeURLs(u.urls)
			if err := tx.Save(u.room).Error; err != nil {
				return err
			}
		}
		for i := range newRooms {
			if err := tx.Create(&newRooms[i]).Error; err != nil {
				return err
			}
		}
		for _, room := range removedRooms {
			if err := tx.Delete(&models.Room{}, room.RoomID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot update service", err)
	}

	// The committed state no longer references these URLs; a failed destroy
	// only orphans a remote file and never blocks a retry.
	for _, u := range pendingDeletes {
		if err := s.uploader.Destroy(ctx, u); err != nil {
			s.log.Error("failed to destroy removed photo %s: %v", u, err)
		}
	}

	if err := s.drafts.Clear(ctx, providerID); err != nil {
		s.log.Error("failed to clear draft for provider %d: %v", providerID, err)
	}
	s.invalidate(ctx, providerID)

	return nil
}

// HydrateForEdit loads the persisted service, reverse-maps the stored wire
// vocabulary back to internal amenity keys, tags every photo existing and
// seeds the draft session. This runs before any edit is accepted, so photos
// added afterwards can never be misclassified as existing.
func (s *ListingService) HydrateForEdit(ctx context.Context, providerID, serviceID uint) (*dto.ListingDraft, error) {
	var service models.Service
	if err := s.db.Preload("Rooms").First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load service", err)
	}
	if service.ProviderID != providerID {
		return nil, apperrors.ErrNotOwner
	}

	labels, err := service.AmenityLabels()
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored amenity list is corrupt", err)
	}
	keys, err := models.AmenitiesFromWire(labels)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUnknownAmenity, err.Error(), err)
	}

	urls, err := service.PhotoURLs()
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
	}

	draft := &dto.ListingDraft{
		StepOne: dto.StepOnePayload{
			Name:        service.Name,
			Type:        service.Type,
			Description: service.Description,
			Pricing: dto.Pricing{
				PerDay:          service.PerDayPrice,
				Weekly:          service.WeeklyPrice,
				Monthly:         service.MonthlyPrice,
				SecurityDeposit: service.SecurityDeposit,
				OfferText:       service.OfferText,
			},
			Amenities: keys,
			Photos:    ExistingRefs(urls),
		},
		StepTwo: dto.StepTwoPayload{
			Location: dto.Location{
				Area:     service.Area,
				Landmark: service.Landmark,
				Address:  service.Address,
			},
			Contact: dto.Contact{
				Phone:    service.Phone,
				Whatsapp: service.Whatsapp,
			},
			Rules:       service.Rules,
			OpeningTime: service.OpeningTime,
		},
	}

	for _, room := range service.Rooms {
		roomURLs, err := room.PhotoURLs()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
		}
		draft.StepOne.Rooms = append(draft.StepOne.Rooms, dto.RoomDraft{
			ID:          strconv.FormatUint(uint64(room.RoomID), 10),
			IsNewRoom:   false,
			RoomNo:      room.RoomNo,
			Beds:        room.Beds,
			Description: room.Description,
			Photos:      ExistingRefs(roomURLs),
		})
	}

	if err := s.drafts.SetStepOne(ctx, providerID, &draft.StepOne); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot seed draft session", err)
	}
	if err := s.drafts.SetStepTwo(ctx, providerID, &draft.StepTwo); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot seed draft session", err)
	}

	return draft, nil
}

// Detail loads the read model for one service
func (s *ListingService) Detail(ctx context.Context, serviceID uint) (*dto.ServiceDetailResponse, error) {
	var service models.Service
	if err := s.db.Preload("Rooms").First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load service", err)
	}
	return serviceDetail(&service)
}

// MyServices lists a provider's services, cached per provider
func (s *ListingService) MyServices(ctx context.Context, providerID uint) ([]dto.ServiceDetailResponse, error) {
	cacheKey := providerServicesKey(providerID)

	var cached []dto.ServiceDetailResponse
	if found, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	var services []models.Service
	if err := s.db.Preload("Rooms").Where("provider_id = ?", providerID).
		Order("created_at DESC").Find(&services).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot list services", err)
	}

	result := make([]dto.ServiceDetailResponse, 0, len(services))
	for i := range services {
		detail, err := serviceDetail(&services[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *detail)
	}

	if err := s.cache.SetJSON(ctx, cacheKey, result, 10*time.Minute); err != nil {
		s.log.Error("failed to cache services for provider %d: %v", providerID, err)
	}
	return result, nil
}

func (s *ListingService) invalidate(ctx context.Context, providerID uint) {
	if err := s.cache.Delete(ctx, providerServicesKey(providerID)); err != nil {
		s.log.Error("failed to invalidate service cache for provider %d: %v", providerID, err)
	}
}

// resolvePhotos keeps existing URLs from the refs and uploads the binaries
func (s *ListingService) resolvePhotos(ctx context.Context, refs []models.PhotoRef, headers []*multipart.FileHeader, folder string) ([]string, error) {
	var urls []string
	for _, p := range refs {
		if p.Origin == models.PhotoExisting {
			urls = append(urls, p.URL)
		}
	}
	uploaded, err := s.uploadFiles(ctx, headers, folder)
	if err != nil {
		return nil, err
	}
	return append(urls, uploaded...), nil
}

// reconcileEntityPhotos runs the diff for one owning entity: it uploads what
// the provider added and returns the final URL list plus the removed URLs
// whose remote copies must go after the transaction commits.
func (s *ListingService) reconcileEntityPhotos(ctx context.Context, storedURLs []string, current []models.PhotoRef, headers []*multipart.FileHeader, folder string) ([]string, []string, error) {
	diff := DiffPhotos(ExistingRefs(storedURLs), current)

	urls, err := s.resolvePhotos(ctx, current, headers, folder)
	if err != nil {
		return nil, nil, err
	}
	return urls, diff.ToDelete, nil
}

func (s *ListingService) uploadFiles(ctx context.Context, headers []*multipart.FileHeader, folder string) ([]string, error) {
	var urls []string
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUploadFailed, "Cannot open uploaded file", err)
		}
		url, err := s.uploader.Upload(ctx, src, folder)
		src.Close()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUploadFailed, err.Error(), err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func buildService(providerID uint, draft *dto.ListingDraft, labels, photoURLs []string) *models.Service {
	service := &models.Service{
		ProviderID: providerID,
		Status:     constants.ServiceStatusOnline,
	}
	applyDraftToService(service, draft, labels)
	service.Photos = encodeURLs(photoURLs)
	return service
}

func applyDraftToService(service *models.Service, draft *dto.ListingDraft, labels []string) {
	one := draft.StepOne
	two := draft.StepTwo

	service.Type = one.Type
	service.Name = one.Name
	service.Description = one.Description
	service.OfferText = one.Pricing.OfferText
	service.PerDayPrice = one.Pricing.PerDay
	service.WeeklyPrice = one.Pricing.Weekly
	service.MonthlyPrice = one.Pricing.Monthly
	service.SecurityDeposit = one.Pricing.SecurityDeposit
	service.Amenities = encodeURLs(labels)
	service.Area = two.Location.Area
	service.Landmark = two.Location.Landmark
	service.Address = two.Location.Address
	service.Phone = two.Contact.Phone
	service.Whatsapp = two.Contact.Whatsapp
	service.Rules = two.Rules
	service.OpeningTime = two.OpeningTime
}

func buildRoom(roomDraft dto.RoomDraft, photoURLs []string) models.Room {
	return models.Room{
		RoomNo:      roomDraft.RoomNo,
		Beds:        roomDraft.Beds,
		Description: roomDraft.Description,
		Photos:      encodeURLs(photoURLs),
	}
}

func encodeURLs(urls []string) json.RawMessage {
	if urls == nil {
		urls = []string{}
	}
	encoded, _ := json.Marshal(urls)
	return encoded
}

func serviceDetail(service *models.Service) (*dto.ServiceDetailResponse, error) {
	urls, err := service.PhotoURLs()
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
	}
	labels, err := service.AmenityLabels()
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored amenity list is corrupt", err)
	}

	resp := &dto.ServiceDetailResponse{
		ID:              service.ID,
		Type:            service.Type,
		Name:            service.Name,
		Description:     service.Description,
		OfferText:       service.OfferText,
		PerDayPrice:     service.PerDayPrice,
		WeeklyPrice:     service.WeeklyPrice,
		MonthlyPrice:    service.MonthlyPrice,
		SecurityDeposit: service.SecurityDeposit,
		Amenities:       labels,
		Photos:          urls,
		Area:            service.Area,
		Landmark:        service.Landmark,
		Address:         service.Address,
		Phone:           service.Phone,
		Whatsapp:        service.Whatsapp,
		Rules:           service.Rules,
		OpeningTime:     service.OpeningTime,
		Status:          service.Status,
		CreatedAt:       service.CreatedAt,
		UpdatedAt:       service.UpdatedAt,
	}

	for _, room := range service.Rooms {
		roomURLs, err := room.PhotoURLs()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Stored photo list is corrupt", err)
		}
		resp.Rooms = append(resp.Rooms, dto.RoomResponse{
			ID:          room.RoomID,
			RoomNo:      room.RoomNo,
			Beds:        room.Beds,
			Description: room.Description,
			Photos:      roomURLs,
		})
	}

	return resp, nil
}
