package controllers

import (
	"sort"
	"strconv"
	"strings"

	"stayserve/constants"
	"stayserve/dto"
	apperrors "stayserve/errors"
	"stayserve/models"
	"stayserve/response"
	"stayserve/services"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gorm.io/gorm"
)

// ListingController serves the draft composer, the submit pipeline and the
// explicit photo deletes.
type ListingController struct {
	svc        *services.ListingService
	drafts     *services.DraftStore
	reconciler *services.PhotoReconciler
	db         *gorm.DB
}

func NewListingController(svc *services.ListingService, drafts *services.DraftStore, reconciler *services.PhotoReconciler, db *gorm.DB) *ListingController {
	return &ListingController{
		svc:        svc,
		drafts:     drafts,
		reconciler: reconciler,
		db:         db,
	}
}

// SaveStepOne replaces the step-one snapshot of the provider's draft session.
// Rooms without an id are created in this session: they get a local id and the
// new-room flag before the snapshot is stored.
func (ctl *ListingController) SaveStepOne(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	var payload dto.StepOnePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid step one payload")
		return
	}
	assignLocalRoomIDs(&payload)

	if err := ctl.drafts.SetStepOne(c.Request.Context(), providerID, &payload); err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, nil)
}

// SaveStepTwo replaces the step-two snapshot of the provider's draft session
func (ctl *ListingController) SaveStepTwo(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	var payload dto.StepTwoPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid step two payload")
		return
	}

	if err := ctl.drafts.SetStepTwo(c.Request.Context(), providerID, &payload); err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, nil)
}

// GetDraft returns the in-progress draft for the composer screens
func (ctl *ListingController) GetDraft(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	view, err := ctl.drafts.View(c.Request.Context(), providerID)
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, view)
}

// CancelDraft discards the draft session. Clients also call this before a
// brand-new add-service flow so an old session never bleeds into it.
func (ctl *ListingController) CancelDraft(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	if err := ctl.drafts.Clear(c.Request.Context(), providerID); err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, nil)
}

// EditDraft hydrates the draft session from the persisted service and returns
// it, so the composer opens pre-filled with every photo tagged existing
func (ctl *ListingController) EditDraft(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	serviceID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	draft, err := ctl.svc.HydrateForEdit(c.Request.Context(), providerID, serviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, draft)
}

// CreateService submits the composed draft as a new listing. The multipart
// form carries both step snapshots plus the photo binaries; the snapshots are
// stored before validation so a rejected submit leaves the session intact.
func (ctl *ListingController) CreateService(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	draft, files, ok := ctl.parseSubmitForm(c, providerID)
	if !ok {
		return
	}

	id, err := ctl.svc.Create(c.Request.Context(), providerID, draft, files)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// UpdateService submits the edited draft against an existing listing
func (ctl *ListingController) UpdateService(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	serviceID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	draft, files, ok := ctl.parseSubmitForm(c, providerID)
	if !ok {
		return
	}

	if err := ctl.svc.Update(c.Request.Context(), providerID, serviceID, draft, files); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetServiceDetail returns the read model for one service
func (ctl *ListingController) GetServiceDetail(c *gin.Context) {
	serviceID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	detail, err := ctl.svc.Detail(c.Request.Context(), serviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, detail)
}

// GetMyServices lists the provider's own services
func (ctl *ListingController) GetMyServices(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	result, err := ctl.svc.MyServices(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

type photoDeleteRequest struct {
	URLs []string `json:"urls" binding:"required,min=1"`
}

// DeleteServicePhotos removes service-level photos immediately, outside the
// draft flow
func (ctl *ListingController) DeleteServicePhotos(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	serviceID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req photoDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A non-empty urls list is required")
		return
	}

	if err := ctl.reconciler.DeleteServicePhotos(c.Request.Context(), providerID, serviceID, req.URLs); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteRoomPhotos removes photos of one room of a service
func (ctl *ListingController) DeleteRoomPhotos(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	serviceID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	roomID, ok := parseUintParam(c, "roomId")
	if !ok {
		return
	}

	var req photoDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A non-empty urls list is required")
		return
	}

	if err := ctl.reconciler.DeleteRoomPhotos(c.Request.Context(), providerID, serviceID, roomID, req.URLs); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}

// SearchServices ranks online services by area similarity to the query
func (ctl *ListingController) SearchServices(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.BadRequest(c, "Search query is required")
		return
	}

	var servicesList []models.Service
	if err := ctl.db.Where("status = ?", constants.ServiceStatusOnline).Find(&servicesList).Error; err != nil {
		response.ServerError(c)
		return
	}

	norm := normalizeInput(query)
	keywords := uniqueAreas(servicesList)

	best := norm
	if len(keywords) > 0 {
		if closest := createMatcher(keywords).Closest(norm); closest != "" {
			best = closest
		}
	}

	var results []dto.SearchResult
	for i := range servicesList {
		area := normalizeInput(servicesList[i].Area)
		sim := calculateSimilarity(area, norm)
		if s := calculateSimilarity(area, best); s > sim {
			sim = s
		}
		if strings.Contains(area, norm) && sim < 0.9 {
			sim = 0.9
		}
		if sim < 0.4 {
			continue
		}
		results = append(results, dto.SearchResult{
			ID:         servicesList[i].ID,
			Name:       servicesList[i].Name,
			Type:       servicesList[i].Type,
			Area:       servicesList[i].Area,
			Landmark:   servicesList[i].Landmark,
			Status:     servicesList[i].Status,
			Similarity: sim,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	response.Success(c, results)
}

// parseSubmitForm decodes the multipart submit request. Structured fields
// arrive as JSON strings, photos as binary parts named "photos" and
// "roomPhotos[<roomId>]". Both step snapshots are stored back into the draft
// session before the caller validates, so a failed submit keeps the session.
// A submit carrying only binaries falls back to the stored session instead.
func (ctl *ListingController) parseSubmitForm(c *gin.Context, providerID uint) (*dto.ListingDraft, services.SubmitFiles, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "Invalid multipart form")
		return nil, nil, false
	}

	value := func(name string) string {
		if v, ok := form.Value[name]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}

	if !hasStepFields(form.Value) {
		stored, err := ctl.drafts.GetComplete(c.Request.Context(), providerID)
		if err != nil {
			respondError(c, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot load draft session", err))
			return nil, nil, false
		}
		if stored == nil {
			respondError(c, apperrors.ErrDraftIncomplete)
			return nil, nil, false
		}
		return stored, services.SubmitFiles(form.File), true
	}

	draft := &dto.ListingDraft{}
	draft.StepOne.Name = value("name")
	draft.StepOne.Description = value("description")
	draft.StepTwo.Rules = value("rules")
	draft.StepTwo.OpeningTime = value("openingTime")

	if raw := value("type"); raw != "" {
		t, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "Field type must be a number")
			return nil, nil, false
		}
		draft.StepOne.Type = t
	}

	jsonFields := []struct {
		name   string
		target interface{}
	}{
		{"pricing", &draft.StepOne.Pricing},
		{"rooms", &draft.StepOne.Rooms},
		{"facilities", &draft.StepOne.Amenities},
		{"photos", &draft.StepOne.Photos},
		{"location", &draft.StepTwo.Location},
		{"contact", &draft.StepTwo.Contact},
	}
	for _, f := range jsonFields {
		raw := value(f.name)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), f.target); err != nil {
			response.BadRequest(c, "Field "+f.name+" is not valid JSON")
			return nil, nil, false
		}
	}

	assignLocalRoomIDs(&draft.StepOne)

	ctx := c.Request.Context()
	if err := ctl.drafts.SetStepOne(ctx, providerID, &draft.StepOne); err != nil {
		respondError(c, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot store draft session", err))
		return nil, nil, false
	}
	if err := ctl.drafts.SetStepTwo(ctx, providerID, &draft.StepTwo); err != nil {
		respondError(c, apperrors.NewAppError(apperrors.ErrCodeDBError, "Cannot store draft session", err))
		return nil, nil, false
	}

	return draft, services.SubmitFiles(form.File), true
}

// submitFieldNames are the structured parts of the multipart submit contract
var submitFieldNames = []string{
	"name", "type", "description", "pricing", "rooms", "facilities",
	"photos", "location", "contact", "rules", "openingTime",
}

func hasStepFields(values map[string][]string) bool {
	for _, name := range submitFieldNames {
		if v, ok := values[name]; ok && len(v) > 0 && v[0] != "" {
			return true
		}
	}
	return false
}

// assignLocalRoomIDs gives rooms created in this session a local id. The id
// only has to be unique within the draft; it keys the room's photo part.
func assignLocalRoomIDs(payload *dto.StepOnePayload) {
	for i := range payload.Rooms {
		if payload.Rooms[i].ID == "" {
			payload.Rooms[i].ID = uuid.NewString()
			payload.Rooms[i].IsNewRoom = true
		}
	}
}

func normalizeInput(input string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(input)))
}

func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

func calculateSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(distance)/float64(longest)
}

func uniqueAreas(servicesList []models.Service) []string {
	seen := make(map[string]bool, len(servicesList))
	var keywords []string
	for i := range servicesList {
		area := normalizeInput(servicesList[i].Area)
		if area == "" || seen[area] {
			continue
		}
		seen[area] = true
		keywords = append(keywords, area)
	}
	return keywords
}
