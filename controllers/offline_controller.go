package controllers

import (
	"time"

	"stayserve/dto"
	"stayserve/response"
	"stayserve/services"

	"github.com/gin-gonic/gin"
)

// OfflineController serves the offline-availability scheduler: the selectable
// set for the modal, the batched submit and the manual reactivation.
type OfflineController struct {
	svc *services.OfflineService
}

func NewOfflineController(svc *services.OfflineService) *OfflineController {
	return &OfflineController{svc: svc}
}

// GetOnlineServices lists the provider's currently-online services, the only
// ones selectable in the offline modal
func (ctl *OfflineController) GetOnlineServices(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	result, err := ctl.svc.SelectableServices(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// SetOffline applies one batched offline schedule to the selected services
func (ctl *OfflineController) SetOffline(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	var req dto.OfflineScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid offline schedule payload")
		return
	}

	if err := ctl.svc.Submit(c.Request.Context(), providerID, &req, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}

// ReactivateService brings one offline service back online on request
func (ctl *OfflineController) ReactivateService(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	serviceID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.svc.Reactivate(c.Request.Context(), providerID, serviceID, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}
