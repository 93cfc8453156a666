package controllers

import (
	"errors"
	"strconv"

	apperrors "stayserve/errors"
	"stayserve/middleware"
	"stayserve/response"

	"github.com/gin-gonic/gin"
)

// currentProvider reads the authenticated provider id or answers 401
func currentProvider(c *gin.Context) (uint, bool) {
	id, ok := middleware.ProviderID(c)
	if !ok {
		response.Unauthorized(c)
	}
	return id, ok
}

// parseUintParam parses a numeric path parameter or answers 400
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(v), true
}

// respondError maps a service-layer error to its HTTP response
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrServiceNotFound), errors.Is(err, apperrors.ErrBookingNotFound):
		response.NotFound(c)
	case errors.Is(err, apperrors.ErrNotOwner):
		response.Forbidden(c)
	case errors.Is(err, apperrors.ErrServiceOffline):
		response.BadRequest(c, "One of the selected services is already offline")
	case errors.Is(err, apperrors.ErrDraftIncomplete):
		response.BadRequest(c, "Draft is incomplete, finish both steps first")
	default:
		if appErr := apperrors.GetAppError(err); appErr != nil {
			switch appErr.Code {
			case apperrors.ErrCodeValidation, apperrors.ErrCodeRequiredField, apperrors.ErrCodeInvalidFormat,
				apperrors.ErrCodeUnknownAmenity, apperrors.ErrCodeInvalidOperation:
				response.ValidationError(c, appErr.Message)
			case apperrors.ErrCodeInvalidTransition:
				response.BadRequest(c, appErr.Message)
			case apperrors.ErrCodeDBNotFound:
				response.NotFound(c)
			case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeInvalidToken, apperrors.ErrCodeTokenExpired:
				response.Unauthorized(c)
			case apperrors.ErrCodeForbidden:
				response.Forbidden(c)
			default:
				response.ServerErrorMessage(c, appErr.Message)
			}
			return
		}
		response.ServerError(c)
	}
}
