package validator

import (
	"fmt"
	"regexp"

	"stayserve/constants"
	"stayserve/dto"
	"stayserve/errors"
)

// ValidateListingDraft checks a composed draft before submission. Rules run in
// a fixed order and the first violated rule is returned as a user-facing
// message; failures are not aggregated.
func ValidateListingDraft(draft *dto.ListingDraft, mode string) error {
	if draft == nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Draft is incomplete, finish both steps first", nil)
	}

	one := draft.StepOne

	if one.Name == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Service name is required", nil)
	}

	if one.Type != constants.ServiceTypeHostel && one.Type != constants.ServiceTypeTiffin {
		return errors.NewAppError(errors.ErrCodeValidation, "Service type must be hostel or tiffin", nil)
	}

	if len(one.Description) < constants.MinDescriptionLength {
		return errors.NewAppError(errors.ErrCodeValidation,
			fmt.Sprintf("Description must be at least %d characters", constants.MinDescriptionLength), nil)
	}

	if one.Pricing.PerDay <= 0 && one.Pricing.Weekly <= 0 && one.Pricing.Monthly <= 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "At least one pricing option required", nil)
	}

	if one.Pricing.SecurityDeposit <= 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Security deposit must be greater than zero", nil)
	}

	for _, room := range one.Rooms {
		if room.RoomNo == "" {
			return errors.NewAppError(errors.ErrCodeRequiredField, "Every room needs a room number", nil)
		}
		if room.Beds <= 0 {
			return errors.NewAppError(errors.ErrCodeValidation,
				fmt.Sprintf("Room %s needs a bed count greater than zero", room.RoomNo), nil)
		}
		if len(room.Description) < constants.MinDescriptionLength {
			return errors.NewAppError(errors.ErrCodeValidation,
				fmt.Sprintf("Room %s needs a description of at least %d characters", room.RoomNo, constants.MinDescriptionLength), nil)
		}
		// The minimum photo rule only binds rooms created in this session, or
		// every room when the listing itself is new.
		if (room.IsNewRoom || mode == constants.SubmitModeCreate) && len(room.Photos) < constants.MinNewRoomPhotos {
			return errors.NewAppError(errors.ErrCodeValidation,
				fmt.Sprintf("Room %s needs at least %d photos", room.RoomNo, constants.MinNewRoomPhotos), nil)
		}
	}

	two := draft.StepTwo

	if two.Location.Area == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Area is required", nil)
	}

	if two.Location.Address == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Full address is required", nil)
	}

	if !isValidPhone(two.Contact.Phone) {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Contact phone must be a 10 digit number", nil)
	}

	return nil
}

// ValidateOfflineSchedule checks the batched offline request: at least one
// service, exactly one known reason and one known come-back option.
func ValidateOfflineSchedule(req *dto.OfflineScheduleRequest) error {
	if len(req.ServiceIDs) == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Select at least one service", nil)
	}

	switch req.Reason {
	case constants.OfflineReasonMaintenance, constants.OfflineReasonFullyBooked,
		constants.OfflineReasonVacation, constants.OfflineReasonOther:
	default:
		return errors.NewAppError(errors.ErrCodeValidation, "Unknown offline reason", nil)
	}

	switch req.ComeBackOption {
	case constants.ComeBackFixedDelay:
		if req.DelayMinutes <= 0 {
			return errors.NewAppError(errors.ErrCodeValidation, "Fixed delay needs a duration in minutes", nil)
		}
	case constants.ComeBackNextOpening, constants.ComeBackManual:
	default:
		return errors.NewAppError(errors.ErrCodeValidation, "Unknown come-back option", nil)
	}

	return nil
}

// isValidPhone checks a 10 digit phone number
func isValidPhone(phone string) bool {
	phoneRegex := regexp.MustCompile(`^[0-9]{10}$`)
	return phoneRegex.MatchString(phone)
}
