package handlers

import (
	"strings"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
)

var allowedSpecializations = map[string]struct{}{
	models.SpecialtyAnxietyDepression:      {},
	models.SpecialtyRelationshipCounseling: {},
	models.SpecialtyStressManagement:       {},
	models.SpecialtyGeneral:                {},
}

func validateProfileUpdateRequest(role string, req updateProfileRequest) string {
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return "first_name must not be empty"
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		return "last_name must not be empty"
	}
	if req.About != nil && len(*req.About) > 2000 {
		return "about must be 2000 characters or fewer"
	}
	if req.Specialization != nil {
		if role != models.UserTypeDoctor {
			return "specialization can only be set by doctors"
		}
		if err := validateSpecialization(*req.Specialization); err != "" {
			return err
		}
	}
	return ""
}

func validateSpecialization(specialization string) string {
	if _, ok := allowedSpecializations[strings.TrimSpace(specialization)]; !ok {
		return "specialization must be one of: anxiety_depression, relationship_counseling, stress_management, general"
	}
	return ""
}
