package models

import (
	"time"

	"github.com/google/uuid"
)

// specialty_type enum values.
const (
	SpecialtyAnxietyDepression      = "anxiety_depression"
	SpecialtyRelationshipCounseling = "relationship_counseling"
	SpecialtyStressManagement       = "stress_management"
	SpecialtyGeneral                = "general"
)

// Therapist availability marker compared by equality when resolving a
// counterpart for a new chat session.
const TherapistStatusAvailable = "available"

type Therapist struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Specialty string     `json:"specialty"`
	ImageURL  *string    `json:"image_url"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

type TherapistWithScore struct {
	Therapist
	MatchScore int `json:"match_score"`
}
