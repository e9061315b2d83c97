package models

import (
	"time"

	"github.com/google/uuid"
)

// user_type enum values.
const (
	UserTypeDoctor  = "doctor"
	UserTypePatient = "patient"
	UserTypeAdmin   = "admin"
)

// Profile rows share their primary key with the owning auth account.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	FirstName      *string   `json:"first_name"`
	LastName       *string   `json:"last_name"`
	About          *string   `json:"about"`
	Specialization *string   `json:"specialization"`
	ImageURL       *string   `json:"image_url"`
	UserType       string    `json:"user_type"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
