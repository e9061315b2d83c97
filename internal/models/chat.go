package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat session status values. Sessions are only ever created active; no
// code path here transitions them out of it.
const SessionStatusActive = "active"

type ChatSession struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	TherapistID    uuid.UUID  `json:"therapist_id"`
	Status         string     `json:"status"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	VideoEnabled   bool       `json:"video_enabled"`
	VideoRoomID    *string    `json:"video_room_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Message struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
