package repository

import (
	"context"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
)

type ChatSessionRepository struct {
	db DBTX
}

func NewChatSessionRepository(db DBTX) *ChatSessionRepository {
	return &ChatSessionRepository{db: db}
}

const chatSessionColumns = `id, patient_id, therapist_id, status, scheduled_start, scheduled_end, video_enabled, video_room_id, created_at, updated_at`

// LatestActiveByPatient returns the most recently created active session
// for the patient, or pgx.ErrNoRows when none exists. Ties between multiple
// active sessions are broken by recency; older ones are left untouched.
func (r *ChatSessionRepository) LatestActiveByPatient(
	ctx context.Context,
	patientID uuid.UUID,
) (*models.ChatSession, error) {
	query := `
		SELECT ` + chatSessionColumns + `
		FROM chat_sessions
		WHERE patient_id = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var session models.ChatSession
	err := r.db.QueryRow(ctx, query, patientID, models.SessionStatusActive).Scan(
		&session.ID,
		&session.PatientID,
		&session.TherapistID,
		&session.Status,
		&session.ScheduledStart,
		&session.ScheduledEnd,
		&session.VideoEnabled,
		&session.VideoRoomID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *ChatSessionRepository) Create(
	ctx context.Context,
	patientID uuid.UUID,
	therapistID uuid.UUID,
) (*models.ChatSession, error) {
	query := `
		INSERT INTO chat_sessions (patient_id, therapist_id, status)
		VALUES ($1, $2, $3)
		RETURNING ` + chatSessionColumns + `
	`

	var session models.ChatSession
	err := r.db.QueryRow(ctx, query, patientID, therapistID, models.SessionStatusActive).Scan(
		&session.ID,
		&session.PatientID,
		&session.TherapistID,
		&session.Status,
		&session.ScheduledStart,
		&session.ScheduledEnd,
		&session.VideoEnabled,
		&session.VideoRoomID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *ChatSessionRepository) GetByID(
	ctx context.Context,
	sessionID uuid.UUID,
) (*models.ChatSession, error) {
	query := `
		SELECT ` + chatSessionColumns + `
		FROM chat_sessions
		WHERE id = $1
	`

	var session models.ChatSession
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID,
		&session.PatientID,
		&session.TherapistID,
		&session.Status,
		&session.ScheduledStart,
		&session.ScheduledEnd,
		&session.VideoEnabled,
		&session.VideoRoomID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// GetForParticipant loads a session only when the actor is its patient or
// the account behind its therapist.
func (r *ChatSessionRepository) GetForParticipant(
	ctx context.Context,
	sessionID uuid.UUID,
	actorID uuid.UUID,
) (*models.ChatSession, error) {
	query := `
		SELECT cs.id, cs.patient_id, cs.therapist_id, cs.status, cs.scheduled_start, cs.scheduled_end,
		       cs.video_enabled, cs.video_room_id, cs.created_at, cs.updated_at
		FROM chat_sessions cs
		LEFT JOIN therapists t ON t.id = cs.therapist_id
		WHERE cs.id = $1 AND (cs.patient_id = $2 OR t.user_id = $2)
	`

	var session models.ChatSession
	err := r.db.QueryRow(ctx, query, sessionID, actorID).Scan(
		&session.ID,
		&session.PatientID,
		&session.TherapistID,
		&session.Status,
		&session.ScheduledStart,
		&session.ScheduledEnd,
		&session.VideoEnabled,
		&session.VideoRoomID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}
