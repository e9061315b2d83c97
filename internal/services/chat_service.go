package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmptyMessage           = errors.New("empty message")
	ErrNoTherapistAvailable   = errors.New("no therapist available")
	ErrConflict               = errors.New("conflict")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrDoctorNotFound         = errors.New("doctor not found")
)

type sessionStore interface {
	LatestActiveByPatient(ctx context.Context, patientID uuid.UUID) (*models.ChatSession, error)
	Create(ctx context.Context, patientID uuid.UUID, therapistID uuid.UUID) (*models.ChatSession, error)
	GetForParticipant(ctx context.Context, sessionID uuid.UUID, actorID uuid.UUID) (*models.ChatSession, error)
}

type messageStore interface {
	Create(ctx context.Context, sessionID uuid.UUID, senderID uuid.UUID, content string) (*models.Message, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Message, error)
}

type therapistFinder interface {
	FindAvailable(ctx context.Context) (*models.Therapist, error)
}

// insertPublisher receives each committed message row for fan-out to feed
// subscribers.
type insertPublisher interface {
	PublishMessage(message *models.Message)
}

type ChatService struct {
	sessionRepo   sessionStore
	messageRepo   messageStore
	therapistRepo therapistFinder
	feed          insertPublisher
}

func NewChatService(
	sessionRepo sessionStore,
	messageRepo messageStore,
	therapistRepo therapistFinder,
	feed insertPublisher,
) *ChatService {
	return &ChatService{
		sessionRepo:   sessionRepo,
		messageRepo:   messageRepo,
		therapistRepo: therapistRepo,
		feed:          feed,
	}
}

// ResolveSession finds the patient's current chat session, pairing them
// with an available therapist when none exists yet. Repeat calls are
// read-only once an active session is in place.
func (s *ChatService) ResolveSession(
	ctx context.Context,
	patientID uuid.UUID,
) (*models.ChatSession, error) {
	if patientID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.LatestActiveByPatient(ctx, patientID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	therapist, err := s.therapistRepo.FindAvailable(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoTherapistAvailable
		}
		return nil, err
	}

	return s.sessionRepo.Create(ctx, patientID, therapist.ID)
}

// SessionForActor loads a session the actor participates in. Used when a
// client names a session explicitly instead of resolving one.
func (s *ChatService) SessionForActor(
	ctx context.Context,
	actorID uuid.UUID,
	sessionID uuid.UUID,
) (*models.ChatSession, error) {
	if actorID == uuid.Nil || sessionID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetForParticipant(ctx, sessionID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return session, nil
}

// History returns the session's complete message list, oldest first.
func (s *ChatService) History(
	ctx context.Context,
	actorID uuid.UUID,
	sessionID uuid.UUID,
) ([]models.Message, error) {
	if _, err := s.SessionForActor(ctx, actorID, sessionID); err != nil {
		return nil, err
	}

	return s.messageRepo.ListBySession(ctx, sessionID)
}

// SendMessage appends one message to the session. Whitespace-only content
// is rejected without touching the store. The inserted row is pushed into
// the feed; the sender sees it only via that echo.
func (s *ChatService) SendMessage(
	ctx context.Context,
	actorID uuid.UUID,
	sessionID uuid.UUID,
	content string,
) (*models.Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := s.SessionForActor(ctx, actorID, sessionID); err != nil {
		return nil, err
	}

	message, err := s.messageRepo.Create(ctx, sessionID, actorID, trimmed)
	if err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.PublishMessage(message)
	}

	return message, nil
}
