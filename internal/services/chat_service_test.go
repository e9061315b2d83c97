package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type stubSessionStore struct {
	latestResult      *models.ChatSession
	latestErr         error
	createResult      *models.ChatSession
	createErr         error
	participantResult *models.ChatSession
	participantErr    error
	createCalls       int
	lastPatientID     uuid.UUID
	lastTherapistID   uuid.UUID
}

func (s *stubSessionStore) LatestActiveByPatient(_ context.Context, patientID uuid.UUID) (*models.ChatSession, error) {
	s.lastPatientID = patientID
	return s.latestResult, s.latestErr
}

func (s *stubSessionStore) Create(_ context.Context, patientID uuid.UUID, therapistID uuid.UUID) (*models.ChatSession, error) {
	s.createCalls++
	s.lastPatientID = patientID
	s.lastTherapistID = therapistID
	return s.createResult, s.createErr
}

func (s *stubSessionStore) GetForParticipant(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*models.ChatSession, error) {
	return s.participantResult, s.participantErr
}

type stubMessageStore struct {
	createResult *models.Message
	createErr    error
	listResult   []models.Message
	listErr      error
	createCalls  int
	lastContent  string
}

func (s *stubMessageStore) Create(_ context.Context, _ uuid.UUID, _ uuid.UUID, content string) (*models.Message, error) {
	s.createCalls++
	s.lastContent = content
	return s.createResult, s.createErr
}

func (s *stubMessageStore) ListBySession(_ context.Context, _ uuid.UUID) ([]models.Message, error) {
	return s.listResult, s.listErr
}

type stubTherapistFinder struct {
	result *models.Therapist
	err    error
	calls  int
}

func (s *stubTherapistFinder) FindAvailable(_ context.Context) (*models.Therapist, error) {
	s.calls++
	return s.result, s.err
}

type recordingFeed struct {
	published []*models.Message
}

func (f *recordingFeed) PublishMessage(message *models.Message) {
	f.published = append(f.published, message)
}

func TestResolveSessionReturnsExistingActiveSession(t *testing.T) {
	patientID := uuid.New()
	existing := &models.ChatSession{ID: uuid.New(), PatientID: patientID, Status: models.SessionStatusActive}
	sessions := &stubSessionStore{latestResult: existing}
	finder := &stubTherapistFinder{}
	service := NewChatService(sessions, &stubMessageStore{}, finder, nil)

	session, err := service.ResolveSession(context.Background(), patientID)
	if err != nil {
		t.Fatalf("ResolveSession: %v", err)
	}
	if session.ID != existing.ID {
		t.Fatalf("expected existing session, got %+v", session)
	}
	if finder.calls != 0 {
		t.Fatalf("expected no therapist lookup for an existing session, got %d", finder.calls)
	}
	if sessions.createCalls != 0 {
		t.Fatalf("expected no session creation, got %d", sessions.createCalls)
	}
}

func TestResolveSessionPairsWithAvailableTherapist(t *testing.T) {
	patientID := uuid.New()
	therapist := &models.Therapist{ID: uuid.New(), Status: models.TherapistStatusAvailable}
	created := &models.ChatSession{ID: uuid.New(), PatientID: patientID, TherapistID: therapist.ID, Status: models.SessionStatusActive}
	sessions := &stubSessionStore{latestErr: pgx.ErrNoRows, createResult: created}
	finder := &stubTherapistFinder{result: therapist}
	service := NewChatService(sessions, &stubMessageStore{}, finder, nil)

	session, err := service.ResolveSession(context.Background(), patientID)
	if err != nil {
		t.Fatalf("ResolveSession: %v", err)
	}
	if session.ID != created.ID {
		t.Fatalf("expected created session, got %+v", session)
	}
	if sessions.lastTherapistID != therapist.ID {
		t.Fatalf("expected therapist %s, got %s", therapist.ID, sessions.lastTherapistID)
	}
}

func TestResolveSessionFailsWhenNoTherapistAvailable(t *testing.T) {
	sessions := &stubSessionStore{latestErr: pgx.ErrNoRows}
	finder := &stubTherapistFinder{err: pgx.ErrNoRows}
	service := NewChatService(sessions, &stubMessageStore{}, finder, nil)

	_, err := service.ResolveSession(context.Background(), uuid.New())
	if !errors.Is(err, ErrNoTherapistAvailable) {
		t.Fatalf("expected ErrNoTherapistAvailable, got %v", err)
	}
	if sessions.createCalls != 0 {
		t.Fatalf("expected no session creation, got %d", sessions.createCalls)
	}
}

func TestResolveSessionRejectsNilPatient(t *testing.T) {
	service := NewChatService(&stubSessionStore{}, &stubMessageStore{}, &stubTherapistFinder{}, nil)

	_, err := service.ResolveSession(context.Background(), uuid.Nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSessionForActorMapsMissingRowToForbidden(t *testing.T) {
	sessions := &stubSessionStore{participantErr: pgx.ErrNoRows}
	service := NewChatService(sessions, &stubMessageStore{}, &stubTherapistFinder{}, nil)

	_, err := service.SessionForActor(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestHistoryRequiresParticipation(t *testing.T) {
	sessions := &stubSessionStore{participantErr: pgx.ErrNoRows}
	messages := &stubMessageStore{listResult: []models.Message{{Content: "hidden"}}}
	service := NewChatService(sessions, messages, &stubTherapistFinder{}, nil)

	_, err := service.History(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestHistoryReturnsAllMessages(t *testing.T) {
	sessionID := uuid.New()
	actorID := uuid.New()
	sessions := &stubSessionStore{participantResult: &models.ChatSession{ID: sessionID, PatientID: actorID}}
	messages := &stubMessageStore{listResult: []models.Message{
		{ID: uuid.New(), SessionID: sessionID, Content: "first"},
		{ID: uuid.New(), SessionID: sessionID, Content: "second"},
	}}
	service := NewChatService(sessions, messages, &stubTherapistFinder{}, nil)

	history, err := service.History(context.Background(), actorID, sessionID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].Content != "first" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestSendMessageRejectsWhitespaceOnlyContent(t *testing.T) {
	messages := &stubMessageStore{}
	service := NewChatService(&stubSessionStore{}, messages, &stubTherapistFinder{}, nil)

	_, err := service.SendMessage(context.Background(), uuid.New(), uuid.New(), "   \n\t ")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if messages.createCalls != 0 {
		t.Fatalf("expected no insert for empty content, got %d", messages.createCalls)
	}
}

func TestSendMessageTrimsAndPublishesToFeed(t *testing.T) {
	sessionID := uuid.New()
	actorID := uuid.New()
	stored := &models.Message{ID: uuid.New(), SessionID: sessionID, SenderID: actorID, Content: "hello"}
	sessions := &stubSessionStore{participantResult: &models.ChatSession{ID: sessionID, PatientID: actorID}}
	messages := &stubMessageStore{createResult: stored}
	feed := &recordingFeed{}
	service := NewChatService(sessions, messages, &stubTherapistFinder{}, feed)

	message, err := service.SendMessage(context.Background(), actorID, sessionID, "  hello  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if messages.lastContent != "hello" {
		t.Fatalf("expected trimmed content, got %q", messages.lastContent)
	}
	if len(feed.published) != 1 || feed.published[0] != stored {
		t.Fatalf("expected stored message published once, got %+v", feed.published)
	}
	if message != stored {
		t.Fatalf("expected stored message returned, got %+v", message)
	}
}

func TestSendMessageRequiresParticipation(t *testing.T) {
	sessions := &stubSessionStore{participantErr: pgx.ErrNoRows}
	messages := &stubMessageStore{}
	service := NewChatService(sessions, messages, &stubTherapistFinder{}, &recordingFeed{})

	_, err := service.SendMessage(context.Background(), uuid.New(), uuid.New(), "hello")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if messages.createCalls != 0 {
		t.Fatalf("expected no insert, got %d", messages.createCalls)
	}
}
