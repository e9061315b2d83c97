package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AppointmentService struct {
	db              *pgxpool.Pool
	appointmentRepo *repository.AppointmentRepository
	userRepo        userReader
}

func NewAppointmentService(
	db *pgxpool.Pool,
	appointmentRepo *repository.AppointmentRepository,
	userRepo userReader,
) *AppointmentService {
	return &AppointmentService{
		db:              db,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
	}
}

type BookAppointmentInput struct {
	DoctorID  uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Notes     *string
}

func (s *AppointmentService) Book(
	ctx context.Context,
	patientID uuid.UUID,
	input BookAppointmentInput,
) (*models.Appointment, error) {
	if input.DoctorID == uuid.Nil || input.DoctorID == patientID {
		return nil, ErrInvalidInput
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, ErrInvalidInput
	}
	if input.StartTime.Before(time.Now().Add(-1 * time.Minute)) {
		return nil, ErrInvalidInput
	}

	doctor, err := s.userRepo.GetByID(ctx, input.DoctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	if doctor.Role != models.UserTypeDoctor {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txAppointmentRepo := repository.NewAppointmentRepository(tx)

	// Serialize bookings per doctor so two overlapping requests cannot both
	// pass the conflict check.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1::text))", input.DoctorID); err != nil {
		return nil, err
	}

	hasConflict, err := txAppointmentRepo.HasConflict(
		ctx,
		input.DoctorID,
		input.StartTime.UTC(),
		input.EndTime.UTC(),
	)
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, ErrConflict
	}

	appointment, err := txAppointmentRepo.Create(ctx, repository.CreateAppointmentInput{
		PatientID: patientID,
		DoctorID:  input.DoctorID,
		StartTime: input.StartTime.UTC(),
		EndTime:   input.EndTime.UTC(),
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return appointment, nil
}

func (s *AppointmentService) List(
	ctx context.Context,
	actorID uuid.UUID,
	role string,
	filter repository.AppointmentListFilter,
) ([]models.Appointment, error) {
	if role != models.UserTypePatient && role != models.UserTypeDoctor {
		return nil, ErrForbidden
	}

	return s.appointmentRepo.List(ctx, repository.AppointmentListFilter{
		ActorID:   actorID,
		Role:      role,
		Status:    filter.Status,
		Timeframe: filter.Timeframe,
	})
}

func (s *AppointmentService) Get(
	ctx context.Context,
	actorID uuid.UUID,
	role string,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !canAccessAppointment(role, actorID, appointment) {
		return nil, ErrForbidden
	}
	return appointment, nil
}

func (s *AppointmentService) UpdateStatus(
	ctx context.Context,
	actorID uuid.UUID,
	role string,
	appointmentID uuid.UUID,
	requestedStatus string,
) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !canAccessAppointment(role, actorID, appointment) {
		return nil, ErrForbidden
	}

	nextStatus, err := normalizeRequestedStatus(requestedStatus)
	if err != nil {
		return nil, err
	}
	if err := validateStatusTransition(role, appointment, nextStatus); err != nil {
		return nil, err
	}

	updated, err := s.appointmentRepo.UpdateStatusIfCurrent(ctx, appointmentID, appointment.Status, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

func canAccessAppointment(role string, actorID uuid.UUID, appointment *models.Appointment) bool {
	if role == models.UserTypePatient {
		return appointment.PatientID == actorID
	}
	if role == models.UserTypeDoctor {
		return appointment.DoctorID == actorID
	}
	return false
}

func normalizeRequestedStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "complete", "completed":
		return models.AppointmentStatusCompleted, nil
	case "cancel", "cancelled", "canceled":
		return models.AppointmentStatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

func validateStatusTransition(role string, appointment *models.Appointment, nextStatus string) error {
	switch role {
	case models.UserTypePatient:
		if nextStatus != models.AppointmentStatusCancelled {
			return ErrForbidden
		}
		if appointment.Status != models.AppointmentStatusScheduled {
			return ErrInvalidStateTransition
		}
		return nil
	case models.UserTypeDoctor:
		switch nextStatus {
		case models.AppointmentStatusCompleted:
			if appointment.Status != models.AppointmentStatusScheduled {
				return ErrInvalidStateTransition
			}
			if appointment.EndTime.UTC().After(time.Now().UTC()) {
				return ErrInvalidStateTransition
			}
		case models.AppointmentStatusCancelled:
			if appointment.Status != models.AppointmentStatusScheduled {
				return ErrInvalidStateTransition
			}
		default:
			return ErrInvalidStatus
		}
		return nil
	default:
		return ErrForbidden
	}
}
