package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
)

type CreateAppointmentInput struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Notes     *string
}

type AppointmentListFilter struct {
	ActorID   uuid.UUID
	Role      string
	Status    string
	Timeframe string
}

type AppointmentRepository struct {
	db DBTX
}

func NewAppointmentRepository(db DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, patient_id, doctor_id, start_time, end_time, status, notes, created_at, updated_at`

func (r *AppointmentRepository) Create(
	ctx context.Context,
	input CreateAppointmentInput,
) (*models.Appointment, error) {
	query := `
		INSERT INTO appointments (patient_id, doctor_id, start_time, end_time, status, notes)
		VALUES ($1, $2, $3, $4, 'scheduled', $5)
		RETURNING ` + appointmentColumns + `
	`

	var appointment models.Appointment
	err := r.db.QueryRow(
		ctx,
		query,
		input.PatientID,
		input.DoctorID,
		input.StartTime,
		input.EndTime,
		input.Notes,
	).Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.DoctorID,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, appointmentID uuid.UUID) (*models.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1
	`
	var appointment models.Appointment
	err := r.db.QueryRow(ctx, query, appointmentID).Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.DoctorID,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentRepository) List(
	ctx context.Context,
	filter AppointmentListFilter,
) ([]models.Appointment, error) {
	actorColumn := "patient_id"
	if filter.Role == models.UserTypeDoctor {
		actorColumn = "doctor_id"
	}

	args := []any{filter.ActorID}
	whereParts := []string{fmt.Sprintf("%s = $1", actorColumn)}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	switch strings.TrimSpace(filter.Timeframe) {
	case "upcoming":
		whereParts = append(whereParts, "end_time > NOW()")
	case "past":
		whereParts = append(whereParts, "end_time <= NOW()")
	}

	query := fmt.Sprintf(`
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE %s
		ORDER BY start_time ASC, id ASC
	`, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := make([]models.Appointment, 0)
	for rows.Next() {
		var appointment models.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.PatientID,
			&appointment.DoctorID,
			&appointment.StartTime,
			&appointment.EndTime,
			&appointment.Status,
			&appointment.Notes,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return appointments, nil
}

func (r *AppointmentRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	appointmentID uuid.UUID,
	currentStatus string,
	nextStatus string,
) (*models.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + appointmentColumns + `
	`
	var appointment models.Appointment
	err := r.db.QueryRow(ctx, query, appointmentID, currentStatus, nextStatus).Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.DoctorID,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentRepository) HasConflict(
	ctx context.Context,
	doctorID uuid.UUID,
	startTime time.Time,
	endTime time.Time,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM appointments
			WHERE doctor_id = $1
			  AND status <> 'cancelled'
			  AND start_time < $3
			  AND end_time > $2
		)
	`
	var hasConflict bool
	if err := r.db.QueryRow(ctx, query, doctorID, startTime, endTime).Scan(&hasConflict); err != nil {
		return false, err
	}
	return hasConflict, nil
}
