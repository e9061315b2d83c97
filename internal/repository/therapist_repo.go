package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
)

type TherapistListFilter struct {
	Specialty string
	Status    string
	Offset    int
	Limit     int
}

type TherapistRepository struct {
	db DBTX
}

func NewTherapistRepository(db DBTX) *TherapistRepository {
	return &TherapistRepository{db: db}
}

const therapistColumns = `id, user_id, first_name, last_name, specialty, image_url, status, created_at`

// FindAvailable picks one available therapist. Which one is unspecified;
// the query takes whatever the planner returns first.
func (r *TherapistRepository) FindAvailable(ctx context.Context) (*models.Therapist, error) {
	query := `
		SELECT ` + therapistColumns + `
		FROM therapists
		WHERE status = $1
		LIMIT 1
	`

	var therapist models.Therapist
	err := r.db.QueryRow(ctx, query, models.TherapistStatusAvailable).Scan(
		&therapist.ID,
		&therapist.UserID,
		&therapist.FirstName,
		&therapist.LastName,
		&therapist.Specialty,
		&therapist.ImageURL,
		&therapist.Status,
		&therapist.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &therapist, nil
}

func (r *TherapistRepository) GetByID(ctx context.Context, therapistID uuid.UUID) (*models.Therapist, error) {
	query := `
		SELECT ` + therapistColumns + `
		FROM therapists
		WHERE id = $1
	`

	var therapist models.Therapist
	err := r.db.QueryRow(ctx, query, therapistID).Scan(
		&therapist.ID,
		&therapist.UserID,
		&therapist.FirstName,
		&therapist.LastName,
		&therapist.Specialty,
		&therapist.ImageURL,
		&therapist.Status,
		&therapist.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &therapist, nil
}

func (r *TherapistRepository) List(
	ctx context.Context,
	filter TherapistListFilter,
) ([]models.Therapist, int, error) {
	args := []any{}
	whereParts := []string{}

	if specialty := strings.TrimSpace(filter.Specialty); specialty != "" {
		args = append(args, specialty)
		whereParts = append(whereParts, fmt.Sprintf("specialty = $%d", len(args)))
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := ""
	if len(whereParts) > 0 {
		whereClause = "WHERE " + strings.Join(whereParts, " AND ")
	}

	totalQuery := fmt.Sprintf(`SELECT COUNT(*) FROM therapists %s`, whereClause)
	var total int
	if err := r.db.QueryRow(ctx, totalQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT `+therapistColumns+`
		FROM therapists
		%s
		ORDER BY last_name ASC, first_name ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	therapists := make([]models.Therapist, 0)
	for rows.Next() {
		var therapist models.Therapist
		if err := rows.Scan(
			&therapist.ID,
			&therapist.UserID,
			&therapist.FirstName,
			&therapist.LastName,
			&therapist.Specialty,
			&therapist.ImageURL,
			&therapist.Status,
			&therapist.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		therapists = append(therapists, therapist)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return therapists, total, nil
}

func (r *TherapistRepository) ListAll(ctx context.Context) ([]models.Therapist, error) {
	query := `
		SELECT ` + therapistColumns + `
		FROM therapists
		ORDER BY last_name ASC, first_name ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	therapists := make([]models.Therapist, 0)
	for rows.Next() {
		var therapist models.Therapist
		if err := rows.Scan(
			&therapist.ID,
			&therapist.UserID,
			&therapist.FirstName,
			&therapist.LastName,
			&therapist.Specialty,
			&therapist.ImageURL,
			&therapist.Status,
			&therapist.CreatedAt,
		); err != nil {
			return nil, err
		}
		therapists = append(therapists, therapist)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return therapists, nil
}
