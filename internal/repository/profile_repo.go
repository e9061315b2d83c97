package repository

import (
	"context"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	FirstName      *string
	LastName       *string
	About          *string
	Specialization *string
	ImageURL       *string
}

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, first_name, last_name, about, specialization, image_url, user_type, created_at, updated_at`

func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID uuid.UUID, userType string) error {
	query := `INSERT INTO profiles (id, user_type) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, userType)
	return err
}

func (r *ProfileRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.LastName,
		&profile.About,
		&profile.Specialization,
		&profile.ImageURL,
		&profile.UserType,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdatePartial(
	ctx context.Context,
	userID uuid.UUID,
	req UpdateProfileInput,
) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			about = COALESCE($3, about),
			specialization = COALESCE($4, specialization),
			image_url = COALESCE($5, image_url),
			updated_at = NOW()
		WHERE id = $6
		RETURNING ` + profileColumns + `
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query,
		req.FirstName,
		req.LastName,
		req.About,
		req.Specialization,
		req.ImageURL,
		userID,
	).Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.LastName,
		&profile.About,
		&profile.Specialization,
		&profile.ImageURL,
		&profile.UserType,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
