package services

import (
	"context"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/repository"
	"github.com/google/uuid"
)

type ProfileUpdater interface {
	UpdatePartial(ctx context.Context, userID uuid.UUID, req repository.UpdateProfileInput) (*models.Profile, error)
}

type ProfileService struct {
	profileRepo ProfileUpdater
}

func NewProfileService(profileRepo ProfileUpdater) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	req repository.UpdateProfileInput,
) (*models.Profile, error) {
	return s.profileRepo.UpdatePartial(ctx, userID, req)
}
