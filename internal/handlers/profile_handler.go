package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/repository"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const maxAvatarSizeBytes = 5 * 1024 * 1024

type profileStore interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type ProfileHandler struct {
	profileService *services.ProfileService
	profileRepo    profileStore
	storageService services.StorageService
}

func NewProfileHandler(
	profileService *services.ProfileService,
	profileRepo profileStore,
	storageService services.StorageService,
) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		profileRepo:    profileRepo,
		storageService: storageService,
	}
}

type updateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	About          *string `json:"about"`
	Specialization *string `json:"specialization"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profileRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateProfileUpdateRequest(role, req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.profileService.UpdateProfile(c.Context(), userID, repository.UpdateProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		About:          req.About,
		Specialization: req.Specialization,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is empty"})
	}
	if fileHeader.Size > maxAvatarSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file exceeds 5MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open avatar file"})
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be a jpg, jpeg, png, or webp file"})
	}

	filename := fmt.Sprintf("%s-%d%s", userID, time.Now().UnixNano(), ext)
	avatarURL, err := h.storageService.UploadFile(c.Context(), file, filename, "profiles/avatars")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload avatar"})
	}

	currentProfile, err := h.profileRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	if currentProfile.ImageURL != nil && *currentProfile.ImageURL != "" && *currentProfile.ImageURL != avatarURL {
		_ = h.storageService.DeleteFile(c.Context(), *currentProfile.ImageURL)
	}

	profile, err := h.profileService.UpdateProfile(c.Context(), userID, repository.UpdateProfileInput{
		ImageURL: &avatarURL,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"avatar_url": avatarURL,
		"profile":    profile,
	})
}

func parseActorID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return uuid.Nil, errors.New("missing user id")
	}
	return uuid.Parse(userIDStr)
}
