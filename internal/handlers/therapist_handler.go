package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type therapistDirectory interface {
	List(ctx context.Context, filter repository.TherapistListFilter) ([]models.Therapist, int, error)
	GetByID(ctx context.Context, therapistID uuid.UUID) (*models.Therapist, error)
}

type therapistMatchmaker interface {
	RecommendTherapists(ctx context.Context, concern string, limit int) ([]models.TherapistWithScore, error)
}

type TherapistHandler struct {
	therapistRepo      therapistDirectory
	matchmakingService therapistMatchmaker
}

func NewTherapistHandler(
	therapistRepo therapistDirectory,
	matchmakingService therapistMatchmaker,
) *TherapistHandler {
	return &TherapistHandler{
		therapistRepo:      therapistRepo,
		matchmakingService: matchmakingService,
	}
}

func (h *TherapistHandler) ListTherapists(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	specialty := strings.TrimSpace(c.Query("specialty"))
	if specialty != "" {
		if err := validateSpecialization(specialty); err != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err})
		}
	}

	therapists, total, err := h.therapistRepo.List(c.Context(), repository.TherapistListFilter{
		Specialty: specialty,
		Status:    strings.TrimSpace(c.Query("status")),
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch therapists"})
	}

	response := make([]models.TherapistListResponse, 0, len(therapists))
	for _, therapist := range therapists {
		response = append(response, buildTherapistListResponse(therapist, 0))
	}

	return c.JSON(fiber.Map{
		"therapists": response,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *TherapistHandler) GetRecommendedTherapists(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.UserTypePatient {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	therapists, err := h.matchmakingService.RecommendTherapists(c.Context(), c.Query("concern"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recommended therapists"})
	}

	response := make([]models.TherapistListResponse, 0, len(therapists))
	for _, therapist := range therapists {
		response = append(response, buildTherapistListResponse(therapist.Therapist, therapist.MatchScore))
	}

	return c.JSON(fiber.Map{"therapists": response})
}

func (h *TherapistHandler) GetTherapistDetail(c *fiber.Ctx) error {
	therapistID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid therapist id"})
	}

	therapist, err := h.therapistRepo.GetByID(c.Context(), therapistID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Therapist not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch therapist"})
	}

	return c.JSON(fiber.Map{"therapist": buildTherapistListResponse(*therapist, 0)})
}

func buildTherapistListResponse(therapist models.Therapist, matchScore int) models.TherapistListResponse {
	response := models.TherapistListResponse{
		ID:        therapist.ID.String(),
		FirstName: therapist.FirstName,
		LastName:  therapist.LastName,
		Specialty: therapist.Specialty,
		ImageURL:  stringValue(therapist.ImageURL),
		Status:    therapist.Status,
	}
	if matchScore > 0 {
		response.MatchScore = matchScore
	}
	return response
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
