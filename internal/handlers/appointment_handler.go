package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/repository"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AppointmentHandler struct {
	service appointmentApplicationService
}

type appointmentApplicationService interface {
	Book(ctx context.Context, patientID uuid.UUID, input services.BookAppointmentInput) (*models.Appointment, error)
	List(ctx context.Context, actorID uuid.UUID, role string, filter repository.AppointmentListFilter) ([]models.Appointment, error)
	Get(ctx context.Context, actorID uuid.UUID, role string, appointmentID uuid.UUID) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, role string, appointmentID uuid.UUID, requestedStatus string) (*models.Appointment, error)
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type bookAppointmentRequest struct {
	DoctorID  string  `json:"doctor_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Notes     *string `json:"notes"`
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

func (h *AppointmentHandler) BookAppointment(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.UserTypePatient {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	patientID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req bookAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	doctorID, err := uuid.Parse(strings.TrimSpace(req.DoctorID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "doctor_id must be a valid id"})
	}
	startTime, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartTime))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_time must be a valid RFC3339 timestamp"})
	}
	endTime, err := time.Parse(time.RFC3339, strings.TrimSpace(req.EndTime))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must be a valid RFC3339 timestamp"})
	}
	if req.Notes != nil && strings.TrimSpace(*req.Notes) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "notes must not be empty"})
	}

	appointment, err := h.service.Book(c.Context(), patientID, services.BookAppointmentInput{
		DoctorID:  doctorID,
		StartTime: startTime,
		EndTime:   endTime,
		Notes:     req.Notes,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"appointment": appointment})
}

func (h *AppointmentHandler) ListAppointments(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.UserTypePatient && role != models.UserTypeDoctor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	timeframe := strings.TrimSpace(c.Query("timeframe"))
	if timeframe != "" && timeframe != "upcoming" && timeframe != "past" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "timeframe must be upcoming or past"})
	}

	appointments, err := h.service.List(c.Context(), actorID, role, repository.AppointmentListFilter{
		Status:    strings.TrimSpace(c.Query("status")),
		Timeframe: timeframe,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return c.JSON(fiber.Map{"appointments": appointments})
}

func (h *AppointmentHandler) GetAppointment(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.UserTypePatient && role != models.UserTypeDoctor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment id"})
	}

	appointment, err := h.service.Get(c.Context(), actorID, role, appointmentID)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return c.JSON(fiber.Map{"appointment": appointment})
}

func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.UserTypePatient && role != models.UserTypeDoctor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment id"})
	}

	var req updateAppointmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	appointment, err := h.service.UpdateStatus(c.Context(), actorID, role, appointmentID, req.Status)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return c.JSON(fiber.Map{"appointment": appointment})
}

func mapAppointmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Requested time conflicts with another appointment"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrDoctorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Doctor not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process appointment request"})
	}
}
