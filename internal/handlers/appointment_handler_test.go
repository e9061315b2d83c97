package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/repository"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubAppointmentService struct {
	bookResult   *models.Appointment
	bookErr      error
	listResult   []models.Appointment
	listErr      error
	getResult    *models.Appointment
	getErr       error
	updateResult *models.Appointment
	updateErr    error
	lastInput    services.BookAppointmentInput
	lastStatus   string
	lastFilter   repository.AppointmentListFilter
}

func (s *stubAppointmentService) Book(_ context.Context, _ uuid.UUID, input services.BookAppointmentInput) (*models.Appointment, error) {
	s.lastInput = input
	return s.bookResult, s.bookErr
}

func (s *stubAppointmentService) List(_ context.Context, _ uuid.UUID, _ string, filter repository.AppointmentListFilter) ([]models.Appointment, error) {
	s.lastFilter = filter
	return s.listResult, s.listErr
}

func (s *stubAppointmentService) Get(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID) (*models.Appointment, error) {
	return s.getResult, s.getErr
}

func (s *stubAppointmentService) UpdateStatus(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID, requestedStatus string) (*models.Appointment, error) {
	s.lastStatus = requestedStatus
	return s.updateResult, s.updateErr
}

func newAppointmentTestApp(service appointmentApplicationService, role string) *fiber.App {
	handler := &AppointmentHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", uuid.NewString())
		return c.Next()
	})
	app.Post("/api/v1/appointments/book", handler.BookAppointment)
	app.Get("/api/v1/appointments", handler.ListAppointments)
	app.Get("/api/v1/appointments/:id", handler.GetAppointment)
	app.Put("/api/v1/appointments/:id/status", handler.UpdateStatus)
	return app
}

func TestBookAppointmentCreatesAppointment(t *testing.T) {
	doctorID := uuid.New()
	service := &stubAppointmentService{
		bookResult: &models.Appointment{ID: uuid.New(), DoctorID: doctorID, Status: models.AppointmentStatusScheduled},
	}
	app := newAppointmentTestApp(service, models.UserTypePatient)

	body := `{"doctor_id":"` + doctorID.String() + `","start_time":"2030-06-01T10:00:00Z","end_time":"2030-06-01T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/book", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastInput.DoctorID != doctorID {
		t.Fatalf("expected doctor %s, got %s", doctorID, service.lastInput.DoctorID)
	}
	if !service.lastInput.StartTime.Equal(time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time: %s", service.lastInput.StartTime)
	}
}

func TestBookAppointmentRejectsDoctors(t *testing.T) {
	app := newAppointmentTestApp(&stubAppointmentService{}, models.UserTypeDoctor)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/book", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestBookAppointmentMapsConflictTo409(t *testing.T) {
	service := &stubAppointmentService{bookErr: services.ErrConflict}
	app := newAppointmentTestApp(service, models.UserTypePatient)

	body := `{"doctor_id":"` + uuid.NewString() + `","start_time":"2030-06-01T10:00:00Z","end_time":"2030-06-01T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/book", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestListAppointmentsRejectsBadTimeframe(t *testing.T) {
	app := newAppointmentTestApp(&stubAppointmentService{}, models.UserTypePatient)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?timeframe=someday", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateStatusMapsInvalidTransitionTo422(t *testing.T) {
	service := &stubAppointmentService{updateErr: services.ErrInvalidStateTransition}
	app := newAppointmentTestApp(service, models.UserTypeDoctor)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+uuid.NewString()+"/status", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if service.lastStatus != "completed" {
		t.Fatalf("expected status forwarded, got %q", service.lastStatus)
	}
}
