package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/realtime"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/services"
	"github.com/ArminNeyrizi/TherapyChatBack/pkg/utils"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type chatApplicationService interface {
	ResolveSession(ctx context.Context, patientID uuid.UUID) (*models.ChatSession, error)
	SessionForActor(ctx context.Context, actorID uuid.UUID, sessionID uuid.UUID) (*models.ChatSession, error)
	History(ctx context.Context, actorID uuid.UUID, sessionID uuid.UUID) ([]models.Message, error)
	SendMessage(ctx context.Context, actorID uuid.UUID, sessionID uuid.UUID, content string) (*models.Message, error)
}

type ChatHandler struct {
	service   chatApplicationService
	hub       *realtime.Hub
	jwtSecret string
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func NewChatHandler(service chatApplicationService, hub *realtime.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// ResolveSession returns the patient's active chat session, creating one
// against an available therapist when none exists.
func (h *ChatHandler) ResolveSession(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.UserTypePatient {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	session, err := h.service.ResolveSession(c.Context(), actorID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	messages, err := h.service.History(c.Context(), actorID, sessionID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	message, err := h.service.SendMessage(c.Context(), actorID, sessionID, req.Content)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

// HandleWebSocket drives one chat client's lifetime: resolve the session,
// push the history snapshot, then bridge the insert feed and inbound sends
// until the connection drops. The feed subscription is released exactly
// once, whichever way the bootstrap or the connection ends.
func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	userIDStr, _ := conn.Locals("user_id").(string)
	role, _ := conn.Locals("role").(string)

	client := realtime.NewClient(conn)
	go client.WritePump()
	defer client.Close()

	actorID, err := uuid.Parse(userIDStr)
	if err != nil {
		client.SendError("invalid user")
		return
	}

	ctx := context.Background()
	session, err := h.bootstrapSession(ctx, conn, actorID, role)
	if err != nil {
		client.SendError(bootstrapErrorText(err))
		return
	}

	history, err := h.service.History(ctx, actorID, session.ID)
	if err != nil {
		client.SendError("failed to load message history")
		return
	}

	client.SendFrame(realtime.Frame{Type: "session", Session: session})
	client.SendFrame(realtime.Frame{Type: "history", Messages: history})

	sub := h.hub.Subscribe(session.ID)
	defer h.hub.Unsubscribe(sub)
	go client.Forward(sub)

	client.ReadPump(h.service, actorID, session.ID)
}

// bootstrapSession picks the session this connection is about. Patients
// resolve their current session implicitly; anyone naming a session must
// be one of its participants.
func (h *ChatHandler) bootstrapSession(
	ctx context.Context,
	conn *websocket.Conn,
	actorID uuid.UUID,
	role string,
) (*models.ChatSession, error) {
	rawSessionID := strings.TrimSpace(conn.Query("session_id"))
	if rawSessionID == "" {
		if role != models.UserTypePatient {
			return nil, services.ErrForbidden
		}
		return h.service.ResolveSession(ctx, actorID)
	}

	sessionID, err := uuid.Parse(rawSessionID)
	if err != nil {
		return nil, services.ErrInvalidInput
	}
	return h.service.SessionForActor(ctx, actorID, sessionID)
}

func (h *ChatHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}

func bootstrapErrorText(err error) string {
	switch {
	case errors.Is(err, services.ErrNoTherapistAvailable):
		return "No therapists are currently available"
	case errors.Is(err, services.ErrForbidden):
		return "Not a participant of this session"
	case errors.Is(err, services.ErrInvalidInput):
		return "Invalid session id"
	default:
		return "Failed to open chat session"
	}
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoTherapistAvailable):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No therapists are currently available"})
	case errors.Is(err, services.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message content must not be empty"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process chat request"})
	}
}
