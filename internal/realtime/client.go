package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/services"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Frame is the wire envelope for the chat websocket. The server emits
// "session", "history", "message" and "error" frames; clients send
// "message" frames only.
type Frame struct {
	Type     string              `json:"type"`
	Session  *models.ChatSession `json:"session,omitempty"`
	Messages []models.Message    `json:"messages,omitempty"`
	Message  *models.Message     `json:"message,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type sender interface {
	SendMessage(ctx context.Context, actorID uuid.UUID, sessionID uuid.UUID, content string) (*models.Message, error)
}

type Client struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, 32),
	}
}

func (c *Client) SendFrame(frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		zap.S().Errorw("chat stream encode frame", "error", err)
		return
	}
	c.enqueue(payload)
}

func (c *Client) SendError(message string) {
	c.SendFrame(Frame{Type: "error", Error: message})
}

func (c *Client) enqueue(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// Close stops the write pump. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// Forward drains a subscription into the connection until the subscription
// is released.
func (c *Client) Forward(sub *Subscription) {
	for message := range sub.Events() {
		c.SendFrame(Frame{Type: "message", Message: message})
	}
}

// ReadPump consumes client frames until the connection drops. Each
// well-formed "message" frame becomes one store write; the echo reaches
// the client through the feed, not from here.
func (c *Client) ReadPump(service sender, actorID uuid.UUID, sessionID uuid.UUID) {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.SendError("invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			c.SendError("unsupported message type")
			continue
		}

		if _, err := service.SendMessage(context.Background(), actorID, sessionID, incoming.Content); err != nil {
			c.SendError(sendErrorText(err))
		}
	}
}

func sendErrorText(err error) string {
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		return "message content must not be empty"
	case errors.Is(err, services.ErrForbidden):
		return "not a participant of this session"
	default:
		return "failed to send message"
	}
}
