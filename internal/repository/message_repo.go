package repository

import (
	"context"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(
	ctx context.Context,
	sessionID uuid.UUID,
	senderID uuid.UUID,
	content string,
) (*models.Message, error) {
	query := `
		INSERT INTO messages (session_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, sender_id, content, created_at
	`

	var message models.Message
	err := r.db.QueryRow(ctx, query, sessionID, senderID, content).Scan(
		&message.ID,
		&message.SessionID,
		&message.SenderID,
		&message.Content,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListBySession returns the session's full history, oldest first. Chat
// history is intentionally unpaginated.
func (r *MessageRepository) ListBySession(
	ctx context.Context,
	sessionID uuid.UUID,
) ([]models.Message, error) {
	query := `
		SELECT id, session_id, sender_id, content, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.SenderID,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}

		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
