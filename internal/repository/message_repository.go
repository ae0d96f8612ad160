package repository

import (
	"context"
	"time"

	"skilltrade/internal/database"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID
	ChatID     uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
	SentAt     time.Time
}

type MessageRepository interface {
	Create(ctx context.Context, m Message) (Message, error)
	ListByChatID(ctx context.Context, chatID uuid.UUID) ([]Message, error)
}

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m Message) (Message, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO messages (id, chat_id, sender_id, receiver_id, content)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, chat_id, sender_id, receiver_id, content, sent_at`,
		uuid.New(), m.ChatID, m.SenderID, m.ReceiverID, m.Content,
	)

	var created Message
	if err := row.Scan(&created.ID, &created.ChatID, &created.SenderID, &created.ReceiverID, &created.Content, &created.SentAt); err != nil {
		return Message{}, err
	}
	return created, nil
}

func (r *PostgresMessageRepository) ListByChatID(ctx context.Context, chatID uuid.UUID) ([]Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, chat_id, sender_id, receiver_id, content, sent_at
		 FROM messages WHERE chat_id = $1
		 ORDER BY sent_at ASC, id ASC`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.ReceiverID, &m.Content, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
