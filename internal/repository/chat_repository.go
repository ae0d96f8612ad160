package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skilltrade/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrChatNotFound = errors.New("chat not found")

type Chat struct {
	ID        uuid.UUID
	User1ID   uuid.UUID
	User2ID   uuid.UUID
	CreatedAt time.Time
}

// ChatSummary is a chat joined with both display names and the latest
// message, for the chat list view.
type ChatSummary struct {
	ChatID      uuid.UUID
	User1ID     uuid.UUID
	User2ID     uuid.UUID
	User1Name   string
	User2Name   string
	LastMessage string
	CreatedAt   time.Time
}

type ChatRepository interface {
	FindOrCreate(ctx context.Context, user1ID, user2ID uuid.UUID) (Chat, error)
	GetByID(ctx context.Context, chatID uuid.UUID) (Chat, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]ChatSummary, error)
}

type PostgresChatRepository struct {
	db database.DB
}

func NewPostgresChatRepository(db database.DB) *PostgresChatRepository {
	return &PostgresChatRepository{db: db}
}

// FindOrCreate expects the pair in canonical order. The unique constraint on
// (user1_id, user2_id) makes concurrent calls converge on a single row: the
// conflicting insert is a no-op and the follow-up select returns the winner.
func (r *PostgresChatRepository) FindOrCreate(ctx context.Context, user1ID, user2ID uuid.UUID) (Chat, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chats (id, user1_id, user2_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user1_id, user2_id) DO NOTHING`,
		uuid.New(), user1ID, user2ID,
	)
	if err != nil {
		return Chat{}, err
	}

	row := r.db.QueryRow(ctx,
		`SELECT id, user1_id, user2_id, created_at
		 FROM chats WHERE user1_id = $1 AND user2_id = $2`,
		user1ID, user2ID,
	)

	var c Chat
	if err := row.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt); err != nil {
		return Chat{}, err
	}
	return c, nil
}

func (r *PostgresChatRepository) GetByID(ctx context.Context, chatID uuid.UUID) (Chat, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user1_id, user2_id, created_at FROM chats WHERE id = $1`,
		chatID,
	)

	var c Chat
	if err := row.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Chat{}, ErrChatNotFound
		}
		return Chat{}, err
	}
	return c, nil
}

func (r *PostgresChatRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]ChatSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.user1_id, c.user2_id,
		        COALESCE(p1.full_name, ''), COALESCE(p2.full_name, ''),
		        COALESCE((SELECT m.content FROM messages m WHERE m.chat_id = c.id ORDER BY m.sent_at DESC LIMIT 1), ''),
		        c.created_at
		 FROM chats c
		 LEFT JOIN profiles p1 ON p1.user_id = c.user1_id
		 LEFT JOIN profiles p2 ON p2.user_id = c.user2_id
		 WHERE c.user1_id = $1 OR c.user2_id = $1
		 ORDER BY COALESCE((SELECT MAX(m.sent_at) FROM messages m WHERE m.chat_id = c.id), c.created_at) DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ChatSummary, 0)
	for rows.Next() {
		var cs ChatSummary
		if err := rows.Scan(&cs.ChatID, &cs.User1ID, &cs.User2ID, &cs.User1Name, &cs.User2Name, &cs.LastMessage, &cs.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
