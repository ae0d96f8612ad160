package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	ID        uuid.UUID
	User1ID   uuid.UUID
	User2ID   uuid.UUID
	CreatedAt time.Time
}

type Message struct {
	ID         uuid.UUID
	ChatID     uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
	SentAt     time.Time
}

func (c Chat) HasParticipant(userID uuid.UUID) bool {
	return c.User1ID == userID || c.User2ID == userID
}

func (c Chat) Counterpart(userID uuid.UUID) (uuid.UUID, bool) {
	if c.User1ID == userID {
		return c.User2ID, true
	}
	if c.User2ID == userID {
		return c.User1ID, true
	}
	return uuid.Nil, false
}

// CanonicalPair orders an unordered user pair so the same two users always
// map to the same (user1, user2) storage key.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) <= 0 {
		return a, b
	}
	return b, a
}
