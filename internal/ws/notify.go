package ws

import (
	"encoding/json"

	"github.com/google/uuid"

	"skilltrade/internal/usecase"
)

type messageCreatedEvent struct {
	Type    string              `json:"type"`
	ChatID  uuid.UUID           `json:"chat_id"`
	Message usecase.MessageItem `json:"message"`
}

// Notifier pushes persisted chat messages to the chat's websocket
// subscribers. Satisfies usecase.MessageNotifier.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) MessageCreated(chatID uuid.UUID, m usecase.MessageItem) {
	if n == nil || n.hub == nil {
		return
	}

	evt := messageCreatedEvent{
		Type:    "message_created",
		ChatID:  chatID,
		Message: m,
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	n.hub.Broadcast(chatID.String(), b)
}
