package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skilltrade/internal/domain/chat"
	"skilltrade/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrForbidden    = errors.New("forbidden")
)

// MessageNotifier pushes a created message to live subscribers of its chat.
type MessageNotifier interface {
	MessageCreated(chatID uuid.UUID, m MessageItem)
}

type ChatItem struct {
	ID        uuid.UUID `json:"chat_id"`
	User1ID   uuid.UUID `json:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatSummaryItem struct {
	ChatID      uuid.UUID `json:"chat_id"`
	User1ID     uuid.UUID `json:"user1_id"`
	User2ID     uuid.UUID `json:"user2_id"`
	User1Name   string    `json:"user1_name"`
	User2Name   string    `json:"user2_name"`
	LastMessage string    `json:"last_message"`
	CreatedAt   time.Time `json:"created_at"`
}

type MessageItem struct {
	ID         uuid.UUID `json:"id"`
	ChatID     uuid.UUID `json:"chat_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

type SendMessageInput struct {
	ChatID     uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
}

type ChatUsecase interface {
	FindOrCreateChat(ctx context.Context, userA, userB uuid.UUID) (ChatItem, error)
	ListUserChats(ctx context.Context, userID uuid.UUID) ([]ChatSummaryItem, error)
	GetChat(ctx context.Context, chatID uuid.UUID) (ChatItem, error)
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]MessageItem, error)
	SendMessage(ctx context.Context, in SendMessageInput) (MessageItem, error)
}

type Chat struct {
	chats    repository.ChatRepository
	messages repository.MessageRepository
	profiles repository.ProfileRepository
	notifier MessageNotifier
}

func NewChatUsecase(chats repository.ChatRepository, messages repository.MessageRepository, profiles repository.ProfileRepository, notifier MessageNotifier) *Chat {
	return &Chat{chats: chats, messages: messages, profiles: profiles, notifier: notifier}
}

// FindOrCreateChat is idempotent over the unordered pair: (A,B) and (B,A)
// resolve to the same chat, and concurrent calls converge on one row.
func (u *Chat) FindOrCreateChat(ctx context.Context, userA, userB uuid.UUID) (ChatItem, error) {
	if userA == uuid.Nil || userB == uuid.Nil || userA == userB {
		return ChatItem{}, ErrInvalidInput
	}

	for _, id := range []uuid.UUID{userA, userB} {
		exists, err := u.profiles.ExistsByUserID(ctx, id)
		if err != nil {
			return ChatItem{}, ErrInternal
		}
		if !exists {
			return ChatItem{}, ErrUnknownUser
		}
	}

	user1, user2 := chat.CanonicalPair(userA, userB)
	c, err := u.chats.FindOrCreate(ctx, user1, user2)
	if err != nil {
		return ChatItem{}, ErrInternal
	}
	return toChatItem(c), nil
}

func (u *Chat) ListUserChats(ctx context.Context, userID uuid.UUID) ([]ChatSummaryItem, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	rows, err := u.chats.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ChatSummaryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, ChatSummaryItem{
			ChatID:      row.ChatID,
			User1ID:     row.User1ID,
			User2ID:     row.User2ID,
			User1Name:   row.User1Name,
			User2Name:   row.User2Name,
			LastMessage: row.LastMessage,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}

func (u *Chat) GetChat(ctx context.Context, chatID uuid.UUID) (ChatItem, error) {
	if chatID == uuid.Nil {
		return ChatItem{}, ErrInvalidInput
	}

	c, err := u.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			return ChatItem{}, ErrChatNotFound
		}
		return ChatItem{}, ErrInternal
	}
	return toChatItem(c), nil
}

func (u *Chat) ListMessages(ctx context.Context, chatID uuid.UUID) ([]MessageItem, error) {
	if chatID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	if _, err := u.chats.GetByID(ctx, chatID); err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, ErrInternal
	}

	msgs, err := u.messages.ListByChatID(ctx, chatID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]MessageItem, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageItem(m))
	}
	return out, nil
}

// SendMessage persists the message and broadcasts it to the chat's live
// subscribers. The sender must be a participant and the receiver must be
// the counterpart.
func (u *Chat) SendMessage(ctx context.Context, in SendMessageInput) (MessageItem, error) {
	if in.ChatID == uuid.Nil || in.SenderID == uuid.Nil {
		return MessageItem{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Content) == "" {
		return MessageItem{}, ErrInvalidInput
	}

	c, err := u.chats.GetByID(ctx, in.ChatID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			return MessageItem{}, ErrChatNotFound
		}
		return MessageItem{}, ErrInternal
	}

	counterpart, ok := chatCounterpart(c, in.SenderID)
	if !ok {
		return MessageItem{}, ErrForbidden
	}
	if in.ReceiverID == uuid.Nil {
		in.ReceiverID = counterpart
	}
	if in.ReceiverID != counterpart {
		return MessageItem{}, ErrInvalidInput
	}

	created, err := u.messages.Create(ctx, repository.Message{
		ChatID:     in.ChatID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
	})
	if err != nil {
		return MessageItem{}, ErrInternal
	}

	item := toMessageItem(created)
	if u.notifier != nil {
		u.notifier.MessageCreated(in.ChatID, item)
	}
	return item, nil
}

func chatCounterpart(c repository.Chat, userID uuid.UUID) (uuid.UUID, bool) {
	dc := chat.Chat{ID: c.ID, User1ID: c.User1ID, User2ID: c.User2ID, CreatedAt: c.CreatedAt}
	return dc.Counterpart(userID)
}

func toChatItem(c repository.Chat) ChatItem {
	return ChatItem{ID: c.ID, User1ID: c.User1ID, User2ID: c.User2ID, CreatedAt: c.CreatedAt}
}

func toMessageItem(m repository.Message) MessageItem {
	return MessageItem{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		SentAt:     m.SentAt,
	}
}
