package dto

import "github.com/google/uuid"

type CreateSkillRequest struct {
	Name string `json:"name" validate:"required"`
}

type SaveProfileRequest struct {
	UserID     uuid.UUID   `json:"user_id" validate:"required"`
	FullName   string      `json:"full_name"`
	Bio        string      `json:"bio"`
	AvatarURL  string      `json:"avatar_url"`
	SkillsHave []uuid.UUID `json:"skills_have"`
	SkillsWant []uuid.UUID `json:"skills_want"`
}

type PostRatingRequest struct {
	FromUser uuid.UUID `json:"from_user" validate:"required"`
	ToUser   uuid.UUID `json:"to_user" validate:"required"`
	Stars    int       `json:"stars" validate:"min=1,max=5"`
	Feedback string    `json:"feedback"`
}

type CreateChatRequest struct {
	User1ID uuid.UUID `json:"user1_id" validate:"required"`
	User2ID uuid.UUID `json:"user2_id" validate:"required"`
}

type SendMessageRequest struct {
	ChatID     uuid.UUID `json:"chat_id" validate:"required"`
	SenderID   uuid.UUID `json:"sender_id" validate:"required"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Content    string    `json:"content" validate:"required"`
}
