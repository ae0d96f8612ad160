package handler

import (
	"errors"

	"skilltrade/internal/delivery/http/dto"
	"skilltrade/internal/delivery/http/middleware"
	"skilltrade/internal/pkg/response"
	"skilltrade/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ChatHandler struct {
	uc usecase.ChatUsecase
}

func NewChatHandler(uc usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/chats", h.Create)
	r.Get("/get_user_chats/:user_id", h.ListForUser)
	r.Get("/get_chat/:chat_id", h.Get)
	r.Get("/get_chat_messages/:chat_id", h.ListMessages)
	r.Post("/send_message", h.SendMessage)
}

func (h *ChatHandler) Create(c fiber.Ctx) error {
	var req dto.CreateChatRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}
	if err := dto.Validate.Struct(req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	chat, err := h.uc.FindOrCreateChat(c.Context(), req.User1ID, req.User2ID)
	if err != nil {
		// Unknown users named in the body are a referential violation,
		// not a missing resource.
		if errors.Is(err, usecase.ErrUnknownUser) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unknown user", nil, err)
		}
		return mapChatError(err)
	}
	return c.Status(fiber.StatusOK).JSON(chat)
}

func (h *ChatHandler) ListForUser(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	chats, err := h.uc.ListUserChats(c.Context(), userID)
	if err != nil {
		return mapChatError(err)
	}
	return c.Status(fiber.StatusOK).JSON(chats)
}

func (h *ChatHandler) Get(c fiber.Ctx) error {
	chatID, err := uuid.Parse(c.Params("chat_id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	chat, err := h.uc.GetChat(c.Context(), chatID)
	if err != nil {
		return mapChatError(err)
	}
	return c.Status(fiber.StatusOK).JSON(chat)
}

func (h *ChatHandler) ListMessages(c fiber.Ctx) error {
	chatID, err := uuid.Parse(c.Params("chat_id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	msgs, err := h.uc.ListMessages(c.Context(), chatID)
	if err != nil {
		return mapChatError(err)
	}
	return c.Status(fiber.StatusOK).JSON(msgs)
}

func (h *ChatHandler) SendMessage(c fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}
	if err := dto.Validate.Struct(req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}
	if err := enforceActor(c, req.SenderID); err != nil {
		return err
	}

	msg, err := h.uc.SendMessage(c.Context(), usecase.SendMessageInput{
		ChatID:     req.ChatID,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		return mapChatError(err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.SendMessageResponse{Success: true, Message: msg})
}

func mapChatError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnknownUser):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrChatNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Chat not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
