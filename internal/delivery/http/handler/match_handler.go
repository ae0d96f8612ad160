package handler

import (
	"errors"

	"skilltrade/internal/delivery/http/middleware"
	"skilltrade/internal/pkg/response"
	"skilltrade/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/match/:user_id", h.List)
	r.Post("/recalculate-matches/:user_id", h.Recalculate)
}

func (h *MatchHandler) List(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	items, err := h.uc.GetMatches(c.Context(), userID)
	if err != nil {
		return mapMatchingError(err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

func (h *MatchHandler) Recalculate(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	if err := h.uc.Recalculate(c.Context(), userID); err != nil {
		return mapMatchingError(err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func mapMatchingError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnknownUser):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
