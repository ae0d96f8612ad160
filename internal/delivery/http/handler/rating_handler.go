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

type RatingHandler struct {
	uc usecase.RatingUsecase
}

func NewRatingHandler(uc usecase.RatingUsecase) *RatingHandler {
	return &RatingHandler{uc: uc}
}

func (h *RatingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/rating", h.Post)
	r.Get("/rating/:user_id", h.Get)
}

func (h *RatingHandler) Post(c fiber.Ctx) error {
	var req dto.PostRatingRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}
	if err := dto.Validate.Struct(req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}
	if err := enforceActor(c, req.FromUser); err != nil {
		return err
	}

	saved, err := h.uc.PostRating(c.Context(), usecase.PostRatingInput{
		FromUser: req.FromUser,
		ToUser:   req.ToUser,
		Stars:    req.Stars,
		Feedback: req.Feedback,
	})
	if err != nil {
		return mapRatingWriteError(err)
	}

	return c.Status(fiber.StatusOK).JSON(saved)
}

func (h *RatingHandler) Get(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	out, err := h.uc.GetUserRating(c.Context(), userID)
	if err != nil {
		return mapRatingError(err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// mapRatingError covers point lookups, where an unknown user is a missing
// resource.
func mapRatingError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnknownUser):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrRatingNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Rating not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// mapRatingWriteError covers submissions, where an unknown user is a
// referential violation in the request body, not a missing resource.
func mapRatingWriteError(err error) error {
	if errors.Is(err, usecase.ErrUnknownUser) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unknown user", nil, err)
	}
	return mapRatingError(err)
}
