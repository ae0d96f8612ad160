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

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Put("/profile", h.Save)
	r.Get("/get_user_profile/:user_id", h.Get)
}

func (h *ProfileHandler) Save(c fiber.Ctx) error {
	var req dto.SaveProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}
	if err := dto.Validate.Struct(req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}
	if err := enforceActor(c, req.UserID); err != nil {
		return err
	}

	saved, err := h.uc.SaveProfile(c.Context(), usecase.SaveProfileInput{
		UserID:     req.UserID,
		FullName:   req.FullName,
		Bio:        req.Bio,
		AvatarURL:  req.AvatarURL,
		SkillsHave: req.SkillsHave,
		SkillsWant: req.SkillsWant,
	})
	if err != nil {
		return mapProfileError(err)
	}

	return c.Status(fiber.StatusOK).JSON(saved)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	p, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapProfileError(err)
	}
	return c.Status(fiber.StatusOK).JSON(p)
}

func mapProfileError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnknownUser):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrUnknownSkill):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unknown skill", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// enforceActor rejects a mutating request whose acting user differs from
// the authenticated identity. A request with no authenticated identity is
// allowed: auth is only mounted when a token secret is configured.
func enforceActor(c fiber.Ctx, actor uuid.UUID) error {
	authed, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		return nil
	}
	if authed != actor {
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}
	return nil
}
