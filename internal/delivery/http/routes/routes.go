package routes

import (
	"github.com/gofiber/fiber/v3"

	"skilltrade/internal/delivery/http/handler"
	"skilltrade/internal/ws"
)

// Registry mounts every HTTP route. The API is served from the root path;
// there is no version prefix.
type Registry struct {
	health  *handler.HealthHandler
	skill   *handler.SkillHandler
	profile *handler.ProfileHandler
	match   *handler.MatchHandler
	rating  *handler.RatingHandler
	chat    *handler.ChatHandler
	chatWS  *ws.Handler
}

func NewRegistry(
	health *handler.HealthHandler,
	skill *handler.SkillHandler,
	profile *handler.ProfileHandler,
	match *handler.MatchHandler,
	rating *handler.RatingHandler,
	chat *handler.ChatHandler,
	chatWS *ws.Handler,
) *Registry {
	return &Registry{
		health:  health,
		skill:   skill,
		profile: profile,
		match:   match,
		rating:  rating,
		chat:    chat,
		chatWS:  chatWS,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.skill.RegisterRoutes(app)
	r.profile.RegisterRoutes(app)
	r.match.RegisterRoutes(app)
	r.rating.RegisterRoutes(app)
	r.chat.RegisterRoutes(app)

	if r.chatWS != nil {
		app.Get("/ws/chats/:chat_id", r.chatWS.HandleChatWS)
	}
}
