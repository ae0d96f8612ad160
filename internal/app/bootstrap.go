package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"skilltrade/internal/config"
	"skilltrade/internal/delivery/http/middleware"
	"skilltrade/internal/pkg/jwt"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap wires the whole service and starts its background loops. The
// returned cleanup stops the recalc worker and closes the database pool.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, cfg, logger)
	container.Routes.Register(f)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	container.Worker.Run(workerCtx)
	go container.Hub.Run()

	cleanup := func() error {
		stopWorker()
		return container.Close()
	}

	return &App{Fiber: f, Container: container}, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware()
	app.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(logger)
	app.Use(accessMw.Middleware())

	// Token checks are opt-in: without a configured secret the API trusts
	// the ids in request payloads, matching a deployment behind a gateway
	// that already authenticated the caller.
	if secret := strings.TrimSpace(cfg.Auth.JWTSecret); secret != "" {
		authMw := middleware.NewAuthMiddleware(jwt.NewHMACService(secret))
		authHandler := authMw.Middleware()
		app.Use(func(c fiber.Ctx) error {
			p := c.Path()
			if p == "/health" || strings.HasPrefix(p, "/ws/") {
				return c.Next()
			}
			return authHandler(c)
		})
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
