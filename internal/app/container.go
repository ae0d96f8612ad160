package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"skilltrade/internal/config"
	"skilltrade/internal/database"
	"skilltrade/internal/database/migration"
	dbpostgres "skilltrade/internal/database/postgres"
	"skilltrade/internal/database/seeder"
	"skilltrade/internal/delivery/http/handler"
	"skilltrade/internal/delivery/http/routes"
	"skilltrade/internal/infrastructure/cache"
	"skilltrade/internal/recalc"
	"skilltrade/internal/repository"
	"skilltrade/internal/usecase"
	"skilltrade/internal/ws"
)

// Container holds every long-lived dependency. Construction order matters:
// database first, then the recalc worker and ws hub, then the usecases that
// depend on them.
type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Worker *recalc.Worker
	Routes *routes.Registry
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: cfg.App.MigrationsDir}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	seeds := seeder.Runner{Seeders: []seeder.Seeder{seeder.SkillsSeeder{}}}
	if err := seeds.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed database: %w", err)
	}

	redisCache := cache.NewRedis(logger)

	skillRepo := repository.NewPostgresSkillRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	matchRepo := repository.NewPostgresMatchRepository(db)
	ratingRepo := repository.NewPostgresRatingRepository(db)
	chatRepo := repository.NewPostgresChatRepository(db)
	messageRepo := repository.NewPostgresMessageRepository(db)

	matchingUC := usecase.NewMatchingUsecase(profileRepo, matchRepo, redisCache)
	worker := recalc.NewWorker(matchingUC, cfg.Recalc.Workers, cfg.Recalc.QueueSize, logger)

	hub := ws.NewHub(logger)
	notifier := ws.NewNotifier(hub)

	skillUC := usecase.NewSkillUsecase(skillRepo, redisCache)
	profileUC := usecase.NewProfileUsecase(profileRepo, skillRepo, worker, redisCache)
	ratingUC := usecase.NewRatingUsecase(ratingRepo, profileRepo, redisCache)
	chatUC := usecase.NewChatUsecase(chatRepo, messageRepo, profileRepo, notifier)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(db),
		handler.NewSkillHandler(skillUC),
		handler.NewProfileHandler(profileUC),
		handler.NewMatchHandler(matchingUC),
		handler.NewRatingHandler(ratingUC),
		handler.NewChatHandler(chatUC),
		ws.NewHandler(hub, logger),
	)

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  redisCache,
		Hub:    hub,
		Worker: worker,
		Routes: registry,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Worker != nil {
		c.Worker.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
