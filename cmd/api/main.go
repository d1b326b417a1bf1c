// @title                       Groups API
// @version                     1.0
// @description                 Community groups: create, list and update groups with per-group roles.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/comunidades/groups-api/internal/api"
	"github.com/comunidades/groups-api/internal/api/handler"
	"github.com/comunidades/groups-api/internal/core/service"
	mongostore "github.com/comunidades/groups-api/internal/infrastructure/db/mongo"
	redisstore "github.com/comunidades/groups-api/internal/infrastructure/db/redis"
	"github.com/comunidades/groups-api/internal/infrastructure/queue"
	"github.com/comunidades/groups-api/internal/pkg/config"
	"github.com/comunidades/groups-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "groups-api"})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "groups-api",
	})

	// --- MongoDB ---
	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	groupRepo := mongostore.NewGroupRepository(client, db)
	membershipRepo := mongostore.NewMembershipRepository(db)
	userRepo := mongostore.NewUserRepository(db)

	if err := mongostore.EnsureIndexes(ctx, groupRepo, membershipRepo, userRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Redis ---
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// --- Services ---
	events := queue.NewDispatcher(cfg.AuditWorkers, mongostore.NewEventRepository(db), logger.Component("audit"))
	events.Start()

	groupService := service.NewGroupService(groupRepo, membershipRepo, events, logger.Component("group_service"))
	authService := service.NewAuthService(userRepo, redisstore.NewRevocationStore(rdb), cfg.JWTSecret, cfg.TokenTTL)

	e := api.NewRouter(api.Dependencies{
		Groups:   groupService,
		Auth:     authService,
		Resolver: authService,
		Checks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Logger: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	events.Close()
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}
