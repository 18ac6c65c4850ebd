package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openlearn/education-platform/internal/api"
	"github.com/openlearn/education-platform/internal/core/service"
	"github.com/openlearn/education-platform/internal/infrastructure/config"
	mongodb "github.com/openlearn/education-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/openlearn/education-platform/internal/infrastructure/db/redis"
	"github.com/openlearn/education-platform/internal/infrastructure/queue"
	"github.com/openlearn/education-platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Education Platform API
// @version      1.0
// @description  Authentication and role-gated course catalog for the education platform.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	courseRepo := mongodb.NewCourseRepository(db)
	enrollmentRepo := mongodb.NewEnrollmentRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":       userRepo.EnsureIndexes,
		"enrollments": enrollmentRepo.EnsureIndexes,
		"activity":    activityRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Services ---
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	activityService := service.NewActivityService(activityRepo, log)
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activityService, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(userRepo, hasher, tokens, dispatcher)
	catalogCache := redisdb.NewCatalogCache(rdb, log)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, catalogCache, log)

	if cfg.BootstrapAdmin {
		if err := service.BootstrapAdmin(ctx, userRepo, hasher, cfg.BootstrapAdminUsername, log); err != nil {
			log.Fatal().Err(err).Msg("admin bootstrap failed")
		}
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Auth:    authService,
		Tokens:  tokens,
		Courses: courseService,
		Users:   userRepo,
		Mongo:   db,
		Redis:   rdb,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
