package main // Entry point package

import (
	"context"
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework
	"go.uber.org/zap"

	"github.com/venturehub/mentor-scheduling/internal/config"
	"github.com/venturehub/mentor-scheduling/internal/database"
	"github.com/venturehub/mentor-scheduling/internal/handler"
	"github.com/venturehub/mentor-scheduling/internal/logger"
	"github.com/venturehub/mentor-scheduling/internal/middleware"
	"github.com/venturehub/mentor-scheduling/internal/queue"
	"github.com/venturehub/mentor-scheduling/internal/repository"
	"github.com/venturehub/mentor-scheduling/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal("migrations failed", zap.Error(err))
	}
	cancel()
	if v, err := database.SchemaVersion(context.Background(), db); err == nil {
		log.Info("schema ready", zap.Int64("version", v))
	}

	// Redis backs rate limiting and the public read cache.  A nil client
	// disables both; the API itself does not depend on Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and caching disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	slotRepo := repository.NewAvailabilityRepo(db)
	connRepo := repository.NewConnectionRepo(db, cfg.AllowReRequest)
	bookingRepo := repository.NewBookingRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	availHandler := handler.NewAvailabilityHandler(slotRepo)
	connHandler := handler.NewConnectionHandler(connRepo, userRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, slotRepo, connRepo, userRepo)
	scheduleHandler := handler.NewScheduleHandler(slotRepo, bookingRepo, userRepo)

	e := echo.New()
	e.HideBanner = true

	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		// Cache only applies to the configured public GET paths.
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, scheduleHandler, availHandler)
	router.RegisterMentor(e, availHandler, connHandler, cfg.JWTSecret)
	router.RegisterMentee(e, connHandler, bookingHandler, cfg.JWTSecret)
	router.RegisterShared(e, connHandler, bookingHandler, scheduleHandler, cfg.JWTSecret)

	// Background consumer mirrors confirmed/cancelled sessions into the
	// session log.  It runs its own reconnect loop and never stops the
	// server.
	go func() {
		if err := queue.StartSessionConsumer(); err != nil {
			log.Error("session consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
