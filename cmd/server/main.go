package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/catalog-api/internal/config"
	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/database"
	"github.com/iliyamo/catalog-api/internal/handler"
	"github.com/iliyamo/catalog-api/internal/middleware"
	"github.com/iliyamo/catalog-api/internal/queue"
	"github.com/iliyamo/catalog-api/internal/repository"
	"github.com/iliyamo/catalog-api/internal/router"
	"github.com/iliyamo/catalog-api/internal/service"
)

func main() {
	cfg := config.Load()
	logger := log.New("catalog")
	logger.SetLevel(logLevel(cfg.LogLevel))
	logger.SetHeader("${time_rfc3339} ${level} ${prefix} ${short_file}:${line}")

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable; response cache and rate limit disabled")
	}
	qcfg := config.LoadQueueConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events contracts.EventPublisher
	if qcfg.Enabled {
		events = service.NewQueuePublisher(qcfg, logger)
		if qcfg.ConsumerEnabled {
			go func() {
				if err := queue.NewConsumer(qcfg, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Errorf("catalog consumer stopped: %v", err)
				}
			}()
		}
	}

	users := repository.NewUserRepo(db)
	authSvc := service.NewAuthService(cfg, users, logger)
	productSvc := service.NewProductService(repository.NewProductRepo(db), events, logger)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, logger)
	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb, logger)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc), cfg.JWTSecret, users, limiter)
	router.RegisterProducts(e, handler.NewProductHandler(productSvc), cfg.JWTSecret, users, cache)

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

func logLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
