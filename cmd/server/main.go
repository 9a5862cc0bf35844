package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-ticket-dashboard/internal/cache"
	"github.com/iliyamo/event-ticket-dashboard/internal/config"
	"github.com/iliyamo/event-ticket-dashboard/internal/database"
	"github.com/iliyamo/event-ticket-dashboard/internal/handler"
	"github.com/iliyamo/event-ticket-dashboard/internal/middleware"
	"github.com/iliyamo/event-ticket-dashboard/internal/queue"
	"github.com/iliyamo/event-ticket-dashboard/internal/repository"
	"github.com/iliyamo/event-ticket-dashboard/internal/router"
	"github.com/iliyamo/event-ticket-dashboard/internal/service"
)

func main() {
	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	auditCfg := config.LoadAuditConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if cfg.DBBootstrap {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("database: %v", err)
		}
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig()) // nil disables cache and rate limit
	if rdb != nil {
		defer rdb.Close()
	}

	svc := service.NewDashboard(
		repository.NewSnapshotRepo(db, cfg.LegacyTZ),
		cache.NewSnapshot(cfg.SnapshotTTL, time.Now),
		service.WithEvents(queue.NewPublisher(auditCfg.URL, auditCfg.Queue)),
		service.WithInvalidationHook(middleware.NewCachePurger(cacheCfg, rdb)),
	)

	if auditCfg.ConsumerEnabled {
		consumer := &queue.AuditConsumer{URL: auditCfg.URL, Queue: auditCfg.Queue, LogPath: auditCfg.LogPath}
		go func() {
			log.Printf("audit-consumer: writing %s to %s", auditCfg.Queue, auditCfg.LogPath)
			_ = consumer.Run(ctx)
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.BodyLimit("10M")) // bulk sale sheets

	router.RegisterRoutes(e, router.Deps{
		Dashboard: handler.NewDashboardHandler(svc, cfg.AdminPasswordHash),
		Auth:      handler.NewAuthHandler(cfg),
		JWTSecret: cfg.JWTSecret,
		Ping:      db.PingContext,
		Cache:     middleware.NewRedisCache(cacheCfg, rdb),
		Limit:     middleware.NewTokenBucket(rlCfg, rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	svc.Drain()
}
