package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutor-pairing-api/api/swagger"
	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/handler"
	"github.com/noah-isme/tutor-pairing-api/internal/middleware"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	"github.com/noah-isme/tutor-pairing-api/internal/repository"
	"github.com/noah-isme/tutor-pairing-api/internal/service"
	"github.com/noah-isme/tutor-pairing-api/pkg/cache"
	"github.com/noah-isme/tutor-pairing-api/pkg/config"
	"github.com/noah-isme/tutor-pairing-api/pkg/database"
	"github.com/noah-isme/tutor-pairing-api/pkg/jobs"
	"github.com/noah-isme/tutor-pairing-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutor-pairing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutor-pairing-api/pkg/middleware/requestid"
)

// @title Tutor Pairing API
// @version 1.0.0
// @description Weekly schedules, common availability, slot reservations and VARK/BFI based tutor pairing.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	validate := dto.NewValidator()

	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	questionnaireRepo := repository.NewQuestionnaireRepository(db)
	pairingRepo := repository.NewPairingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Availability.CacheTTL, logr, cfg.Availability.CacheEnabled && redisClient != nil)

	queue := jobs.NewQueue("schedule-events", jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		BufferSize: cfg.Jobs.BufferSize,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	queue.Register(service.JobScheduleChanged, service.ScheduleChangedHandler(cacheSvc))
	queue.Start(ctx)
	defer queue.Stop()
	events := service.NewScheduleEvents(queue, logr)

	defaults := models.PairingOptions{
		MaxStudentsPerTutor: 1,
		BFI:                 models.ProfileToggle{Enabled: cfg.Pairing.BFIEnabled, Weight: cfg.Pairing.BFIWeight},
		VARK:                models.ProfileToggle{Enabled: cfg.Pairing.VARKEnabled, Weight: cfg.Pairing.VARKWeight},
	}

	profileSvc := service.NewProfileResultService(questionnaireRepo, userRepo, logr)
	pairingSvc := service.NewPairingService(profileSvc, pairingRepo, userRepo, metrics, service.PairingServiceConfig{
		Defaults:         defaults,
		FetchConcurrency: cfg.Pairing.FetchConcurrency,
		MaxParticipants:  cfg.Pairing.MaxParticipants,
	}, validate, logr)
	availabilitySvc := service.NewAvailabilityService(scheduleRepo, service.AvailabilityServiceConfig{
		Cache:       cacheSvc,
		CacheTTL:    cfg.Availability.CacheTTL,
		SlotMinutes: cfg.Availability.SlotMinutes,
		Logger:      logr,
	})
	scheduleSvc := service.NewScheduleService(scheduleRepo, events, userRepo, validate, logr)
	slotSvc := service.NewSlotAssignmentService(scheduleRepo, events, userRepo, metrics, validate, logr)
	tokenSvc := service.NewTokenService(cfg.JWT)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metrics, cfg.Metrics.Path))

	ops := handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
		"postgres": userRepo,
		"redis":    cacheRepo,
	})
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, ops.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Schedules:    handler.NewScheduleHandler(scheduleSvc),
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Slots:        handler.NewSlotHandler(slotSvc),
		Profiles:     handler.NewProfileHandler(profileSvc, pairingSvc.DefaultOptions()),
		Pairings:     handler.NewPairingHandler(pairingSvc),
	}, middleware.JWT(tokenSvc), userRepo)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
