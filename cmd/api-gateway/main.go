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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tuteur-adom-api/api/swagger"
	"github.com/noah-isme/tuteur-adom-api/internal/handler"
	internalmiddleware "github.com/noah-isme/tuteur-adom-api/internal/middleware"
	"github.com/noah-isme/tuteur-adom-api/internal/repository"
	"github.com/noah-isme/tuteur-adom-api/internal/service"
	"github.com/noah-isme/tuteur-adom-api/pkg/cache"
	"github.com/noah-isme/tuteur-adom-api/pkg/config"
	"github.com/noah-isme/tuteur-adom-api/pkg/database"
	"github.com/noah-isme/tuteur-adom-api/pkg/jobs"
	"github.com/noah-isme/tuteur-adom-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tuteur-adom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tuteur-adom-api/pkg/middleware/requestid"
	"github.com/noah-isme/tuteur-adom-api/pkg/storage"
)

// @title Tuteur à Domicile API
// @version 1.0.0
// @description Tutoring marketplace: teacher vetting, booking requests, appointments and reviews.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, search cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()
	txManager := database.NewTxManager(db)
	options := service.WorkflowOptions{
		StrictTransitions: cfg.Booking.StrictTransitions,
		ValidateTimeRange: cfg.Booking.ValidateTimeRange,
	}

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Search.CacheTTL, logr, cfg.Search.CacheEnabled && redisClient != nil)

	auditSvc := service.NewAuditService(auditRepo, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
		RetryDelay: cfg.Audit.RetryDelay,
	}, logr, cfg.Audit.Enabled)
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	authSvc := service.NewAuthService(userRepo, txManager, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	teacherSvc := service.NewTeacherService(service.TeacherServiceParams{
		Repo:      teacherRepo,
		Reviews:   reviewRepo,
		Tx:        txManager,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Audit:     auditSvc,
		Validator: validate,
		Logger:    logr,
		Options:   options,
		SearchTTL: cfg.Search.CacheTTL,
	})
	courseSvc := service.NewCourseService(courseRepo, teacherRepo, validate, logr)
	requestSvc := service.NewRequestService(service.RequestServiceParams{
		Repo:      requestRepo,
		Users:     userRepo,
		Teachers:  teacherRepo,
		Courses:   courseRepo,
		Tx:        txManager,
		Metrics:   metrics,
		Audit:     auditSvc,
		Validator: validate,
		Logger:    logr,
		Options:   options,
	})
	appointmentSvc := service.NewAppointmentService(service.AppointmentServiceParams{
		Repo:      appointmentRepo,
		Requests:  requestRepo,
		Tx:        txManager,
		Metrics:   metrics,
		Audit:     auditSvc,
		Validator: validate,
		Logger:    logr,
		Options:   options,
	})
	reviewSvc := service.NewReviewService(service.ReviewServiceParams{
		Repo:      reviewRepo,
		Teachers:  teacherRepo,
		Users:     userRepo,
		Tx:        txManager,
		Cache:     cacheSvc,
		Audit:     auditSvc,
		Validator: validate,
		Logger:    logr,
	})
	parentSvc := service.NewParentService(userRepo, logr)
	statsSvc := service.NewStatsService(service.StatsServiceParams{
		Teachers:     teacherSvc,
		Requests:     requestSvc,
		Appointments: appointmentSvc,
		Users:        userRepo,
		Logger:       logr,
	})

	reportStore, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		logr.Fatal("failed to prepare export directory", zap.Error(err))
	}
	archiveSvc := service.NewReportArchiveService(
		statsSvc,
		reportStore,
		storage.NewSignedURLSigner(cfg.Export.SigningSecret, cfg.Export.LinkTTL),
		service.ReportArchiveConfig{APIPrefix: cfg.APIPrefix, Retention: cfg.Export.Retention},
		logr,
	)
	go archiveSvc.RunJanitor(ctx, time.Hour)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.OptionalJWT(authSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Teachers:     handler.NewTeacherHandler(teacherSvc),
		Courses:      handler.NewCourseHandler(courseSvc),
		Requests:     handler.NewRequestHandler(requestSvc),
		Appointments: handler.NewAppointmentHandler(appointmentSvc),
		Reviews:      handler.NewReviewHandler(reviewSvc),
		Parents:      handler.NewParentHandler(parentSvc),
		Admin:        handler.NewAdminHandler(statsSvc, auditSvc, archiveSvc),
		Metrics:      handler.NewMetricsHandler(metrics, db),
	})

	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
