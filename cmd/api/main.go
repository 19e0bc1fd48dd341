package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/slformation-dryyss/slformations-sub002/api/swagger"
	"github.com/slformation-dryyss/slformations-sub002/internal/handler"
	"github.com/slformation-dryyss/slformations-sub002/internal/middleware"
	"github.com/slformation-dryyss/slformations-sub002/internal/repository"
	"github.com/slformation-dryyss/slformations-sub002/internal/service"
	"github.com/slformation-dryyss/slformations-sub002/pkg/cache"
	"github.com/slformation-dryyss/slformations-sub002/pkg/config"
	"github.com/slformation-dryyss/slformations-sub002/pkg/database"
	"github.com/slformation-dryyss/slformations-sub002/pkg/jobs"
	"github.com/slformation-dryyss/slformations-sub002/pkg/logger"
	corsmiddleware "github.com/slformation-dryyss/slformations-sub002/pkg/middleware/cors"
	reqidmiddleware "github.com/slformation-dryyss/slformations-sub002/pkg/middleware/requestid"
)

// @title SL Formations Coordination API
// @version 1.0.0
// @description Instructor assignment, session booking and payment reconciliation
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Caching is an optimization. Matching and booking stay correct
		// without it, so a missing Redis only degrades latency.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Matching.RosterTTL, logr, cfg.Matching.CacheEnabled && redisClient != nil)

	studentRepo := repository.NewStudentRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	creditRepo := repository.NewCreditRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	confirmations := jobs.NewQueue("payment-confirmations", func(_ context.Context, job jobs.Job) error {
		logr.Info("payment confirmation dispatched",
			zap.String("job_id", job.ID),
			zap.String("type", job.Type),
		)
		return nil
	}, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})

	var notifier service.Notifier = service.NopNotifier{}
	if cfg.Notifications.Enabled {
		confirmations.Start(ctx)
		defer confirmations.Stop()
		notifier = service.NewQueueNotifier(confirmations, logr)
	}

	assignmentSvc := service.NewAssignmentService(studentRepo, instructorRepo, assignmentRepo, cacheSvc, metricsSvc, validate, logr)
	bookingSvc := service.NewBookingService(sessionRepo, studentRepo, bookingRepo, enrollmentRepo, cacheSvc, metricsSvc, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, courseRepo, cacheSvc, cfg.Matching.SessionTTL, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, creditRepo, enrollmentRepo, logr)
	paymentSvc := service.NewPaymentService(orderRepo, enrollmentRepo, courseRepo, creditRepo, bookingSvc, notifier, metricsSvc, validate, logr, cfg.Payments.DefaultCurrency)

	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	webhookHandler := handler.NewWebhookHandler(paymentSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/assignments/assign", assignmentHandler.Assign)
		api.POST("/assignments/change", assignmentHandler.Change)
		api.GET("/assignments/active", assignmentHandler.GetActive)

		api.GET("/sessions", sessionHandler.List)
		api.POST("/sessions", sessionHandler.Create)
		api.GET("/sessions/:id", sessionHandler.Get)

		api.POST("/bookings", bookingHandler.Book)
		api.POST("/bookings/:id/cancel", bookingHandler.Cancel)
		api.POST("/bookings/:id/attendance", bookingHandler.SetAttendance)

		api.GET("/students/:id/credit", studentHandler.GetCredit)
		api.GET("/students/:id/enrollments", studentHandler.ListEnrollments)

		api.POST("/webhooks/payment", webhookHandler.HandlePayment)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
