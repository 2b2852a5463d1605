package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/drivedesk/scheduler-api/api/swagger"
	"github.com/drivedesk/scheduler-api/internal/handler"
	"github.com/drivedesk/scheduler-api/internal/middleware"
	"github.com/drivedesk/scheduler-api/internal/models"
	"github.com/drivedesk/scheduler-api/internal/repository"
	"github.com/drivedesk/scheduler-api/internal/service"
	"github.com/drivedesk/scheduler-api/pkg/cache"
	"github.com/drivedesk/scheduler-api/pkg/config"
	"github.com/drivedesk/scheduler-api/pkg/database"
	"github.com/drivedesk/scheduler-api/pkg/jobs"
	"github.com/drivedesk/scheduler-api/pkg/logger"
	corsmiddleware "github.com/drivedesk/scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/drivedesk/scheduler-api/pkg/middleware/requestid"
)

// @title DriveDesk Scheduler API
// @version 0.1.0
// @description Driving-school program generation, capacity planning and instructor assignment
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, task store and cache degrade to in-process", "error", err)
		redisClient = nil
	}

	metrics := service.NewMetricsService()
	slots := models.DefaultLessonSlots()

	instructorRepo := repository.NewInstructorRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	programRepo := repository.NewProgramRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	taskRepo := repository.NewTaskRepository(redisClient, logr, cfg.Scheduler.TaskTTL)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, 10*time.Minute, logr, redisClient != nil)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, instructorRepo, cacheSvc, slots, cfg.Scheduler.AvailabilityHorizon, nil, logr)
	capacitySvc := service.NewCapacityService(holidayRepo, availabilitySvc, cacheSvc, cfg.Scheduler.ProgramWeeks, nil, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, logr)
	assignerSvc := service.NewAssignerService(programRepo, availabilitySvc, availabilityRepo, holidayRepo, slots, metrics, nil, logr)
	exportSvc := service.NewExportService(programRepo, holidayRepo, availabilitySvc, slots, cfg.Scheduler.CapacityReportDays, nil, logr)

	// The queue handler closes over the worker variable so the service can be
	// constructed with its dispatcher before the worker exists.
	var worker *service.GenerationWorker
	queue := jobs.NewQueue("program-generation", func(ctx context.Context, job jobs.Job) error {
		start := time.Now()
		err := worker.Handle(ctx, job)
		status := "done"
		if err != nil {
			status = "error"
		}
		metrics.ObserveJob(job.Type, status, time.Since(start))
		return err
	}, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})

	programSvc := service.NewProgramService(programRepo, taskRepo, holidayRepo, availabilitySvc, capacitySvc, queue, slots, service.ProgramServiceConfig{
		LookaheadDays: cfg.Scheduler.LookaheadDays,
		ProgramWeeks:  cfg.Scheduler.ProgramWeeks,
	}, nil, logr)
	worker = service.NewGenerationWorker(programSvc, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Scheduler.EnableBackgroundJobs {
		queue.Start(ctx)
		defer queue.Stop()
	}

	programHandler := handler.NewProgramHandler(programSvc, assignerSvc)
	capacityHandler := handler.NewCapacityHandler(capacitySvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc, availabilitySvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/programs", programHandler.Generate)
		api.GET("/programs", programHandler.List)
		api.GET("/programs/tasks/:id", programHandler.TaskStatus)
		api.GET("/programs/:name", programHandler.Get)
		api.GET("/programs/:name/schedule", programHandler.Schedule)
		api.POST("/programs/:name/instructors", programHandler.AssignInstructors)

		api.GET("/capacity", capacityHandler.Calculate)

		api.GET("/instructors", instructorHandler.List)
		api.PUT("/instructors/:id/availability", instructorHandler.UpdateAvailability)
		api.POST("/instructors/:id/vacations", instructorHandler.AddVacation)
		api.POST("/availability/refresh", instructorHandler.RefreshAvailability)

		if cfg.Exports.Enabled {
			api.GET("/programs/:name/export/pdf", exportHandler.SchedulePDF)
			api.GET("/capacity/export/csv", exportHandler.CapacityCSV)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
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
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
