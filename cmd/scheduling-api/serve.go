package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-scheduling-api/api/swagger"
	"github.com/noah-isme/course-scheduling-api/internal/handler"
	"github.com/noah-isme/course-scheduling-api/internal/middleware"
	"github.com/noah-isme/course-scheduling-api/internal/repository"
	"github.com/noah-isme/course-scheduling-api/internal/service"
	"github.com/noah-isme/course-scheduling-api/pkg/cache"
	"github.com/noah-isme/course-scheduling-api/pkg/config"
	"github.com/noah-isme/course-scheduling-api/pkg/database"
	"github.com/noah-isme/course-scheduling-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-scheduling-api/pkg/middleware/cors"
	"github.com/noah-isme/course-scheduling-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/course-scheduling-api/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(rt *cliContext) *cobra.Command {
	var migrateFirst bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrateFirst {
				m, err := database.NewMigrator(rt.cfg.Database, rt.log)
				if err != nil {
					return err
				}
				err = m.Up()
				_ = m.Close()
				if err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt.cfg, rt.log)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	readiness := map[string]handler.Pinger{"database": db}

	var cacheRepo service.CacheRepository
	if cfg.Holidays.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, holiday cache disabled", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			repo := repository.NewCacheRepository(client, logr)
			cacheRepo = repo
			readiness["cache"] = handler.PingFunc(repo.Ping)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Holidays.CacheTTL, logr, cacheRepo != nil)

	loc := cfg.Scheduling.Location()
	validate := validator.New()

	patternRepo := repository.NewAvailabilityRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	holidays := service.NewHolidayService(repository.NewHolidayRepository(db), cacheSvc, service.HolidayServiceConfig{
		NationalCountry: cfg.Holidays.NationalCountry,
		CacheTTL:        cfg.Holidays.CacheTTL,
	}, logr)

	hub := service.NewChangeHub(service.ChangeHubConfig{
		Workers:    cfg.Notifier.Workers,
		BufferSize: cfg.Notifier.BufferSize,
		MaxRetries: cfg.Notifier.MaxRetries,
		RetryDelay: cfg.Notifier.RetryDelay,
	}, metrics, logr)
	hub.Start(ctx)
	defer hub.Stop()

	capacity := service.NewCapacityService(patternRepo, enrollmentRepo, logr).
		WithWorkingHours(cfg.Scheduling.WorkingHoursOpen, cfg.Scheduling.WorkingHoursClose)
	slots := service.NewSlotService(patternRepo, enrollmentRepo, holidays, metrics, logr).
		WithMaxWindowDays(cfg.Scheduling.MaxSlotWindowDays)
	forms := service.NewEnrollmentValidator(validate, logr)
	enrollments := service.NewEnrollmentService(enrollmentRepo, patternRepo, holidays, hub, metrics, validate, logr, loc)
	courses := service.NewCourseScheduleService(holidays, service.ProjectionConfig{
		ClassStart:   cfg.Scheduling.ClassStart,
		ClassMinutes: cfg.Scheduling.ClassMinutes,
		MaxWeeks:     cfg.Scheduling.MaxProjectionWeeks,
	}, metrics, validate, logr)

	expiry, err := service.NewExpiryScheduler(enrollments, cfg.Enrollment.ExpiryCron, loc, logr)
	if err != nil {
		return err
	}
	expiry.Start()
	defer expiry.Stop()

	if cfg.Notifier.PGListenerEnabled {
		listener := service.NewPGChangeListener(database.DSN(cfg.Database), cfg.Notifier.PGChannel, hub, logr)
		go func() {
			if err := listener.Run(ctx); err != nil {
				logr.Error("change listener exited", zap.Error(err))
			}
		}()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.ResponseMeta())

	limiter := ratelimit.New(cfg.Enrollment.RateLimitRPS, cfg.Enrollment.RateLimitBurst)
	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Slots:        handler.NewSlotHandler(slots),
		Availability: handler.NewAvailabilityHandler(capacity),
		Enrollments:  handler.NewEnrollmentHandler(forms, enrollments),
		Courses:      handler.NewCourseScheduleHandler(courses),
		Holidays:     handler.NewHolidayHandler(holidays),
		Events:       handler.NewEventStreamHandler(hub, cfg.CORS.AllowedOrigins, logr),
		Metrics:      handler.NewMetricsHandler(metrics, readiness),
	}, limiter.Middleware())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
