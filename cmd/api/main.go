package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clinicalos/clinic-api/internal/config"
	appointmentHandler "github.com/clinicalos/clinic-api/internal/handler/appointment"
	authHandler "github.com/clinicalos/clinic-api/internal/handler/auth"
	billingHandler "github.com/clinicalos/clinic-api/internal/handler/billing"
	healthHandler "github.com/clinicalos/clinic-api/internal/handler/health"
	patientHandler "github.com/clinicalos/clinic-api/internal/handler/patient"
	statsHandler "github.com/clinicalos/clinic-api/internal/handler/stats"
	tenantHandler "github.com/clinicalos/clinic-api/internal/handler/tenant"
	userHandler "github.com/clinicalos/clinic-api/internal/handler/user"
	"github.com/clinicalos/clinic-api/internal/middleware"
	"github.com/clinicalos/clinic-api/internal/repository/postgres"
	"github.com/clinicalos/clinic-api/internal/router"
	appointmentService "github.com/clinicalos/clinic-api/internal/service/appointment"
	authService "github.com/clinicalos/clinic-api/internal/service/auth"
	"github.com/clinicalos/clinic-api/internal/service/authz"
	billingService "github.com/clinicalos/clinic-api/internal/service/billing"
	patientService "github.com/clinicalos/clinic-api/internal/service/patient"
	statsService "github.com/clinicalos/clinic-api/internal/service/stats"
	tenantService "github.com/clinicalos/clinic-api/internal/service/tenant"
	userService "github.com/clinicalos/clinic-api/internal/service/user"
	"github.com/clinicalos/clinic-api/pkg/auth"
	"github.com/clinicalos/clinic-api/pkg/logger"
	"github.com/clinicalos/clinic-api/pkg/metrics"
	"github.com/clinicalos/clinic-api/pkg/security"
	"github.com/clinicalos/clinic-api/pkg/validator"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
	log.Logger = *appLogger.Zerolog()

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("clinic_api", "core")

	// Repositories
	base := postgres.NewBaseRepository(db, m)
	tenantRepo := postgres.NewTenantRepository(base)
	userRepo := postgres.NewUserRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	recordRepo := postgres.NewClinicalRecordRepository(base)
	attachmentRepo := postgres.NewAttachmentRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	prescriptionRepo := postgres.NewPrescriptionRepository(base)
	invoiceRepo := postgres.NewInvoiceRepository(base)
	statsRepo := postgres.NewStatsRepository(base)

	// Shared infrastructure
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	policy := authz.NewService()

	// Services
	authSvc := authService.NewService(userRepo, tenantRepo, jwtSvc, hasher, m)
	tenantSvc := tenantService.NewService(tenantRepo, userRepo, policy, jwtSvc, hasher, m)
	userSvc := userService.NewService(userRepo, policy, hasher)
	patientSvc := patientService.NewService(patientRepo, recordRepo, attachmentRepo, appointmentRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, userRepo, policy)
	billingSvc := billingService.NewService(prescriptionRepo, invoiceRepo, appointmentRepo, patientRepo, userRepo, tenantRepo)
	statsSvc := statsService.NewService(statsRepo, policy)

	// Login throttle backed by redis; the API stays up if redis is not
	// reachable at boot.
	var throttle *middleware.LoginThrottle
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		log.Warn().Err(err).Msg("invalid redis url, login throttling disabled")
	} else {
		zl := log.Logger
		throttle = middleware.NewLoginThrottle(redis.NewClient(opts), middleware.LoginThrottleConfig{
			MaxAttempts: cfg.RateLimit.LoginAttempts,
			Window:      time.Minute,
		}, &zl)
	}
	throttleFunc := func(c *gin.Context) { c.Next() }
	if throttle != nil {
		throttleFunc = throttle.Throttle()
	}

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Handlers
	authH := authHandler.NewHandler(authSvc)
	tenantH := tenantHandler.NewHandler(tenantSvc)
	userH := userHandler.NewHandler(userSvc)
	patientH := patientHandler.NewHandler(patientSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	billingH := billingHandler.NewHandler(billingSvc)
	statsH := statsHandler.NewHandler(statsSvc)
	healthH := healthHandler.NewHandler(db)

	r := router.New(
		authMiddleware,
		authH,
		tenantH,
		userH,
		patientH,
		appointmentH,
		billingH,
		statsH,
		healthH,
		throttleFunc,
		router.Config{
			RateLimit:  rate.Limit(cfg.RateLimit.RPS),
			RateBurst:  cfg.RateLimit.Burst,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
