package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminhandler "membership-backend/internal/apps/admin/handler"
	adminmodels "membership-backend/internal/apps/admin/models"
	adminrepo "membership-backend/internal/apps/admin/repository"
	adminservice "membership-backend/internal/apps/admin/service"
	apphandler "membership-backend/internal/apps/membership/handler"
	appmodels "membership-backend/internal/apps/membership/models"
	apprepo "membership-backend/internal/apps/membership/repository"
	appservice "membership-backend/internal/apps/membership/service"
	otphandler "membership-backend/internal/apps/otp/handler"
	otpmodels "membership-backend/internal/apps/otp/models"
	otprepo "membership-backend/internal/apps/otp/repository"
	otpservice "membership-backend/internal/apps/otp/service"
	"membership-backend/internal/common/background"
	"membership-backend/internal/common/config"
	"membership-backend/internal/common/database"
	"membership-backend/internal/common/logger"
	"membership-backend/internal/common/middleware"
	"membership-backend/pkg/phone"
	"membership-backend/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// verifierFunc adapts a function to appservice.PhoneVerifier
type verifierFunc func(ctx context.Context, rawPhone string) (bool, error)

func (f verifierFunc) IsPhoneVerified(ctx context.Context, rawPhone string) (bool, error) {
	return f(ctx, rawPhone)
}

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Setup("info", false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.IsProduction())
	if envErr != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db, &otpmodels.PhoneOTP{}, &appmodels.MembershipApplication{}, &adminmodels.AdminUser{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	if err := apphandler.RegisterBindingValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register binding validators")
	}
	validate, err := appmodels.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build validator")
	}

	normalizer := phone.NewNormalizer(cfg.Phone.CountryCode)
	dispatcher := background.NewDispatcher()
	waClient := whatsapp.NewClient(cfg.WhatsApp.APIBaseURL, cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID, nil)

	// Membership applications
	var otpService otpservice.PhoneOTPService
	verifier := verifierFunc(func(ctx context.Context, rawPhone string) (bool, error) {
		return otpService.IsPhoneVerified(ctx, rawPhone)
	})

	channels := appservice.SideChannels{Timeout: cfg.Webhook.Timeout}
	if cfg.Webhook.URL != "" {
		channels.Webhook = appservice.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Username, cfg.Webhook.Password, cfg.Webhook.Timeout)
	} else {
		log.Warn().Msg("WEBHOOK_URL not set, submission notifications disabled")
	}
	if cfg.WhatsApp.WelcomeEnabled && waClient.Configured() {
		channels.Welcome = appservice.NewWhatsAppWelcomeSender(waClient, cfg.WhatsApp.WelcomeTemplateName, cfg.WhatsApp.WelcomeLanguage, cfg.WhatsApp.WelcomeVideoURL)
	}
	if cfg.SMTP.Host != "" {
		channels.Mailer = appservice.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	applicationRepo := apprepo.NewApplicationRepository(db)
	applicationService := appservice.NewApplicationService(applicationRepo, verifier, validate, dispatcher, normalizer, channels)
	applicationHandler := apphandler.NewApplicationHandler(applicationService)

	// Phone OTP
	var provider otpservice.OTPProvider
	switch cfg.OTP.Provider {
	case "noop":
		provider = otpservice.NewNoOpProvider()
	default:
		provider = otpservice.NewWhatsAppProvider(waClient, cfg.WhatsApp.OTPTemplateName, cfg.WhatsApp.OTPTemplateLanguage)
		if !provider.Configured() {
			log.Warn().Msg("WhatsApp credentials not set, OTP issuance will be refused")
		}
	}

	throttle := otpservice.NewNoopThrottle()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, OTP throttle will fail open")
		}
		cancel()
		throttle = otpservice.NewRedisThrottle(rdb, cfg.OTP.MaxRequestsPerHour, time.Hour)
	}

	otpRepo := otprepo.NewPhoneOTPRepository(db)
	otpService = otpservice.NewPhoneOTPService(otpRepo, applicationService, provider, dispatcher, throttle, normalizer, otpservice.Options{
		TTL:                cfg.OTP.TTL,
		VerificationWindow: cfg.OTP.VerificationWindow,
		SendTimeout:        cfg.OTP.SendTimeout,
	})
	otpHandler := otphandler.NewPhoneOTPHandler(otpService)

	// Admin
	tokens := adminservice.NewTokenManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	adminService := adminservice.NewAdminService(adminrepo.NewAdminUserRepository(db), tokens)
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := adminService.EnsureBootstrapAdmin(bootstrapCtx, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword, cfg.Admin.BootstrapName); err != nil {
		log.Fatal().Err(err).Msg("failed to create bootstrap admin")
	}
	cancelBootstrap()
	adminHandler := adminhandler.NewAdminHandler(adminService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publicLimiter := middleware.NewIPRateLimiter(rate.Limit(5), 10)
	loginLimiter := middleware.NewIPRateLimiter(rate.Every(6*time.Second), 5)
	go publicLimiter.Cleanup(ctx)
	go loginLimiter.Cleanup(ctx)
	go otpservice.NewCleanupWorker(otpRepo, cfg.OTP.CleanupInterval, cfg.OTP.VerificationWindow).Run(ctx)

	// Setup Gin router
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatal().Err(err).Msg("invalid TRUSTED_PROXIES")
	}
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Prometheus())
	router.Use(middleware.SetupCORS(cfg.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Server is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		otphandler.RegisterOTPRoutes(v1, otpHandler, publicLimiter.Middleware())
		apphandler.RegisterApplicationRoutes(v1, applicationHandler, publicLimiter.Middleware())

		auth := middleware.AdminAuth(adminService)
		adminhandler.RegisterAdminRoutes(v1, adminHandler, auth, loginLimiter.Middleware())
		apphandler.RegisterAdminApplicationRoutes(v1, applicationHandler, auth)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("background tasks still running at shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
