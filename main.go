package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"camo-tracker/config"
	"camo-tracker/handlers"
	"camo-tracker/logger"
	"camo-tracker/middleware"
	"camo-tracker/models"
	"camo-tracker/services"
	"camo-tracker/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ invalid configuration")
	}
	logger.Init(cfg.Env)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditService := services.NewAuditService(db)
	auditSink := workers.NewAuditSink(auditService, cfg.AuditQueueSize)
	auditSink.Start(ctx)

	catalogService := services.NewCatalogService(db)
	trackerService := services.NewTrackerService(catalogService, services.NewProgressStore(db), auditSink)

	scheduler, err := services.StartScheduler(ctx, auditService, cfg.AuditRetentionDays, trackerService, cfg.BoardIdleTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start scheduler")
	}
	profileService := services.NewProfileService(db, auditSink, cfg.CDNBaseURL)

	if cfg.AuthServiceURL != "" {
		directory := services.NewAuthDirectoryClient(cfg.AuthServiceURL, cfg.AuthServiceToken)
		profileService.Directory = directory
		workers.NewEmailSyncWorker(db, directory, cfg.AuthSyncInterval).Start(ctx)
	} else {
		logger.Warn().Msg("⚠️  AUTH_SERVICE_URL not set, username resolution uses stored emails only")
	}

	app := fiber.New(fiber.Config{
		AppName:      "camo-tracker",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Only gateway requests are served; /health stays open for health checks.
	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken, "/health"))

	handlers.SetupCatalogRoutes(app, catalogService)
	handlers.SetupTrackerRoutes(app, trackerService)
	handlers.SetupProfileRoutes(app, profileService)
	handlers.SetupAuthRoutes(app, profileService)
	handlers.SetupLogRoutes(app, auditService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	logger.Info().Str("port", cfg.Port).Strs("origins", cfg.AllowedOrigins).Msg("✅ Server running")

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn().Err(err).Msg("server shutdown")
	}
	if err := scheduler.Shutdown(); err != nil {
		logger.Warn().Err(err).Msg("scheduler shutdown")
	}
	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	auditSink.Wait(waitCtx)
	cancel()
	if n := auditSink.Dropped(); n > 0 {
		logger.Warn().Int64("dropped", n).Msg("audit events dropped during run")
	}
}
