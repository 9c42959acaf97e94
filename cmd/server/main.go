package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/adapters/http/routes"
	"vpcs-backend/internal/adapters/identity"
	"vpcs-backend/internal/adapters/lock"
	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/realtime"
	"vpcs-backend/internal/adapters/storage"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/pricing"
	"vpcs-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "vpcs-backend/docs" // Swagger docs
)

// @title VPCS API
// @version 1.0
// @description Vendor Payment & Control System API: material pricing, cash-flow ledger and master data
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger := config.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("❌ Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	logger.Info("✅ Database migration completed")

	if err := config.NewSeeder(db, cfg.Seed).Run(); err != nil {
		logger.Warnf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Change feed and locks: redis when configured, in-process otherwise
	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.Fatalf("❌ Failed to connect to redis: %v", err)
	}

	var broker services.Broker
	var locker services.Locker
	healthChecks := map[string]func() error{}
	if rdb != nil {
		broker = realtime.NewRedisBroker(rdb)
		locker = lock.NewRedisLocker(rdb, 10*time.Second)
		healthChecks["redis"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return rdb.Ping(pingCtx).Err()
		}
		defer rdb.Close()
	} else {
		broker = realtime.NewMemoryBroker()
		locker = lock.NewMemoryLocker()
	}
	defer broker.Close()

	// Ledger export archive
	var store services.ObjectStore
	if cfg.Storage.Endpoint != "" {
		minioStore, err := storage.NewMinioStore(ctx, cfg.Storage)
		if err != nil {
			logger.Warnf("⚠️ Object storage unavailable, archive disabled: %v", err)
		} else {
			store = minioStore
		}
	}

	// Google sign-in
	var provider services.IdentityProvider
	if cfg.GoogleEnabled() {
		provider = identity.NewGoogleProvider(cfg.OAuth)
	} else {
		logger.Warn("⚠️ Google OAuth not configured; only role-code login is available")
	}

	// Pricing rate table
	calc := pricing.Default()
	if cfg.Pricing.TableFile != "" {
		table, err := pricing.LoadTable(cfg.Pricing.TableFile)
		if err != nil {
			logger.Fatalf("❌ Failed to load pricing table: %v", err)
		}
		calc = pricing.NewCalculator(table)
		logger.Infof("✅ Pricing table loaded from %s", cfg.Pricing.TableFile)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "VPCS API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	cronService := routes.Setup(app, routes.Deps{
		DB:           db,
		Config:       cfg,
		Broker:       broker,
		Locker:       locker,
		Store:        store,
		Identity:     provider,
		Pricing:      calc,
		Access:       domain.DefaultAccessTable(),
		HealthChecks: healthChecks,
	})

	// Scheduled jobs
	if err := cronService.Start(); err != nil {
		logger.Fatalf("❌ Failed to start cron jobs: %v", err)
	}
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	logger.Infof("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	logger := config.GetLogger()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Errorf("❌ Error during shutdown: %v", err)
	}
	logger.Info("✅ Server stopped gracefully")
}
