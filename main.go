package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/catalog"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/config"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/handlers"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/middleware"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/repositories"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/services"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/uploader"
	"github.com/ngquocbao99/gash-dashboard-sub001/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// --- Database ---
	// The console owns only its admin accounts and the audit trail; the
	// catalog backend owns products.
	db, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.User{}, &models.AuditEntry{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	auditRepo := repositories.NewGORMAuditRepository(db)

	// --- RabbitMQ Notifier ---
	// Notifications are best-effort; the console stays usable without the
	// queue.
	var notifier services.Notifier = services.NopNotifier{}
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		logger.Warn("RabbitMQ unavailable, notifications disabled", zap.Error(err))
	} else {
		defer mqClient.Close()
		notifier = services.NewQueueNotifier(mqClient, logger)

		// Drain the notification queue into the log until a dedicated
		// notification center takes over as the consumer.
		if err := mqClient.ConsumeNotifications(func(msg amqp.Delivery) error {
			var n rabbitmq.Notification
			if err := json.Unmarshal(msg.Body, &n); err != nil {
				// Ack and drop: requeueing a malformed message would
				// redeliver it forever.
				logger.Warn("discarding malformed notification",
					zap.Uint64("tag", msg.DeliveryTag),
					zap.Error(err))
				return nil
			}
			logger.Info("admin notification",
				zap.String("level", n.Level),
				zap.String("event", n.Event),
				zap.String("message", n.Message))
			return nil
		}); err != nil {
			logger.Warn("failed to start notification consumer", zap.Error(err))
		}
	}

	// --- Upstream Catalog Clients ---
	session := catalog.StaticToken(cfg.CatalogAPIToken)
	apiClient := catalog.NewClient(cfg.CatalogAPIURL, session)
	uploads := uploader.New(uploader.Config{
		BaseURL: cfg.UploadAPIURL,
		Session: session,
		Logger:  logger,
	})

	// --- Services ---
	catalogService := services.NewCatalogService(apiClient, uploads, notifier, auditRepo, logger, cfg.PageSize)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, logger)

	// Warm the local caches; a cold start with an unreachable backend is
	// not fatal, the refresh endpoints retry on demand.
	warmCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := catalogService.Refresh(warmCtx); err != nil {
		logger.Warn("initial product refresh failed", zap.Error(err))
	}
	if err := catalogService.RefreshReference(warmCtx); err != nil {
		logger.Warn("initial reference refresh failed", zap.Error(err))
	}
	cancel()

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, logger)
	productHandler := handlers.NewProductHandler(catalogService, logger)
	variantHandler := handlers.NewVariantHandler(catalogService, logger)
	referenceHandler := handlers.NewReferenceHandler(catalogService, logger)
	auditHandler := handlers.NewAuditHandler(auditRepo, logger)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(fiberlogger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public authentication routes
	authHandler.RegisterRoutes(apiV1)

	// Everything registered after this requires a valid admin token
	apiV1.Use(middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(apiV1)
	variantHandler.RegisterRoutes(apiV1)
	referenceHandler.RegisterRoutes(apiV1)
	auditHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	logger.Info("starting server", zap.String("port", cfg.AppPort))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	logger.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

// newLogger builds a production zap logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

// openDatabase opens the configured GORM dialect. SQLite is the local
// development default; Postgres is for deployed environments.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBDialect {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	}
}
