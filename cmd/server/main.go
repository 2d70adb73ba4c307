package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"siteship/internal/config"
	"siteship/internal/deploy"
	"siteship/internal/domain"
	"siteship/internal/generator"
	"siteship/internal/handler"
	"siteship/internal/messenger"
	"siteship/internal/repository/postgres"
	"siteship/internal/service"
	"siteship/internal/site"
	"siteship/internal/storage"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting SiteshipAI")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	projectRepo := postgres.NewProjectRepo(db)
	promptRepo := postgres.NewPromptRepo(db)

	// Initialize the generation backend
	gen, err := generator.New(ctx, cfg.Generator)
	if err != nil {
		logger.Fatal("Failed to create generator", zap.Error(err))
	}

	// Initialize object storage
	archives, err := storage.NewArchiveStore(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to create archive store", zap.Error(err))
	}

	// Initialize outbound channels
	notifier := messenger.NewNotifier(logger)
	notifier.Register(domain.PlatformWhatsApp, messenger.NewTwilioMessenger(cfg.Twilio))

	// Initialize services
	builder := service.NewSiteBuilder(
		promptRepo,
		projectRepo,
		gen,
		site.NewPackager(cfg.ScratchDir),
		archives,
		deploy.NewTrigger(cfg.Deploy),
		notifier,
		storage.ObjectKey,
		cfg.Generator.Timeout,
		logger,
	)
	conversation := service.NewConversationService(userRepo, projectRepo, builder, notifier, logger)

	// Start the optional Telegram bridge
	var telegram *messenger.TelegramChannel
	if cfg.Telegram.Token != "" {
		telegram, err = messenger.NewTelegramChannel(cfg.Telegram.Token, conversation.HandleMessage, logger)
		if err != nil {
			logger.Fatal("Failed to create Telegram channel", zap.Error(err))
		}
		notifier.Register(domain.PlatformTelegram, telegram)

		go telegram.Start()
		logger.Info("Telegram channel started")
	}

	// Start HTTP server
	h := handler.NewWebhookHandler(conversation, logger)
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: h.Router(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Addr()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if telegram != nil {
		telegram.Stop()
	}
	cancel()

	logger.Info("Server stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No new migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations applied successfully")
	return nil
}
