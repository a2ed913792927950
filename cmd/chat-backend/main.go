package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"chat-backend/internal/config"
	"chat-backend/internal/crash"
	"chat-backend/internal/files"
	"chat-backend/internal/httpapi"
	"chat-backend/internal/logger"
	"chat-backend/internal/queue"
	"chat-backend/internal/service"
	"chat-backend/internal/storage"
)

func main() {
	defer crash.RecoverWithStack("main")

	// Define command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env before the config so env overrides are visible
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging first
	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	// Initialize database
	if err := storage.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Repositories and migrations
	db := storage.GetDB()
	userRepo := storage.NewUserRepository(db)
	sessionRepo := storage.NewSessionRepository(db)
	messageRepo := storage.NewMessageRepository(db)
	// users first: messages carry a foreign key to them
	if err := userRepo.MigrateTable(); err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}
	if err := sessionRepo.MigrateTable(); err != nil {
		log.Fatalf("Failed to migrate sessions table: %v", err)
	}
	if err := messageRepo.MigrateTable(); err != nil {
		log.Fatalf("Failed to migrate messages table: %v", err)
	}

	// Attachment storage
	fileStore, err := files.NewStore(afero.NewOsFs(), cfg.Upload)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	// Core services
	msgQueue := queue.New(messageRepo, fileStore, cfg.Chat.QueueLimit)
	poller := queue.NewPoller(messageRepo, cfg.Chat.PollTimeout, cfg.Chat.PollInterval)
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.Session.Lifetime)
	service.StartSessionSweeper(authService, time.Hour)

	server := httpapi.NewServer(cfg, authService, msgQueue, poller, fileStore)

	// Start HTTP server in a goroutine. Shutdown makes Start return
	// ErrServerClosed; that is the clean-stop path, not a failure.
	crash.SafeGoroutine("http-server", func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	})

	logger.Infof("Chat server ready (queue limit %d)", cfg.Chat.QueueLimit)

	// Create a channel for receiving OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for signal
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down...", sig)

	// Gracefully shutdown server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server gracefully stopped")
}
