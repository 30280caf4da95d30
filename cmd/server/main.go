package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tutorlab/ds-tutor/internal/api"
	"github.com/tutorlab/ds-tutor/internal/config"
	"github.com/tutorlab/ds-tutor/internal/core"
	"github.com/tutorlab/ds-tutor/internal/llm"
	"github.com/tutorlab/ds-tutor/internal/session"
	"github.com/tutorlab/ds-tutor/internal/store"
	"github.com/tutorlab/ds-tutor/internal/store/postgres"
	"github.com/tutorlab/ds-tutor/internal/store/sqlite"
)

func main() {
	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	ctx := context.Background()

	// Initialize the turn store
	dbStore, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Initialize the completion client
	llmClient, err := llm.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer llmClient.Close()

	// Wire the pipeline
	sessions := session.NewManager()
	history := core.NewHistoryAdapter(dbStore, cfg.HistoryWindow)
	chatService := core.NewChatService(dbStore, llmClient, history, core.DefaultSystemInstruction, cfg.CompletionTimeout)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, sessions)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := ":" + cfg.HTTPPort

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // completion calls can take a while
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}

// openStore selects the engine from the URL: a postgres scheme dials
// PostgreSQL, anything else is treated as a SQLite file path.
func openStore(ctx context.Context, databaseURL string) (store.Store, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgres.New(ctx, databaseURL)
	}
	return sqlite.New(databaseURL)
}
