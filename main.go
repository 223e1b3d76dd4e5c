package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dbchat-dev/dbchat/api"
	"github.com/dbchat-dev/dbchat/config"
	"github.com/dbchat-dev/dbchat/dbquery"
	"github.com/dbchat-dev/dbchat/llm"
	"github.com/dbchat-dev/dbchat/policy"
	"github.com/dbchat-dev/dbchat/protocol"
	"github.com/dbchat-dev/dbchat/service"
	"github.com/dbchat-dev/dbchat/session"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chat gateway...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Generator: %s (model %s)", cfg.LLMAPIURL, cfg.ModelName)
	log.Printf("Database: %s (%s)", cfg.DBDSN, cfg.DBDriver)

	// Initialize session store
	sessions := session.NewStore(cfg.MaxHistory, cfg.CleanupInterval)

	// Initialize query engine
	queries, err := dbquery.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to initialize query engine: %v", err)
	}
	defer queries.Close()

	// Initialize classifier engine
	ctx := context.Background()
	classifier, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize classifier engine: %v", err)
	}

	// Initialize codec and generator client
	codec := protocol.NewCodec(classifier, cfg.ContextWindow, cfg.TruncateLength)
	generator := llm.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.ModelName, cfg.LLMTimeout)

	// Initialize service
	svc := service.New(sessions, codec, generator, queries, cfg)

	// Initialize handler
	h := api.NewHandler(svc)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat gateway started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chat gateway...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat gateway stopped")
}
