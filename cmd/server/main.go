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

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/profile"
	"portfolio-backend/internal/router"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting Portfolio Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("✗ Invalid configuration: %v", err)
	}
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Load Portfolio Content ────
	content, err := profile.LoadContent(cfg.ProfilePath, cfg.ProjectsPath)
	if err != nil {
		log.Fatalf("✗ Portfolio content failed to load: %v", err)
	}
	log.Printf("✓ Profile loaded for %s (%d projects)", content.Profile.Name, len(content.Projects))

	// ──── Step 3: Initialize Generation Provider ────
	generator, err := newGenerator(cfg)
	if err != nil {
		log.Fatalf("✗ %s client initialization failed: %v", cfg.AIProvider, err)
	}
	assistantService := services.NewAssistantService(
		generator,
		content.Profile,
		content.Projects,
		cfg.AIRequestsPerMin,
		cfg.AIConcurrentReqs,
	)
	defer assistantService.Close()
	log.Printf("✓ %s generator initialized", generator.Name())

	// ──── Step 4: Rate Limit Counters ────
	var counter middleware.Counter = middleware.NewMemoryCounter()
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		counter = middleware.NewRedisCounter(redisClient, "assistant_ratelimit")
		log.Println("✓ Redis connected (shared rate limits)")
	}
	assistantLimiter := middleware.NewRateLimiter(counter, cfg.AssistantRateLimit, cfg.AssistantRateWindow)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assistantLimiter.StartCleanup(ctx)

	// ──── Initialize Handlers ────
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	contentHandler := handlers.NewContentHandler(content)

	// ──── Step 5: Start WebSocket Hub ────
	wsHub := websocket.NewHub(assistantService, assistantLimiter, cfg.FrontendURL)
	log.Println("✓ WebSocket hub started")

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		assistantHandler,
		contentHandler,
		assistantLimiter,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		cancel()
		wsHub.CloseAll()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("✓ Portfolio Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/assistant/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func newGenerator(cfg *config.Config) (services.Generator, error) {
	switch cfg.AIProvider {
	case config.ProviderOllama:
		return services.NewOllamaGenerator(cfg.OllamaHost, cfg.OllamaModel, &http.Client{Timeout: 2 * time.Minute})
	default:
		return services.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}
