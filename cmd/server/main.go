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

	"brainwave-backend/internal/config"
	"brainwave-backend/internal/database"
	"brainwave-backend/internal/handlers"
	"brainwave-backend/internal/middleware"
	"brainwave-backend/internal/repository"
	"brainwave-backend/internal/router"
	"brainwave-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting BrainWave Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Initialize Repositories ────
	documentRepo := repository.NewDocumentRepo(pool, redisClient)

	// ──── Step 6: Initialize Services ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiConcurrentReqs,
		cfg.FlashcardCount,
		cfg.GenerationTimeout,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Printf("✓ Gemini client initialized (%s, %d cards per request)", cfg.GeminiModel, cfg.FlashcardCount)

	checkoutService := services.NewCheckoutService(cfg.StripeSecretKey, cfg.StripePriceID, cfg.FrontendURL, redisClient)
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)

	// ──── Step 7: Initialize Handlers ────
	generateHandler := handlers.NewGenerateHandler(geminiService, documentRepo)
	flashcardHandler := handlers.NewFlashcardHandler(documentRepo)
	collectionHandler := handlers.NewCollectionHandler(documentRepo)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		generateHandler,
		flashcardHandler,
		collectionHandler,
		checkoutHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation calls can take a while
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ BrainWave Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
