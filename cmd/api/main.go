package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/recipehub/backend/config"
	"github.com/recipehub/backend/internal/api"
	"github.com/recipehub/backend/internal/database"
	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/router"
	"github.com/recipehub/backend/internal/server"
	"github.com/recipehub/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the database and apply migrations
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Set up shared Redis client
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Set up media storage
	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}
	if err := s3Config.SetupBucketPolicy(context.Background()); err != nil {
		// Images are served by public URL, so surface this loudly but keep
		// the API up; uploads still work without the read policy.
		log.Printf("Warning: failed to apply bucket policy: %v", err)
	}

	// Wire services and handlers
	mediaStore := service.NewS3MediaStore(s3Config)
	recipeCache := service.NewRedisRecipeCache(redisClient, cfg.CacheTTL)
	recipeService := service.NewRecipeService(db, mediaStore, recipeCache, service.RecipeServiceOptions{
		CacheReads:         cfg.CacheReadsEnabled,
		InvalidateOnWrite:  cfg.CacheInvalidateOnWrite,
		PurgeMediaOnDelete: cfg.MediaPurgeOnDelete,
	})
	recipeHandler := api.NewRecipeHandler(recipeService)
	rateLimiter := middleware.NewAPIRateLimiter(redisClient)

	// Create and start server
	srv := server.New(cfg, router.SetupRouter(recipeHandler, rateLimiter))

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
