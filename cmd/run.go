package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"reelgap/api"
	"reelgap/config"
	"reelgap/database"
	"reelgap/events"
	"reelgap/repository"
	"reelgap/service"
	"reelgap/tmdb"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting reelgap server...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize redis (optional; caching degrades gracefully without it)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unavailable, caching disabled: %v", err)
			redisClient = nil
		} else {
			log.Println("Redis connection established successfully")
		}
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	pointsService := service.NewPointsService(uowFactory, cfg)
	ratingService := service.NewRatingService(uowFactory, pointsService)
	profileService := service.NewProfileService(uowFactory, cfg.LeaderboardLimit)
	discoveryService := service.NewDiscoveryService(uowFactory)
	tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey, cfg.TMDBBaseURL, redisClient)
	log.Println("Services initialized successfully")

	// Initialize HTTP server
	server := api.NewServer(cfg, profileService, ratingService, pointsService, discoveryService, tmdbClient, redisClient)

	// Leaderboard cache goes stale the moment a balance changes
	lbCache := api.NewLeaderboardCache(redisClient)
	eventBus.Subscribe(events.EventTypePointsChange, func(ctx context.Context, event events.Event) {
		lbCache.Invalidate(ctx)
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s in %s mode...", cfg.HTTPAddr, cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during HTTP shutdown: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing redis connection: %v", err)
		}
	}

	log.Println("Shutdown completed")
	return nil
}
