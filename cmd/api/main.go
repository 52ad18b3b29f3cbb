package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/adapters/cache"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/adapters/database"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/adapters/events"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/adapters/search"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/api/handlers"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/api/middleware"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/api/routes"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/application/services"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/Therapistdirectorydesign/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client. The application works without it: no
	// caching, no event bus.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize Typesense client when configured
	var typesenseClient *typesense.Client
	if cfg.Typesense.URL != "" {
		typesenseClient, err = typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense client, falling back to database search")
			typesenseClient = nil
		}
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	baseProviderAdapter := database.NewProviderAdapter(pgClient)

	var providerRepo repositories.ProviderRepository
	if cacheProvider != nil {
		providerRepo = database.NewCachedProviderAdapter(baseProviderAdapter, cacheProvider)
		log.Info().Msg("Provider adapter wrapped with caching layer")
	} else {
		providerRepo = baseProviderAdapter
		log.Warn().Msg("Provider adapter running without cache (Redis unavailable)")
	}

	var searchRepo repositories.ProviderSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	// Initialize event bus for import notifications
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Event bus initialized")
	} else {
		log.Info().Msg("Event bus disabled (Redis not available)")
	}

	// Initialize services
	providerService := services.NewProviderService(providerRepo, searchRepo)

	// Cache invalidation: drop derived caches when an import lands
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
		}
	}

	// Cache warming keeps the landing page hot
	if cacheProvider != nil {
		warmingService := services.NewCacheWarmingService(providerRepo, cacheProvider)
		go warmingService.StartPeriodicWarming(ctx, 5*time.Minute)
	}

	// Initialize handlers
	providerHandler := handlers.NewProviderHandler(providerService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	// Set up router
	router := routes.NewRouter(providerHandler, cacheMiddleware, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("Server stopped")
}
