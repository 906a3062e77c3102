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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hayasaka/monban/internal/handlers"
	"github.com/hayasaka/monban/internal/infrastructure/config"
	"github.com/hayasaka/monban/internal/infrastructure/database"
	"github.com/hayasaka/monban/internal/infrastructure/metrics"
	"github.com/hayasaka/monban/internal/repositories/mongodb"
	"github.com/hayasaka/monban/internal/services"
	"github.com/hayasaka/monban/internal/services/authorization"
	"github.com/hayasaka/monban/pkg/cache"
	"github.com/hayasaka/monban/pkg/cache/memorycache"
)

const defaultEnv = "dev"

func main() {
	// Get environment from ENV variable or use default
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "monban").Logger()

	// Connect to the document store
	mongoDB, err := database.NewMongo(&cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer mongoDB.Close()

	log.Printf("Connected to mongodb: %s/%s", cfg.Mongo.URI, cfg.Mongo.Database)

	// Initialize repositories
	resourceRepo := mongodb.NewMongoResourcePermissionRepository(mongoDB.DB)
	uiRepo := mongodb.NewMongoUiPermissionRepository(mongoDB.DB)
	holderRepo := mongodb.NewMongoHolderRepository(mongoDB.DB)

	// Optional decision cache
	var decisionCache cache.Cache
	if cfg.Cache.Enabled {
		decisionCache = memorycache.New(memorycache.Config{
			MaxEntries: cfg.Cache.MaxEntries,
			DefaultTTL: time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		})
		defer decisionCache.Close()
	}

	// Initialize services
	permissionService := services.NewPermissionService(resourceRepo, uiRepo, logger)
	assignmentService := services.NewAssignmentService(holderRepo, permissionService, logger)
	resolver := authorization.NewResolver(holderRepo, resourceRepo, uiRepo)

	var validator *authorization.Validator
	if decisionCache != nil {
		validator = authorization.NewValidatorWithCache(
			holderRepo, resourceRepo, cfg.Auth.SuperAdminUsername, logger,
			decisionCache, time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
		)
	} else {
		validator = authorization.NewValidator(holderRepo, resourceRepo, cfg.Auth.SuperAdminUsername, logger)
	}

	// Metrics
	exporter := metrics.NewPrometheusExporter(decisionCache)

	// Initialize handlers and router
	validationHandler := handlers.NewValidationHandler(validator, exporter, logger)
	permissionHandler := handlers.NewPermissionHandler(permissionService)
	holderHandler := handlers.NewHolderHandler(assignmentService, resolver)

	router := handlers.NewRouter(
		validationHandler,
		permissionHandler,
		holderHandler,
		mongoDB,
		metrics.Middleware(exporter),
		handlers.AuthMiddleware(cfg.Auth.JWTSecret),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Metrics server on its own port
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler: promhttp.Handler(),
	}

	serverErrors := make(chan error, 2)
	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("http server error: %w", err)
		}
	}()
	go func() {
		log.Printf("Metrics server listening on %s", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Metrics server shutdown error: %v", err)
		}

		if err := mongoDB.Close(); err != nil {
			log.Printf("Error closing mongodb connection: %v", err)
		}

		log.Println("Shutdown complete")
	}
}
