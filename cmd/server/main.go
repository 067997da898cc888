// Package main initializes and starts the marketplace HTTP server,
// setting up configuration, logging, database connections, repositories,
// services, handlers, and metrics.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/guillsango/marketplace/internal/config"
	"github.com/guillsango/marketplace/internal/db"
	"github.com/guillsango/marketplace/internal/logger"
	"github.com/guillsango/marketplace/internal/metrics"
	"github.com/guillsango/marketplace/internal/middleware"
	"github.com/guillsango/marketplace/internal/repository"
	"github.com/guillsango/marketplace/internal/security"
	"github.com/guillsango/marketplace/internal/server/handler/http"
	"github.com/guillsango/marketplace/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and apply schema migrations.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	if err := db.RunMigrations(options.DatabaseDSN); err != nil {
		zapLogger.Fatal("cannot run migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Remove expired sessions in the background.
	db.StartSessionCleaner(ctx, postgresDB, time.Hour, zapLogger)

	// Initialize repositories.
	allowListRepo := repository.NewPostgresAllowListRepository(postgresDB)
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	productRepo := repository.NewPostgresProductRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB)

	// Initialize business-logic services.
	hasher := security.NewHasher(options.BcryptCost)
	sessionTTL := time.Duration(options.SessionTTLMinutes) * time.Minute
	authService := service.NewAuthService(userRepo, sessionRepo, hasher, sessionTTL)
	userService := service.NewUserService(allowListRepo, userRepo, productRepo, hasher)
	productService := service.NewProductService(productRepo)

	// Metrics registry and collector.
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{Users: userService, Auth: authService, Metrics: collector, Logger: zapLogger}
	userHandler := &http.UserHandler{Users: userService, Logger: zapLogger}
	productHandler := &http.ProductHandler{Catalog: productService, Metrics: collector, Logger: zapLogger}

	// Per-client rate limiting.
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Stop()

	// Build the router with middleware and routes.
	router := http.NewRouter(http.RouterConfig{
		Auth:          authHandler,
		Users:         userHandler,
		Products:      productHandler,
		Sessions:      authService,
		StatusMetrics: collector,
		RateLimiter:   rateLimiter,
		Logger:        zapLogger,
		AllowedOrigin: options.AllowedOrigin,
		MaxBodyBytes:  options.MaxBodyBytes,
	})

	// Serve the API and the Prometheus scrape endpoint.
	mux := nethttp.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.Handle("/", router)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
