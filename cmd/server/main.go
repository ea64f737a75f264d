// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/api"
	"github.com/andresuchdata/sales-dashboard/internal/cache"
	"github.com/andresuchdata/sales-dashboard/internal/config"
	"github.com/andresuchdata/sales-dashboard/internal/fetcher"
	"github.com/andresuchdata/sales-dashboard/internal/repository/postgres"
	"github.com/andresuchdata/sales-dashboard/internal/service"
	"github.com/andresuchdata/sales-dashboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := openDB(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize session store
	store, err := cache.NewSessionStore(cfg.Session, cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("backend", cfg.Session.Backend).Msg("Failed to initialize session store")
	}

	// Initialize services
	salesRepo := postgres.NewSalesRepository(db)
	salesFetcher := fetcher.New(salesRepo,
		fetcher.WithPageSize(cfg.Fetch.PageSize),
		fetcher.WithConcurrency(cfg.Fetch.Concurrency),
	)
	dashboardService := service.NewDashboardService(salesFetcher, store, cfg.Fetch.Dataset)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{DashboardService: dashboardService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("dataset", cfg.Fetch.Dataset).
			Str("session_backend", cfg.Session.Backend).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func openDB(cfg *config.Config) (*postgres.DB, error) {
	if cfg.Database.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxConcurrentQueries)
	}
	return postgres.NewDB(&cfg.Database)
}
