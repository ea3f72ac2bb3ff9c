package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"essencia-backend/config"
	"essencia-backend/internal/delivery/http/middleware"
	v1 "essencia-backend/internal/delivery/http/v1"
	"essencia-backend/internal/infrastructure/cache"
	"essencia-backend/internal/infrastructure/viacep"
	"essencia-backend/internal/repository/pgxrepo"
	"essencia-backend/internal/usecase"
	"essencia-backend/pkg/logger"
	"essencia-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := pgxrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL")

	// Region rule store
	regionRepo := pgxrepo.NewRegionRepository(pgxPool)

	// Locality cache: 24h TTL by default, janitor sweep hourly
	memCache := cache.NewMemoryCache(cfg.LocalityCacheTTL, cfg.CacheCleanupInterval)

	// Postal-code directory (ViaCEP)
	directory := viacep.NewClient(cfg.DirectoryBaseURL)

	// Set up Router
	mux := http.NewServeMux()

	// Freight Module
	freightUC := usecase.NewFreightUsecase(regionRepo, directory, memCache, cfg.LocalityCacheTTL, cfg.DirectoryTimeout)
	freightHandler := v1.NewFreightHandler(freightUC)

	mux.HandleFunc("POST /api/v1/freight/calculate", freightHandler.CalculateFreight)

	// Region Admin Module
	regionUC := usecase.NewRegionUsecase(regionRepo)
	adminRegionHandler := v1.NewAdminRegionHandler(regionUC)

	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}

	mux.Handle("GET /api/v1/admin/regions", adminMiddleware(adminRegionHandler.ListRegions))
	mux.Handle("GET /api/v1/admin/regions/{id}", adminMiddleware(adminRegionHandler.GetRegion))
	mux.Handle("POST /api/v1/admin/regions", adminMiddleware(adminRegionHandler.CreateRegion))
	mux.Handle("PUT /api/v1/admin/regions/{id}", adminMiddleware(adminRegionHandler.UpdateRegion))
	mux.Handle("PATCH /api/v1/admin/regions/{id}/status", adminMiddleware(adminRegionHandler.UpdateRegionStatus))
	mux.Handle("DELETE /api/v1/admin/regions/{id}", adminMiddleware(adminRegionHandler.DeleteRegion))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,            // requests per second
		100,           // burst
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()
	log.Info().Msg("Server exited properly")
}
