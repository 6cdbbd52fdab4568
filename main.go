package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"pollsvc/internal/config"
	"pollsvc/internal/container"
	"pollsvc/internal/handler"
	"pollsvc/internal/middleware"
	"pollsvc/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	var shutdownErr error
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			shutdownErr = fmt.Errorf("HTTP server shutdown: %w", err)
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		r.container.Close()
	}

	if shutdownErr != nil {
		return shutdownErr
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting pollsvc server")

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.Config
	log := c.Logger

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID())
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	r.Use(chiMiddleware.StripSlashes)

	pollHandler := handler.NewPollHandler(c.PollService, log)
	votingHandler := handler.NewVotingHandler(c.VotingService, c.Resolver, cfg.SessionTTL, log)
	var cacheCheck handler.HealthChecker
	if c.RedisClient != nil {
		cacheCheck = c.RedisClient
	}
	healthHandler := handler.NewHealthHandler(c.Database, cacheCheck)

	voteLimit := middleware.RateLimitConfig{Scope: "vote", Limit: cfg.VoteRateLimit, Window: cfg.VoteRateWindow}
	createLimit := middleware.RateLimitConfig{Scope: "create_poll", Limit: cfg.CreateRateLimit, Window: cfg.CreateRateWindow}

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		// Every poll route works for anonymous callers; a bearer token only
		// upgrades the voter identity.
		r.Use(middleware.OptionalAuth(c.AuthService, log))

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.List)
			r.With(middleware.RateLimit(c.RedisClient, createLimit, log)).Post("/", pollHandler.Create)

			r.Route("/{pollID}", func(r chi.Router) {
				r.Get("/", pollHandler.Get)
				r.Patch("/", pollHandler.Update)
				r.Delete("/", pollHandler.Delete)

				r.With(middleware.RateLimit(c.RedisClient, voteLimit, log)).Post("/vote", votingHandler.Vote)
				r.Get("/results", votingHandler.Results)
				r.Get("/has_voted", votingHandler.HasVoted)
			})
		})
	})

	return r
}
