package container

import (
	"context"
	"fmt"

	"pollsvc/internal/config"
	"pollsvc/internal/identity"
	"pollsvc/internal/repository"
	"pollsvc/internal/service"
	"pollsvc/internal/service/auth"
	"pollsvc/pkg/database"
	"pollsvc/pkg/logger"
	"pollsvc/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	Database    *database.PostgresDB
	RedisClient *redis.Client

	AuthService   service.AuthService
	PollService   *service.PollService
	VotingService *service.VotingService
	Resolver      *identity.Resolver
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional: without it the service skips caching, sessions fall
	// back to memory, and rate limiting is disabled.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	pollRepo := repository.NewPollRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheService = service.NewCacheService(redisClient, log.Logger)
	}

	var sessions identity.SessionStore
	if redisClient != nil {
		sessions = identity.NewRedisSessionStore(redisClient, cfg.SessionTTL)
	} else {
		sessions = identity.NewMemorySessionStore()
	}

	return &Container{
		Config:      cfg,
		Logger:      log,
		Database:    db,
		RedisClient: redisClient,

		AuthService:   auth.NewService(cfg.JWTSecret, log),
		PollService:   service.NewPollService(pollRepo, log.Logger),
		VotingService: service.NewVotingService(voteRepo, cacheService, log.Logger),
		Resolver:      identity.NewResolver(sessions, log.Logger),
	}, nil
}

// Close releases the container's backing connections.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Error("Failed to close Redis client")
		}
	}
	if c.Database != nil {
		c.Database.Close()
	}
}
