package service

import (
	"context"
	"encoding/json"

	"pollsvc/internal/domain"
	"pollsvc/pkg/redis"

	"go.uber.org/zap"
)

// CacheService provides best-effort caching around the voting hot paths.
// Every method is a no-op when Redis is not configured; cache failures are
// logged and never fail the operation.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a cache service. redisClient may be nil.
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{redis: redisClient, logger: logger}
}

func (c *CacheService) enabled() bool {
	return c != nil && c.redis != nil
}

// GetCachedResults returns a cached results document if present and intact.
func (c *CacheService) GetCachedResults(ctx context.Context, pollID int64) (*domain.PollResults, bool) {
	if !c.enabled() {
		return nil, false
	}

	cachedData, err := c.redis.Get(ctx, c.redis.KeyBuilder.KeyPollResults(pollID))
	if err != nil || cachedData == "" {
		return nil, false
	}

	var results domain.PollResults
	if err := json.Unmarshal([]byte(cachedData), &results); err != nil {
		c.logger.Warn("results cache corrupted, falling back to database",
			zap.Int64("poll_id", pollID),
			zap.Error(err))
		return nil, false
	}

	c.logger.Debug("results cache hit", zap.Int64("poll_id", pollID))
	return &results, true
}

// StoreResults caches a results document with a short TTL.
func (c *CacheService) StoreResults(ctx context.Context, pollID int64, results *domain.PollResults) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.redis.KeyBuilder.KeyPollResults(pollID), string(data), redis.TTLResults); err != nil {
		c.logger.Warn("failed to cache results",
			zap.Int64("poll_id", pollID),
			zap.Error(err))
	}
}

// InvalidateResults drops the cached results document after a vote commits.
func (c *CacheService) InvalidateResults(ctx context.Context, pollID int64) {
	if !c.enabled() {
		return
	}

	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyPollResults(pollID)); err != nil {
		c.logger.Warn("failed to invalidate results cache",
			zap.Int64("poll_id", pollID),
			zap.Error(err))
	}
}

// HasVotedCached reports whether the voted flag is cached for (poll, voter).
// Only a positive answer is cached; votes are never revoked.
func (c *CacheService) HasVotedCached(ctx context.Context, pollID int64, voterIdentifier string) bool {
	if !c.enabled() {
		return false
	}

	n, err := c.redis.Exists(ctx, c.redis.KeyBuilder.KeyVoterVoted(pollID, voterIdentifier))
	if err != nil {
		c.logger.Warn("voted-flag cache error, falling back to database",
			zap.Int64("poll_id", pollID),
			zap.Error(err))
		return false
	}

	return n > 0
}

// MarkVoted caches the voted flag for (poll, voter).
func (c *CacheService) MarkVoted(ctx context.Context, pollID int64, voterIdentifier string) {
	if !c.enabled() {
		return
	}

	key := c.redis.KeyBuilder.KeyVoterVoted(pollID, voterIdentifier)
	if err := c.redis.Set(ctx, key, "1", redis.TTLVoterVote); err != nil {
		c.logger.Warn("failed to cache voted flag",
			zap.Int64("poll_id", pollID),
			zap.Error(err))
	}
}
