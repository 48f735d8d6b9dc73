package question

//go:generate mockgen -destination=./cache_mock_test.go -package=question -source=cache.go AnswerCache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"bea-chatbot/internal/domain"
)

const cachePrefix = "answer:"

// AnswerCache keeps recently asked questions close to the service so repeated
// questions skip the database and the classifier.
type AnswerCache interface {
	// Get returns the cached question, or nil when there is none.
	Get(ctx context.Context, text string) (*domain.Question, error)
	Set(ctx context.Context, q *domain.Question) error
	// Invalidate drops the entry for a question text.
	Invalidate(ctx context.Context, text string) error
}

// normalize is the cache key form of a question: trimmed and lower-cased,
// matching the case-insensitive lookup of the repository.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// redisCache is the Redis implementation of AnswerCache.
type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache is the constructor for the Redis answer cache.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) AnswerCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, text string) (*domain.Question, error) {
	data, err := c.rdb.Get(ctx, cachePrefix+normalize(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cached answer: %w", err)
	}

	var q domain.Question
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached answer: %w", err)
	}
	return &q, nil
}

func (c *redisCache) Set(ctx context.Context, q *domain.Question) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	if err := c.rdb.Set(ctx, cachePrefix+normalize(q.QuestionText), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache answer: %w", err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, text string) error {
	if err := c.rdb.Del(ctx, cachePrefix+normalize(text)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached answer: %w", err)
	}
	return nil
}

// noopCache is used when no Redis is configured.
type noopCache struct{}

// NewNoopCache returns a cache that never holds anything.
func NewNoopCache() AnswerCache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, text string) (*domain.Question, error) { return nil, nil }
func (noopCache) Set(ctx context.Context, q *domain.Question) error              { return nil }
func (noopCache) Invalidate(ctx context.Context, text string) error              { return nil }
