package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agent-kb/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("knowledge base not cached")

// KnowledgeCache keeps the last persisted knowledge base of each business in
// Redis so the calling agent can read it without a database round-trip.
type KnowledgeCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

func NewKnowledgeCache(redisURL string, ttl time.Duration, logger *zap.Logger) (*KnowledgeCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewKnowledgeCacheWithClient(client, ttl, logger), nil
}

func NewKnowledgeCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *KnowledgeCache {
	return &KnowledgeCache{
		client: client,
		ttl:    ttl,
		prefix: "kb:",
		logger: logger,
	}
}

func (c *KnowledgeCache) key(businessID string) string {
	return c.prefix + businessID
}

func (c *KnowledgeCache) Get(ctx context.Context, businessID string) (*models.KnowledgeBase, error) {
	data, err := c.client.Get(ctx, c.key(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached knowledge base: %w", err)
	}

	var kb models.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("decode cached knowledge base: %w", err)
	}
	return &kb, nil
}

func (c *KnowledgeCache) Set(ctx context.Context, kb *models.KnowledgeBase) error {
	data, err := json.Marshal(kb)
	if err != nil {
		return fmt.Errorf("encode knowledge base: %w", err)
	}
	if err := c.client.Set(ctx, c.key(kb.BusinessID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache knowledge base: %w", err)
	}
	return nil
}

func (c *KnowledgeCache) Delete(ctx context.Context, businessID string) error {
	if err := c.client.Del(ctx, c.key(businessID)).Err(); err != nil {
		return fmt.Errorf("evict knowledge base: %w", err)
	}
	return nil
}

func (c *KnowledgeCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *KnowledgeCache) Close() error {
	return c.client.Close()
}
