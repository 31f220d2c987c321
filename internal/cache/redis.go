package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 24 * time.Hour

// KeywordCache stores keyword embeddings in Redis. Keys are namespaced by
// model so switching models never serves vectors from another space.
type KeywordCache struct {
	client *redis.Client
	model  string
	ttl    time.Duration
}

func NewKeywordCache(client *redis.Client, model string, ttl time.Duration) *KeywordCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &KeywordCache{client: client, model: model, ttl: ttl}
}

func buildKey(model, keyword string) string {
	sum := sha256.Sum256([]byte(keyword))
	return fmt.Sprintf("emb:kw:%s:%s", model, hex.EncodeToString(sum[:]))
}

// Get keyword embedding from cache
func (c *KeywordCache) Get(ctx context.Context, keyword string) ([]float64, bool, error) {
	key := buildKey(c.model, keyword)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get keyword embedding from cache: %w", err)
	}

	var vec []float64
	if err := json.Unmarshal(val, &vec); err != nil {
		return nil, false, fmt.Errorf("unmarshal keyword embedding %s: %w", key, err)
	}
	return vec, true, nil
}

// Store keyword embedding in cache
func (c *KeywordCache) Set(ctx context.Context, keyword string, vec []float64) error {
	key := buildKey(c.model, keyword)
	val, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal keyword embedding: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("set keyword embedding in cache: %w", err)
	}
	return nil
}

// Clear drops every cached keyword embedding for the model, e.g. after the
// embedding server is upgraded.
func (c *KeywordCache) Clear(ctx context.Context) error {
	pattern := fmt.Sprintf("emb:kw:%s:*", c.model)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *KeywordCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
