// Package cache keeps the two public read-heavy listings (the post feed and
// the profile directory) in Redis. Every mutating operation invalidates the
// affected key; a miss or a Redis outage simply falls through to Postgres.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ace-TI85/dev-connector/internal/models"
)

const (
	keyPosts    = "feed:posts"
	keyProfiles = "feed:profiles"
)

// FeedCache is nil-safe: a nil *FeedCache (Redis not configured) behaves as
// a permanent miss so callers never have to branch.
type FeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{rdb: rdb, ttl: ttl}
}

func (c *FeedCache) GetPosts(ctx context.Context) ([]models.Post, error) {
	return get[models.Post](ctx, c, keyPosts)
}

func (c *FeedCache) SetPosts(ctx context.Context, posts []models.Post) error {
	return set(ctx, c, keyPosts, posts)
}

func (c *FeedCache) InvalidatePosts(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, keyPosts).Err()
}

func (c *FeedCache) GetProfiles(ctx context.Context) ([]models.Profile, error) {
	return get[models.Profile](ctx, c, keyProfiles)
}

func (c *FeedCache) SetProfiles(ctx context.Context, profiles []models.Profile) error {
	return set(ctx, c, keyProfiles, profiles)
}

func (c *FeedCache) InvalidateProfiles(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, keyProfiles).Err()
}

// get returns (nil, nil) on a miss.
func get[T any](ctx context.Context, c *FeedCache, key string) ([]T, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []T
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func set[T any](ctx context.Context, c *FeedCache, key string, list []T) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
