package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const tagDirectoryKey = "forum:tags:directory"

// TagDirectory caches the sorted list of tag names shown in the sidebar.
type TagDirectory interface {
	Get(ctx context.Context) ([]string, bool)
	Set(ctx context.Context, names []string)
	Invalidate(ctx context.Context)
}

// RedisTagDirectory stores the directory as one JSON value. Redis failures
// are logged and treated as a cache miss.
type RedisTagDirectory struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewTagDirectory returns a Redis-backed directory, or a no-op one when client is nil.
func NewTagDirectory(client *redis.Client, ttl time.Duration, log *zap.Logger) TagDirectory {
	if client == nil {
		return NopTagDirectory{}
	}
	return &RedisTagDirectory{client: client, ttl: ttl, log: log}
}

func (d *RedisTagDirectory) Get(ctx context.Context) ([]string, bool) {
	raw, err := d.client.Get(ctx, tagDirectoryKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.log.Warn("tag directory read failed", zap.Error(err))
		}
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		d.log.Warn("tag directory entry is corrupt", zap.Error(err))
		return nil, false
	}
	return names, true
}

func (d *RedisTagDirectory) Set(ctx context.Context, names []string) {
	raw, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := d.client.Set(ctx, tagDirectoryKey, raw, d.ttl).Err(); err != nil {
		d.log.Warn("tag directory write failed", zap.Error(err))
	}
}

func (d *RedisTagDirectory) Invalidate(ctx context.Context) {
	if err := d.client.Del(ctx, tagDirectoryKey).Err(); err != nil {
		d.log.Warn("tag directory invalidation failed", zap.Error(err))
	}
}

// NopTagDirectory never caches.
type NopTagDirectory struct{}

func (NopTagDirectory) Get(context.Context) ([]string, bool) { return nil, false }
func (NopTagDirectory) Set(context.Context, []string)        {}
func (NopTagDirectory) Invalidate(context.Context)           {}
