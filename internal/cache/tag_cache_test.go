package cache

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTagDirectory_NilClientIsNop(t *testing.T) {
	dir := NewTagDirectory(nil, time.Minute, zap.NewNop())
	assert.IsType(t, NopTagDirectory{}, dir)

	dir.Set(context.Background(), []string{"go"})
	names, ok := dir.Get(context.Background())
	assert.False(t, ok)
	assert.Nil(t, names)
}

func TestRedisTagDirectory_UnreachableServerIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	dir := NewTagDirectory(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	dir.Set(ctx, []string{"go", "news"})
	names, ok := dir.Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, names)
	dir.Invalidate(ctx)
}

// memoryHook answers GET, SET and DEL from a map so the client never dials.
type memoryHook struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMemoryClient() (*redis.Client, *memoryHook) {
	hook := &memoryHook{data: map[string]string{}, ttls: map[string]time.Duration{}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	client.AddHook(hook)
	return client, hook
}

func (h *memoryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("unexpected dial to %s", addr)
	}
}

func (h *memoryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		key := fmt.Sprint(args[1])
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := h.data[key]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			h.data[key] = fmt.Sprintf("%s", args[2])
			if len(args) > 4 {
				if ttl, ok := args[4].(int64); ok {
					h.ttls[key] = time.Duration(ttl) * time.Second
				}
			}
			c.SetVal("OK")
		case *redis.IntCmd:
			_, ok := h.data[key]
			delete(h.data, key)
			if ok {
				c.SetVal(1)
			}
		}
		return nil
	}
}

func (h *memoryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisTagDirectory_RoundTrip(t *testing.T) {
	client, hook := newMemoryClient()
	defer client.Close()

	dir := NewTagDirectory(client, time.Minute, zap.NewNop())
	require.IsType(t, &RedisTagDirectory{}, dir)
	ctx := context.Background()

	_, ok := dir.Get(ctx)
	assert.False(t, ok)

	dir.Set(ctx, []string{"go", "новости"})
	assert.JSONEq(t, `["go","новости"]`, hook.data[tagDirectoryKey])
	assert.Equal(t, time.Minute, hook.ttls[tagDirectoryKey])

	names, ok := dir.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{"go", "новости"}, names)

	dir.Invalidate(ctx)
	_, ok = dir.Get(ctx)
	assert.False(t, ok)
}

func TestRedisTagDirectory_CorruptEntryIsMiss(t *testing.T) {
	client, hook := newMemoryClient()
	defer client.Close()

	hook.data[tagDirectoryKey] = "{not json"
	names, ok := NewTagDirectory(client, time.Minute, zap.NewNop()).Get(context.Background())
	assert.False(t, ok)
	assert.Nil(t, names)
}
