package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("LOG_MAX_BACKUPS", "not-a-number")
	t.Setenv("TAG_CACHE_TTL", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 3, cfg.LogMaxBackups)
	assert.Equal(t, 10*time.Minute, cfg.TagCacheTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("LOG_COMPRESS", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("TAG_CACHE_TTL", "30s")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.LogCompress)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.TagCacheTTL)
}
