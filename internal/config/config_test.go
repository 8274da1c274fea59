package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fatalExit struct{}

// panicOnFatal turns logrus.Fatal into a recoverable panic for the test.
func panicOnFatal(t *testing.T) {
	t.Helper()
	std := logrus.StandardLogger()
	prev := std.ExitFunc
	std.ExitFunc = func(int) { panic(fatalExit{}) }
	t.Cleanup(func() { std.ExitFunc = prev })
}

func TestLoad_SQLiteDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite3")

	cfg := Load()
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "directory.db", cfg.DBPath)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, 60, cfg.AccessTTLMin)
	assert.False(t, cfg.EditorAuthEnabled())
	assert.False(t, cfg.EventsEnabled)
	assert.Equal(t, "directory.events", cfg.EventsQueue)
	assert.Equal(t, "logs", cfg.ActivityLogDir)
	assert.Empty(t, cfg.DBHost)
}

func TestLoad_MySQL(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "fyyur")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "directory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("EVENTS_ENABLED", "yes")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")
	t.Setenv("DB_AUTO_MIGRATE", "off")

	cfg := Load()
	assert.Equal(t, "fyyur", cfg.DBUser)
	assert.Empty(t, cfg.DBPass)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.False(t, cfg.DBAutoMigrate)
	assert.True(t, cfg.EditorAuthEnabled())
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, "amqp://u:p@mq:5672/", cfg.AMQPURL)

	t.Setenv("RABBITMQ_URL", "amqp://rabbit/")
	assert.Equal(t, "amqp://rabbit/", Load().AMQPURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	panicOnFatal(t)
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "8080")

	assert.PanicsWithValue(t, fatalExit{}, func() { Load() })
}

func TestLoad_InvalidDriverAndPort(t *testing.T) {
	panicOnFatal(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")

	t.Setenv("DB_DRIVER", "postgres")
	assert.PanicsWithValue(t, fatalExit{}, func() { Load() })

	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_HOST", "h")
	t.Setenv("DB_NAME", "n")
	t.Setenv("DB_PORT", "not-a-port")
	assert.PanicsWithValue(t, fatalExit{}, func() { Load() })
}

func TestLoadCacheConfig(t *testing.T) {
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, 5*time.Second, cfg.LiveTTL)
	assert.Equal(t, "directory:cache", cfg.Prefix)

	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "-1s")
	cfg = LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.TTL)

	// live entries never outlive the regular ones
	t.Setenv("CACHE_TTL", "2s")
	t.Setenv("CACHE_LIVE_TTL", "10s")
	cfg = LoadCacheConfig()
	assert.Equal(t, 2*time.Second, cfg.LiveTTL)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "3s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 3*time.Second, cfg.RefillInterval)
	assert.Equal(t, 15*time.Second, cfg.TTL)

	t.Setenv("RATE_LIMIT_BURST", "12")
	assert.Equal(t, 12, LoadRateLimitConfig().Capacity)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	cfg := LoadRedisConfig()
	assert.Equal(t, "cache:6380", cfg.Addr)
	assert.Equal(t, 2, cfg.DB)
	assert.False(t, cfg.TLS)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_TLS", "1")
	cfg = LoadRedisConfig()
	require.Equal(t, "redis:6379", cfg.Addr)
	assert.True(t, cfg.TLS)
}
