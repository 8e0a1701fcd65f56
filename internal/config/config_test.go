package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("LANDING_FETCH_WAIT", "")
	t.Setenv("CART_RATE_LIMIT", "")
	t.Setenv("CART_IDLE_TTL", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")

	cfg := FromEnv()

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, BackendMemory, cfg.DataBackend)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.LandingFetchWait)
	assert.Equal(t, 20, cfg.CartRateLimit)
	assert.Equal(t, 30*time.Minute, cfg.CartIdleTTL)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.AllowOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DATA_BACKEND", "Postgres")
	t.Setenv("SCYLLA_HOSTS", "10.0.0.1, 10.0.0.2,,")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("LANDING_FETCH_WAIT", "500ms")
	t.Setenv("CART_RATE_LIMIT", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://shop.example.com")

	cfg := FromEnv()

	assert.False(t, cfg.IsDev())
	assert.Equal(t, BackendPostgres, cfg.DataBackend)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Scylla.Hosts)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 500*time.Millisecond, cfg.LandingFetchWait)
	assert.Equal(t, 20, cfg.CartRateLimit)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.AllowOrigins)
}
