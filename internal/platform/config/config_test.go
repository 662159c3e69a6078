package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY_DURATION", "2h")
	t.Setenv("RATES_SOURCE", "http")
	t.Setenv("RATES_FEED_URL", "https://rates.example.com/latest")
	t.Setenv("RATES_CACHE_TTL", "90s")
	t.Setenv("BASE_CURRENCY", "mad")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://erp.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, RatesSourceHTTP, cfg.RatesSource)
	assert.Equal(t, 90*time.Second, cfg.RatesCacheTTL)
	assert.Equal(t, "MAD", cfg.BaseCurrency)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://erp.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATES_SOURCE", "carrier-pigeon")
	t.Setenv("RATES_CACHE_TTL", "soon")
	t.Setenv("BASE_CURRENCY", "DIRHAM")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, RatesSourceStatic, cfg.RatesSource)
	assert.Equal(t, 5*time.Minute, cfg.RatesCacheTTL)
	assert.Equal(t, "MAD", cfg.BaseCurrency)
}

func TestLoadConfig_HTTPSourceWithoutURL(t *testing.T) {
	t.Setenv("RATES_SOURCE", "http")
	t.Setenv("RATES_FEED_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, RatesSourceStatic, cfg.RatesSource)
}
