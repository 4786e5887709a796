package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 6, cfg.ProductsPerPage)
	assert.Equal(t, "KRW", cfg.Currency)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "checkout-completed", cfg.KafkaTopic)
	assert.Equal(t, "catalog-updated", cfg.CatalogTopic)
	assert.Equal(t, language.MustParse("ko-KR"), cfg.LanguageTag())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("LOCALE", "en-US")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, language.MustParse("en-US"), cfg.LanguageTag())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})
	t.Run("page size", func(t *testing.T) {
		t.Setenv("PRODUCTS_PER_PAGE", "0")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("locale", func(t *testing.T) {
		t.Setenv("LOCALE", "not a locale!")
		_, err := Load()
		require.Error(t, err)
	})
}
