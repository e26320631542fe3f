package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 8*time.Second, cfg.Search.Deadline)
		assert.Equal(t, 2, cfg.Search.MaxStores)
		assert.Equal(t, 5, cfg.Search.CandidatesPerStore)
		assert.Equal(t, 15, cfg.Search.MaxResults)
		assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.False(t, cfg.Cache.CacheMock)
		assert.Equal(t, "none", cfg.Alternate.Provider)
		assert.False(t, cfg.LLM.Enabled())
	})

	t.Run("clamps search values", func(t *testing.T) {
		t.Setenv("SEARCH_RETRIES", "9")
		t.Setenv("SEARCH_CANDIDATES_PER_STORE", "50")
		t.Setenv("SEARCH_STORE_TIMEOUT", "20s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Search.Retries)
		assert.Equal(t, 10, cfg.Search.CandidatesPerStore)
		assert.Equal(t, cfg.Search.Deadline, cfg.Search.StoreTimeout)
	})

	t.Run("rejects unknown backends", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "memcached")
		_, err := Load()
		assert.ErrorContains(t, err, "memcached")
	})

	t.Run("rejects unknown alternate provider", func(t *testing.T) {
		t.Setenv("ALTERNATE_PROVIDER", "bing")
		_, err := Load()
		assert.ErrorContains(t, err, "bing")
	})

	t.Run("list values", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	})
}
