package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-backend/internal/query"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, FeedRedis, cfg.Feed.Source)
	assert.Equal(t, "catalog.snapshots", cfg.Kafka.SnapshotTopic)
	assert.Equal(t, "catalog.leads", cfg.Kafka.LeadTopic)
	assert.Equal(t, 3*time.Second, cfg.Banner.Interval)
	assert.Equal(t, 10*time.Minute, cfg.Leads.DedupeTTL)
	assert.Len(t, cfg.Profiles(), 5)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("prefixed variable", func(t *testing.T) {
		t.Setenv("CATALOG_HTTP_ADDR", ":9090")
		t.Setenv("CATALOG_FEED_SOURCE", "kafka")

		cfg, err := FromViper(New())
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.HTTP.Addr)
		assert.Equal(t, FeedKafka, cfg.Feed.Source)
	})

	t.Run("legacy broker variables", func(t *testing.T) {
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("KAFKA_BROKER", "localhost:9092")

		cfg, err := FromViper(New())
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, "localhost:9092", cfg.Kafka.Broker)
	})
}

func TestValidate(t *testing.T) {
	v := New()
	v.Set("feed.source", "firebase")
	_, err := FromViper(v)
	assert.Error(t, err)

	v = New()
	v.Set("banner.interval", "0s")
	_, err = FromViper(v)
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":7000"
banner:
  interval: 5s
screens:
  - name: retail
    feed_path: shop/products
    search_fields: [name, category, description]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.Banner.Interval)

	var retailFields []query.Field
	for _, p := range cfg.Profiles() {
		if p.Name == "retail" {
			assert.Equal(t, "shop/products", p.FeedPath)
			retailFields = p.SearchFields
		}
	}
	assert.Contains(t, retailFields, query.FieldDescription)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
