// Package config loads service configuration from defaults, an optional YAML
// file, a .env file and CATALOG_* environment variables, in rising order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"catalog-backend/internal/screens"
)

// Feed sources.
const (
	FeedRedis = "redis"
	FeedKafka = "kafka"
)

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type FeedConfig struct {
	Source string `mapstructure:"source"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type KafkaConfig struct {
	Broker        string `mapstructure:"broker"`
	SnapshotTopic string `mapstructure:"snapshot_topic"`
	LeadTopic     string `mapstructure:"lead_topic"`
}

type LeadsConfig struct {
	DedupeTTL time.Duration `mapstructure:"dedupe_ttl"`
}

type BannerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Config is the full service configuration.
type Config struct {
	HTTP    HTTPConfig        `mapstructure:"http"`
	Log     LogConfig         `mapstructure:"log"`
	Feed    FeedConfig        `mapstructure:"feed"`
	Redis   RedisConfig       `mapstructure:"redis"`
	Kafka   KafkaConfig       `mapstructure:"kafka"`
	Leads   LeadsConfig       `mapstructure:"leads"`
	Banner  BannerConfig      `mapstructure:"banner"`
	Screens []screens.Profile `mapstructure:"screens"`
}

// Profiles returns the built-in screen profiles overlaid with configured ones.
func (c *Config) Profiles() []screens.Profile {
	return screens.Merge(screens.Defaults(), c.Screens...)
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Feed.Source {
	case FeedRedis, FeedKafka:
	default:
		return fmt.Errorf("config: feed.source must be %q or %q, got %q", FeedRedis, FeedKafka, c.Feed.Source)
	}
	if c.HTTP.Addr == "" {
		return errors.New("config: http.addr is empty")
	}
	if c.Banner.Interval <= 0 {
		return errors.New("config: banner.interval must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("feed.source", FeedRedis)
	v.SetDefault("redis.addr", "redis:6379")
	v.SetDefault("kafka.broker", "kafka:9092")
	v.SetDefault("kafka.snapshot_topic", "catalog.snapshots")
	v.SetDefault("kafka.lead_topic", "catalog.leads")
	v.SetDefault("leads.dedupe_ttl", 10*time.Minute)
	v.SetDefault("banner.interval", 3*time.Second)
}

// New builds a viper instance with defaults and environment bindings. The
// unprefixed REDIS_ADDR and KAFKA_BROKER variables are honoured too.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("redis.addr", "CATALOG_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("kafka.broker", "CATALOG_KAFKA_BROKER", "KAFKA_BROKER")
	return v
}

// Load reads the .env file (if any), then the YAML file at path (if
// non-empty), and returns the validated configuration.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates a configuration from v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
