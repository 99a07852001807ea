// Package config defines the configuration structures for the taxon
// suggestion service.  No I/O or parsing logic lives here, only plain data
// types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/database/redis"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TaxonomyConfig describes the remote taxonomy search collaborator.
type TaxonomyConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PerPage     int           `mapstructure:"per_page"`
	MaxPages    int           `mapstructure:"max_pages"`
	DataSources []string      `mapstructure:"data_sources"`
	RetryMax    int           `mapstructure:"retry_max"`
}

// CallBudget is the longest one taxonomy call may take with every retry
// spent.
func (t TaxonomyConfig) CallBudget() time.Duration {
	return t.Timeout * time.Duration(t.RetryMax+1)
}

// CacheConfig controls the search-page cache.
type CacheConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	TTL     time.Duration     `mapstructure:"ttl"`
	Prefix  string            `mapstructure:"prefix"`
	Redis   redis.RedisConfig `mapstructure:"redis"`
}

// KafkaConfig holds selection-event producer parameters.
type KafkaConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Brokers        []string      `mapstructure:"brokers"`
	ClientID       string        `mapstructure:"client_id"`
	SelectionTopic string        `mapstructure:"selection_topic"`
	RedirectTopic  string        `mapstructure:"redirect_topic"`
	BatchTimeout   time.Duration `mapstructure:"batch_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`

	// EnsureTopics creates the event topics at startup when missing.
	EnsureTopics      bool `mapstructure:"ensure_topics"`
	ReplicationFactor int  `mapstructure:"replication_factor"`

	// GroupID is the consumer group of the CLI event tail.
	GroupID string `mapstructure:"group_id"`
}

// MetricsConfig controls the Prometheus registry and endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// SessionConfig bounds the in-memory suggestion session store.
type SessionConfig struct {
	IdleTTL     time.Duration `mapstructure:"idle_ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Taxonomy TaxonomyConfig    `mapstructure:"taxonomy"`
	Cache    CacheConfig       `mapstructure:"cache"`
	Kafka    KafkaConfig       `mapstructure:"kafka"`
	Log      logging.LogConfig `mapstructure:"log"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
	Session  SessionConfig     `mapstructure:"session"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Taxonomy
	if c.Taxonomy.BaseURL == "" {
		return fmt.Errorf("config: taxonomy.base_url is required")
	}
	u, err := url.Parse(c.Taxonomy.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: taxonomy.base_url %q must be an absolute http(s) URL", c.Taxonomy.BaseURL)
	}
	if c.Taxonomy.PerPage < 1 || c.Taxonomy.PerPage > 100 {
		return fmt.Errorf("config: taxonomy.per_page must be in [1, 100], got %d", c.Taxonomy.PerPage)
	}
	if c.Taxonomy.MaxPages < 1 {
		return fmt.Errorf("config: taxonomy.max_pages must be ≥ 1, got %d", c.Taxonomy.MaxPages)
	}
	if c.Taxonomy.RetryMax < 0 {
		return fmt.Errorf("config: taxonomy.retry_max must be ≥ 0, got %d", c.Taxonomy.RetryMax)
	}

	// Cache
	if c.Cache.Enabled {
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("config: cache.redis.addr is required when the cache is enabled")
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("config: cache.ttl must be positive, got %s", c.Cache.TTL)
		}
	}

	// Kafka
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.SelectionTopic == "" || c.Kafka.RedirectTopic == "" {
			return fmt.Errorf("config: kafka.selection_topic and kafka.redirect_topic are required")
		}
	}

	// Session
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("config: session.idle_ttl must be positive, got %s", c.Session.IdleTTL)
	}
	if c.Session.MaxSessions < 1 {
		return fmt.Errorf("config: session.max_sessions must be ≥ 1, got %d", c.Session.MaxSessions)
	}

	// Log
	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
