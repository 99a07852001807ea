package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 10 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 15 * time.Second

	DefaultTaxonomyBaseURL  = "http://localhost:8000/api"
	DefaultTaxonomyTimeout  = 10 * time.Second
	DefaultTaxonomyPerPage  = 50
	DefaultTaxonomyMaxPages = 3
	DefaultTaxonomyRetryMax = 2

	DefaultCacheTTL    = 10 * time.Minute
	DefaultCachePrefix = "taxon:search:"
	DefaultRedisAddr   = "localhost:6379"

	DefaultKafkaBroker         = "localhost:9092"
	DefaultKafkaClientID       = "taxon-suggest"
	DefaultKafkaSelectionTopic = "taxon.selection.finalized"
	DefaultKafkaRedirectTopic  = "taxon.synonym.redirected"
	DefaultKafkaReplication    = 1
	DefaultKafkaGroupID        = "taxon-suggest-tail"

	DefaultMetricsNamespace = "taxon_suggest"
	DefaultMetricsPath      = "/metrics"

	DefaultSessionIdleTTL     = 30 * time.Minute
	DefaultSessionMaxSessions = 10000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set are left unchanged so that explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	// ── Taxonomy ──────────────────────────────────────────────────────────────
	if cfg.Taxonomy.BaseURL == "" {
		cfg.Taxonomy.BaseURL = DefaultTaxonomyBaseURL
	}
	if cfg.Taxonomy.Timeout == 0 {
		cfg.Taxonomy.Timeout = DefaultTaxonomyTimeout
	}
	if cfg.Taxonomy.PerPage == 0 {
		cfg.Taxonomy.PerPage = DefaultTaxonomyPerPage
	}
	if cfg.Taxonomy.MaxPages == 0 {
		cfg.Taxonomy.MaxPages = DefaultTaxonomyMaxPages
	}
	// RetryMax is an int where 0 is a meaningful "no retries"; it is seeded
	// through viper defaults instead.

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = DefaultCachePrefix
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = DefaultRedisAddr
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.SelectionTopic == "" {
		cfg.Kafka.SelectionTopic = DefaultKafkaSelectionTopic
	}
	if cfg.Kafka.RedirectTopic == "" {
		cfg.Kafka.RedirectTopic = DefaultKafkaRedirectTopic
	}
	if cfg.Kafka.ReplicationFactor == 0 {
		cfg.Kafka.ReplicationFactor = DefaultKafkaReplication
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Session ───────────────────────────────────────────────────────────────
	if cfg.Session.IdleTTL == 0 {
		cfg.Session.IdleTTL = DefaultSessionIdleTTL
	}
	if cfg.Session.MaxSessions == 0 {
		cfg.Session.MaxSessions = DefaultSessionMaxSessions
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated entirely from defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Taxonomy: TaxonomyConfig{RetryMax: DefaultTaxonomyRetryMax},
		Metrics:  MetricsConfig{Enabled: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

// registerDefaults seeds v with every known key.  Viper only consults the
// environment for keys it already knows about, so without this an env-only
// deployment would silently ignore FOBI_* overrides for unset keys.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("taxonomy.base_url", DefaultTaxonomyBaseURL)
	v.SetDefault("taxonomy.api_key", "")
	v.SetDefault("taxonomy.timeout", DefaultTaxonomyTimeout)
	v.SetDefault("taxonomy.per_page", DefaultTaxonomyPerPage)
	v.SetDefault("taxonomy.max_pages", DefaultTaxonomyMaxPages)
	v.SetDefault("taxonomy.data_sources", []string{})
	v.SetDefault("taxonomy.retry_max", DefaultTaxonomyRetryMax)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.prefix", DefaultCachePrefix)
	v.SetDefault("cache.redis.mode", "standalone")
	v.SetDefault("cache.redis.addr", DefaultRedisAddr)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("kafka.client_id", DefaultKafkaClientID)
	v.SetDefault("kafka.selection_topic", DefaultKafkaSelectionTopic)
	v.SetDefault("kafka.redirect_topic", DefaultKafkaRedirectTopic)
	v.SetDefault("kafka.batch_timeout", 50*time.Millisecond)
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.ensure_topics", false)
	v.SetDefault("kafka.replication_factor", DefaultKafkaReplication)
	v.SetDefault("kafka.group_id", DefaultKafkaGroupID)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.path", DefaultMetricsPath)

	v.SetDefault("session.idle_ttl", DefaultSessionIdleTTL)
	v.SetDefault("session.max_sessions", DefaultSessionMaxSessions)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

//Personal.AI order the ending
