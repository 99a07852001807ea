package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/application/suggest"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/config"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/domain/taxonomy"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/database/redis"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/messaging/kafka"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/prometheus"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/handlers"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/middleware"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/client"
)

// dependencies holds the infrastructure the service and router are built
// from, plus the closers to run at shutdown.
type dependencies struct {
	searcher  suggest.Searcher
	lookup    taxonomy.Lookup
	sessions  *suggest.SessionStore
	publisher suggest.EventPublisher
	metrics   suggest.Metrics

	httpMetrics    middleware.HTTPMetrics
	metricsHandler http.Handler
	checkers       []handlers.HealthChecker

	closers []func() error
	logger  logging.Logger
}

func buildDependencies(ctx context.Context, cfg *config.Config, logger logging.Logger) (*dependencies, error) {
	d := &dependencies{logger: logger, metrics: suggest.NoopMetrics()}

	var suggestMetrics *prometheus.SuggestMetrics
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("metrics initialization failed: %w", err)
		}
		suggestMetrics = prometheus.NewSuggestMetrics(collector)
		d.metrics = suggestMetrics
		d.httpMetrics = suggestMetrics
		d.metricsHandler = collector.Handler()
	}

	taxa, err := client.NewClient(cfg.Taxonomy.BaseURL,
		client.WithAPIKey(cfg.Taxonomy.APIKey),
		client.WithTimeout(cfg.Taxonomy.Timeout),
		client.WithRetryMax(cfg.Taxonomy.RetryMax),
		client.WithUserAgent("taxon-suggest/"+version),
		client.WithLogger(logging.NewPrintfAdapter(logger.Named("taxonomy"))),
	)
	if err != nil {
		return nil, fmt.Errorf("taxonomy client initialization failed: %w", err)
	}
	d.searcher = taxa.Taxa()
	d.lookup = taxa.Taxa()

	if cfg.Cache.Enabled {
		if err := d.wireCache(cfg, logger); err != nil {
			d.Close()
			return nil, err
		}
	}

	if cfg.Kafka.Enabled {
		var eventMetrics kafka.EventMetrics
		if suggestMetrics != nil {
			eventMetrics = suggestMetrics
		}
		if err := d.wireEvents(ctx, cfg, logger, eventMetrics); err != nil {
			d.Close()
			return nil, err
		}
	}

	d.sessions = suggest.NewSessionStore(suggest.StoreConfig{
		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
	}, logger.Named("sessions"), d.metrics)
	return d, nil
}

// wireCache puts the Redis page cache in front of the taxonomy searcher.
func (d *dependencies) wireCache(cfg *config.Config, logger logging.Logger) error {
	redisCfg := cfg.Cache.Redis
	rc, err := redis.NewClient(&redisCfg, logger.Named("redis"))
	if err != nil {
		return fmt.Errorf("redis initialization failed: %w", err)
	}
	d.closers = append(d.closers, rc.Close)

	cache := redis.NewRedisCache(rc, logger.Named("cache"),
		redis.WithPrefix(cfg.Cache.Prefix),
		redis.WithDefaultTTL(cfg.Cache.TTL),
		redis.WithLoadTimeout(cfg.Taxonomy.CallBudget()))
	d.searcher = suggest.NewCachedSearcher(d.searcher, cache, cfg.Cache.TTL, logger.Named("cache"), d.metrics)
	d.checkers = append(d.checkers, handlers.NewPingChecker("redis", cache.Ping))
	return nil
}

// wireEvents provisions the event topics when asked and installs the Kafka
// selection publisher.
func (d *dependencies) wireEvents(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics kafka.EventMetrics) error {
	if cfg.Kafka.EnsureTopics {
		tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger.Named("kafka"))
		if err != nil {
			return fmt.Errorf("kafka topic manager initialization failed: %w", err)
		}
		err = tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg.Kafka.SelectionTopic, cfg.Kafka.RedirectTopic, cfg.Kafka.ReplicationFactor))
		_ = tm.Close()
		if err != nil {
			return fmt.Errorf("kafka topic provisioning failed: %w", err)
		}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		ClientID:     cfg.Kafka.ClientID,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		MaxRetries:   cfg.Kafka.MaxRetries,
	}, logger.Named("kafka"))
	if err != nil {
		return fmt.Errorf("kafka producer initialization failed: %w", err)
	}
	d.closers = append(d.closers, producer.Close)

	d.publisher = kafka.NewEventPublisher(producer, kafka.EventPublisherConfig{
		SelectionTopic: cfg.Kafka.SelectionTopic,
		RedirectTopic:  cfg.Kafka.RedirectTopic,
		Source:         cfg.Kafka.ClientID,
	}, logger.Named("events"), metrics)
	return nil
}

// Close runs the closers in reverse order of acquisition.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.logger.Warn("Failed to close dependency", logging.Err(err))
		}
	}
	d.closers = nil
}

//Personal.AI order the ending
