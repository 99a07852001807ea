package kafka

import (
	"context"
	"time"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// MessagePublisher is the subset of Producer used by EventPublisher.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// EventMetrics counts publish outcomes per topic.
type EventMetrics interface {
	IncEventPublished(topic, outcome string)
}

// EventPublisherConfig names the topics and the source service.
type EventPublisherConfig struct {
	SelectionTopic string
	RedirectTopic  string
	Source         string
}

// EventPublisher turns finalized selections into enveloped Kafka records.
type EventPublisher struct {
	producer MessagePublisher
	cfg      EventPublisherConfig
	logger   logging.Logger
	metrics  EventMetrics
	now      func() time.Time
}

// NewEventPublisher builds a publisher over producer.  metrics may be nil.
func NewEventPublisher(producer MessagePublisher, cfg EventPublisherConfig, logger logging.Logger, metrics EventMetrics) *EventPublisher {
	if cfg.SelectionTopic == "" {
		cfg.SelectionTopic = TopicSelectionFinalized
	}
	if cfg.RedirectTopic == "" {
		cfg.RedirectTopic = TopicSynonymRedirected
	}
	if cfg.Source == "" {
		cfg.Source = "taxon-suggest"
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &EventPublisher{
		producer: producer,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// SelectionFinalized publishes the selection event and, when the pick was
// redirected from a synonym, a redirect event.  The first failure is
// returned after both publishes have been attempted.
func (p *EventPublisher) SelectionFinalized(ctx context.Context, sessionID string, res taxon.SelectionResult) error {
	at := p.now().UTC()
	key := res.Selection.ID
	if key == "" {
		key = res.Selection.ScientificName
	}

	firstErr := p.publish(ctx, p.cfg.SelectionTopic, EventSelectionFinalized, key, SelectionFinalizedPayload{
		SessionID:   sessionID,
		Selection:   res.Selection,
		Redirect:    res.Redirect,
		FinalizedAt: at,
	})

	if res.Redirect != nil {
		err := p.publish(ctx, p.cfg.RedirectTopic, EventSynonymRedirected, key, SynonymRedirectedPayload{
			SessionID:    sessionID,
			OriginalName: res.Redirect.OriginalName,
			ResolvedName: res.Redirect.ResolvedName,
			ResolvedID:   res.Redirect.ResolvedID,
			RedirectedAt: at,
		})
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *EventPublisher) publish(ctx context.Context, topic, eventType, key string, payload interface{}) error {
	env, err := NewEventEnvelope(eventType, p.cfg.Source, payload)
	if err != nil {
		p.record(topic, "error")
		return err
	}
	msg, err := env.ToMessage(topic, key)
	if err != nil {
		p.record(topic, "error")
		return err
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		p.record(topic, "error")
		p.logger.Warn("Failed to publish event",
			logging.String("topic", topic),
			logging.String("event_id", env.EventID),
			logging.Err(err))
		return err
	}
	p.record(topic, "success")
	return nil
}

func (p *EventPublisher) record(topic, outcome string) {
	if p.metrics != nil {
		p.metrics.IncEventPublished(topic, outcome)
	}
}

//Personal.AI order the ending
