package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

type mockKafkaConn struct {
	created   []kafka.TopicConfig
	createErr error
	readFunc  func(topics ...string) ([]kafka.Partition, error)
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, errors.New("unknown topic")
}

func (m *mockKafkaConn) Close() error { return nil }

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: testLogger()}
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics(TopicSelectionFinalized, TopicSynonymRedirected, 0)
	require.Len(t, topics, 2)
	assert.Equal(t, TopicSelectionFinalized, topics[0].Name)
	assert.Equal(t, 1, topics[0].ReplicationFactor)
	assert.Equal(t, 3, DefaultTopics("a", "b", 3)[1].ReplicationFactor)
}

func TestEnsureTopics(t *testing.T) {
	conn := &mockKafkaConn{}
	m := newTestTopicManager(conn)

	require.NoError(t, m.EnsureTopics(context.Background(), DefaultTopics("sel", "red", 1)))
	require.Len(t, conn.created, 2)
	assert.Equal(t, "sel", conn.created[0].Topic)
	assert.Equal(t, "retention.ms", conn.created[0].ConfigEntries[0].ConfigName)
}

func TestCreateTopic_Validation(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	ctx := context.Background()
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t"}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1}))
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	conn := &mockKafkaConn{
		createErr: errors.New("topic already exists"),
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: topics[0]}}, nil
		},
	}
	m := newTestTopicManager(conn)
	assert.NoError(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))
}

func TestCreateTopic_Failure(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{createErr: errors.New("not controller")})
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := SelectionFinalizedPayload{
		SessionID: "s1",
		Selection: taxon.Selection{ID: "7", Rank: taxon.RankSpecies, ScientificName: "Felis catus", DisplayLabel: "Felis catus"},
	}
	env, err := NewEventEnvelope(EventSelectionFinalized, "taxon-suggest", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	msg, err := env.ToMessage(TopicSelectionFinalized, "7")
	require.NoError(t, err)
	assert.Equal(t, []byte("7"), msg.Key)
	assert.Equal(t, EventSelectionFinalized, msg.Headers["event_type"])
	assert.Equal(t, env.EventID, msg.Headers["event_id"])

	decoded, err := DecodeEnvelope(msg.Value)
	require.NoError(t, err)
	var got SelectionFinalizedPayload
	require.NoError(t, decoded.DecodePayload(&got))
	assert.Equal(t, payload.Selection, got.Selection)
	assert.Equal(t, "s1", got.SessionID)
}

func TestDecodeEnvelope_Errors(t *testing.T) {
	_, err := DecodeEnvelope(nil)
	assert.Error(t, err)
	_, err = DecodeEnvelope([]byte("{"))
	assert.Error(t, err)

	env := &EventEnvelope{}
	assert.Error(t, env.DecodePayload(&struct{}{}))
}

//Personal.AI order the ending
