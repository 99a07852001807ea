package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()

	child := logger.Named("suggest").With(logging.String("session", "s-1"))
	child.Warn("stale response dropped", logging.Uint64("seq", 3))

	msg, ok := logger.Find("warn", "stale response dropped")
	require.True(t, ok)
	assert.Equal(t, "suggest", msg.Logger)

	session, ok := msg.Field("session")
	require.True(t, ok)
	assert.Equal(t, "s-1", session)

	seq, ok := msg.Field("seq")
	require.True(t, ok)
	assert.Equal(t, uint64(3), seq)

	_, ok = msg.Field("missing")
	assert.False(t, ok)
}

//Personal.AI order the ending
