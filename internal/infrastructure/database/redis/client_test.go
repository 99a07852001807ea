package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
)

func TestNewClient_Standalone_Success(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := &RedisConfig{
		Mode: "standalone",
		Addr: mr.Addr(),
	}

	client, err := NewClient(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
	assert.NotZero(t, cfg.PoolSize, "defaults applied")
}

func TestNewClient_UnknownModeFallsBackToStandalone(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(&RedisConfig{Mode: "bogus", Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}

func TestNewClient_Standalone_ConnectionFailed(t *testing.T) {
	cfg := &RedisConfig{
		Mode: "standalone",
		Addr: "localhost:1",
	}

	client, err := NewClient(cfg, logging.NewNopLogger())
	assert.Nil(t, client)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func TestNewClient_TLSMissingFiles(t *testing.T) {
	cfg := &RedisConfig{Addr: "localhost:6379", TLSEnabled: true, TLSCAFile: "/nonexistent/ca.pem"}
	_, err := NewClient(cfg, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestClient_Operations(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(&RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "foo", "bar", 0).Err())
	val, err := client.Get(ctx, "foo").Result()
	assert.NoError(t, err)
	assert.Equal(t, "bar", val)

	deleted, err := client.Del(ctx, "foo").Result()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestClient_Close(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(&RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)

	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close(), "second close is a no-op")

	ctx := context.Background()
	assert.Equal(t, ErrClientClosed, client.Get(ctx, "foo").Err())
	assert.Equal(t, ErrClientClosed, client.Set(ctx, "foo", "bar", 0).Err())
	assert.Equal(t, ErrClientClosed, client.Del(ctx, "foo").Err())
	assert.Equal(t, ErrClientClosed, client.Ping(ctx))
}

func TestWrapClient_NilLogger(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(&RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	defer client.Close()

	wrapped := WrapClient(client.rdb, nil)
	assert.NotNil(t, wrapped.logger)
	assert.NoError(t, wrapped.Ping(context.Background()))
}

//Personal.AI order the ending
