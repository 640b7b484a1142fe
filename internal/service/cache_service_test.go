package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheServiceDisabledIsNoOp(t *testing.T) {
	backend := &memoryCache{}
	svc := NewCacheService(backend, nil, time.Minute, zap.NewNop(), false)

	svc.Set(context.Background(), "key", "value")
	assert.Empty(t, backend.entries)

	var out string
	assert.False(t, svc.Get(context.Background(), "key", &out))
	assert.False(t, svc.Enabled())
}

func TestCacheServiceNilReceiverIsSafe(t *testing.T) {
	var svc *CacheService

	var out string
	assert.False(t, svc.Get(context.Background(), "key", &out))
	svc.Set(context.Background(), "key", "value")
	svc.Invalidate(context.Background(), "key*")
	assert.False(t, svc.Enabled())
}

func TestCacheServiceRoundTrip(t *testing.T) {
	svc := NewCacheService(&memoryCache{}, nil, time.Minute, zap.NewNop(), true)

	svc.Set(context.Background(), "greeting", "hello")

	var out string
	require.True(t, svc.Get(context.Background(), "greeting", &out))
	assert.Equal(t, "hello", out)

	svc.Invalidate(context.Background(), "greet*")
	assert.False(t, svc.Get(context.Background(), "greeting", &out))
}
