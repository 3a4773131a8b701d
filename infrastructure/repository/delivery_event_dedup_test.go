package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

func newMiniredisDeduplicator(t *testing.T, ttl time.Duration) (DeliveryEventDeduplicator, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisDeliveryEventDeduplicator(client, ttl), mr
}

func TestRedisDeliveryEventDeduplicator_Claim(t *testing.T) {
	ctx := context.Background()
	dedup, mr := newMiniredisDeduplicator(t, time.Hour)

	claimed, err := dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.True(t, mr.Exists(deliveryEventKeyPrefix+"abc"))
	assert.Equal(t, time.Hour, mr.TTL(deliveryEventKeyPrefix+"abc"))

	claimed, err = dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestRedisDeliveryEventDeduplicator_ExpiredKeyCanBeClaimedAgain(t *testing.T) {
	ctx := context.Background()
	dedup, mr := newMiniredisDeduplicator(t, time.Minute)

	claimed, err := dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	require.True(t, claimed)

	mr.FastForward(2 * time.Minute)

	claimed, err = dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisDeliveryEventDeduplicator_Release(t *testing.T) {
	ctx := context.Background()
	dedup, mr := newMiniredisDeduplicator(t, time.Hour)

	_, err := dedup.Claim(ctx, "abc")
	require.NoError(t, err)

	require.NoError(t, dedup.Release(ctx, "abc"))
	assert.False(t, mr.Exists(deliveryEventKeyPrefix+"abc"))

	claimed, err := dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisDeliveryEventDeduplicator_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	dedup := NewRedisDeliveryEventDeduplicator(client, time.Hour)
	mr.Close()

	_, err = dedup.Claim(context.Background(), "abc")
	assert.True(t, errors.Is(err, domain.ErrTransient))
}

func TestMemoryDeliveryEventDeduplicator(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	dedup := NewMemoryDeliveryEventDeduplicator(time.Minute).(*memoryDeliveryEventDeduplicator)
	dedup.now = func() time.Time { return now }

	claimed, err := dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, claimed)

	now = now.Add(2 * time.Minute)
	claimed, err = dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, claimed)

	require.NoError(t, dedup.Release(ctx, "abc"))
	claimed, err = dedup.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, claimed)
}
