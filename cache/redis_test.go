package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, prefix), mr
}

func TestDisabledStoreIsANoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, "insights")
	assert.False(t, store.Enabled())

	var dest map[string]int
	hit, err := store.Get(ctx, "r1", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, dest)

	assert.NoError(t, store.Set(ctx, "r1", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, store.Delete(ctx, "r1"))

	counter, err := store.Hit(ctx, "r1", time.Minute)
	require.NoError(t, err)
	assert.Zero(t, counter.Count)
}

func TestNilStoreIsDisabled(t *testing.T) {
	var store *Store
	assert.False(t, store.Enabled())
}

func TestKeyUsesPrefix(t *testing.T) {
	assert.Equal(t, "rl:assistant:u1", NewStore(nil, "rl:assistant").key("u1"))
}

func TestConnectRedisWithoutURL(t *testing.T) {
	RedisClient = nil
	require.NoError(t, ConnectRedis(context.Background(), ""))
	assert.Nil(t, RedisClient)
}

func TestConnectRedisRejectsBadURL(t *testing.T) {
	assert.Error(t, ConnectRedis(context.Background(), "://not a url"))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, "insights")
	require.True(t, store.Enabled())

	require.NoError(t, store.Set(ctx, "r1", map[string]int{"pedidos": 9}, time.Minute))
	assert.True(t, mr.Exists("insights:r1"))

	var dest map[string]int
	hit, err := store.Get(ctx, "r1", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 9, dest["pedidos"])

	require.NoError(t, store.Delete(ctx, "r1"))
	hit, err = store.Get(ctx, "r1", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestHitCountsWithinWindow(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, "rl")

	first, err := store.Hit(ctx, "u1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), first.ResetAt, 2*time.Second)
	assert.Equal(t, time.Minute, mr.TTL("rl:u1"))

	second, err := store.Hit(ctx, "u1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Count)

	mr.FastForward(time.Minute + time.Second)
	next, err := store.Hit(ctx, "u1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next.Count)
}

func TestHitRepairsCounterWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, "rl")
	// a counter whose EXPIRE never landed
	require.NoError(t, mr.Set("rl:u1", "7"))
	require.Zero(t, mr.TTL("rl:u1"))

	counter, err := store.Hit(ctx, "u1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(8), counter.Count)
	assert.Equal(t, time.Minute, mr.TTL("rl:u1"))

	mr.FastForward(time.Minute + time.Second)
	counter, err = store.Hit(ctx, "u1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.Count)
}

func TestHitReturnsRedisErrors(t *testing.T) {
	store, mr := newTestStore(t, "rl")
	mr.Close()

	_, err := store.Hit(context.Background(), "u1", time.Minute)
	assert.Error(t, err)
}
