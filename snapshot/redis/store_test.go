package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/snapshot"
	"github.com/hupe1980/teamwork/snapshot/redis"
	"github.com/hupe1980/teamwork/snapshot/snapshottest"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ snapshot.Store = (*redis.Store)(nil)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})

	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	snapshottest.RunStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", core.NewRootState("supervisor", "x")))

	assert.True(t, mr.Exists("custom:run:run-1"))
	assert.True(t, mr.Exists("custom:runs"))
	assert.False(t, mr.Exists(redis.DefaultPrefix+"run:run-1"))
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", core.NewRootState("supervisor", "x")))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultPrefix+"run:run-1"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "run-1")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestRedisStore_RunIDsNeverHitIndex(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	for _, id := range []string{"index", "runs", "run:x"} {
		require.NoError(t, store.Save(ctx, id, core.NewRootState("supervisor", "objective "+id)), id)
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index", "runs", "run:x"}, ids)

	for _, id := range []string{"index", "runs", "run:x"} {
		state, err := store.Load(ctx, id)
		require.NoError(t, err, id)
		assert.Equal(t, "objective "+id, state.Request(), id)
	}

	assert.Equal(t, "zset", mr.Type(redis.DefaultPrefix+"runs"))
	assert.Equal(t, "string", mr.Type(redis.DefaultPrefix+"run:runs"))
	assert.Equal(t, "string", mr.Type(redis.DefaultPrefix+"run:index"))

	require.NoError(t, store.Delete(ctx, "runs"))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index", "run:x"}, ids)
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
