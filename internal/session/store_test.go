package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freecyberhawk/hakobot/internal/wizard"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "test:session:")

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return store, mr, cleanup
}

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	fresh, err := store.Load(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), fresh.ChatID)
	assert.Equal(t, WizardNone, fresh.Active)

	sub := fresh.StartSubscription(wizard.DefaultLimits)
	require.NoError(t, sub.ChooseDuration("6"))
	fresh.TrackMessage(7)
	require.NoError(t, store.Save(ctx, fresh))

	// mutations after save stay local until saved again
	fresh.Subscription.Months = 1

	loaded, err := store.Load(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, loaded.ActiveSubscription())
	assert.Equal(t, wizard.StateDurationChosen, loaded.Subscription.State)
	assert.Equal(t, 6, loaded.Subscription.Months)
	assert.Equal(t, []int{7}, loaded.BotMessageIDs)

	other, err := store.Load(ctx, 43)
	require.NoError(t, err)
	assert.Nil(t, other.Subscription)

	require.NoError(t, store.Reset(ctx, 42))
	reset, err := store.Load(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, WizardNone, reset.Active)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	store, _, cleanup := setupRedisStore(t)
	defer cleanup()

	exerciseStore(t, store)
}

func TestRedisStore_NoExpiry(t *testing.T) {
	store, mr, cleanup := setupRedisStore(t)
	defer cleanup()

	ctx := context.Background()
	state := NewState(5)
	state.StartTopUp()
	require.NoError(t, store.Save(ctx, state))

	assert.True(t, mr.Exists("test:session:5"))
	assert.Zero(t, mr.TTL("test:session:5"))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr, cleanup := setupRedisStore(t)
	defer cleanup()

	require.NoError(t, mr.Set("test:session:9", "{not json"))

	_, err := store.Load(context.Background(), 9)
	assert.Error(t, err)
}
