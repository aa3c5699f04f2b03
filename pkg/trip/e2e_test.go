package trip_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/triplog/pkg/kv"
	"github.com/walteh/triplog/pkg/testutils"
	"github.com/walteh/triplog/pkg/trip"
	"github.com/walteh/triplog/pkg/tripapi"
	"github.com/walteh/triplog/pkg/tripapi/tripapitest"
)

func TestTripLifecycle(t *testing.T) {
	ctx := zerolog.Nop().WithContext(context.Background())

	srv := tripapitest.NewServer()
	defer srv.Close()

	client, err := tripapi.NewHTTPClient(srv.URL)
	require.NoError(t, err)

	clock := testutils.FakeClock()
	storage := kv.NewMemoryStore()
	store := trip.NewStore(client, trip.WithClock(clock))

	defer trip.NewPersister(storage).Attach(ctx, store)()
	ticker := trip.NewTicker(store)
	defer ticker.Attach(ctx)()

	require.NoError(t, trip.Bootstrap(ctx, store, storage))
	assert.False(t, store.Current().Started, "empty storage should start with no trip")

	sess, err := store.Start(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, sess.Started)
	assert.Equal(t, "t1", sess.TripID())
	assert.Equal(t, 1, ticker.Active(), "ticker should begin on start")

	var stored trip.Session
	ok, err := storage.Load(ctx, kv.KeyTrip, &stored)
	require.NoError(t, err)
	require.True(t, ok, "trip should be persisted")
	assert.True(t, stored.Started)
	assert.Equal(t, "t1", stored.TripID())
	assert.Equal(t, "bob", stored.Username)

	for i := 1; i <= 3; i++ {
		clock.Advance(time.Second)
		want := time.Duration(i) * time.Second
		require.Eventually(t, func() bool {
			return store.Current().ElapsedTime == want
		}, time.Second, time.Millisecond, "elapsed time should be %s", want)
	}
	assert.Equal(t, 3*time.Second, store.Current().ElapsedTime)

	require.NoError(t, store.Stop(ctx))
	assert.True(t, store.Current().IsZero(), "stop should reset the session")
	assert.Equal(t, 0, ticker.Active())

	ok, err = storage.Load(ctx, kv.KeyTrip, &stored)
	require.NoError(t, err)
	assert.False(t, ok, "persisted trip should be removed")

	server, _ := srv.Trip("bob")
	assert.False(t, server.Started, "server should agree the trip ended")
}
