package trip

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/triplog/pkg/tripapi"
	"gitlab.com/tozd/go/errors"
)

func TestPollOnce(t *testing.T) {
	t.Run("test_server_stop_wins", func(t *testing.T) {
		h := newHarness(t)
		ticker := NewTicker(h.store)
		t.Cleanup(ticker.Attach(h.ctx))
		h.start(t, "alice", "abc")

		h.client.EXPECT().GetTripState(mock.Anything, "alice").Return(tripapi.TripState{TripStarted: false}, nil)

		updated, err := NewPoller(h.store).PollOnce(h.ctx)
		require.NoError(t, err)
		assert.True(t, updated)
		assert.True(t, h.store.Current().IsZero(), "server reporting no trip should end the local one")
		assert.Equal(t, 0, ticker.Active(), "ticker should stop with the session")

		_, ok := h.persisted(t)
		assert.False(t, ok, "trip key should be removed")
	})

	t.Run("test_server_start_wins", func(t *testing.T) {
		h := newHarness(t)
		ticker := NewTicker(h.store)
		t.Cleanup(ticker.Attach(h.ctx))
		h.store.SetUsername(h.ctx, "alice")

		start := t0.Add(-time.Minute)
		h.client.EXPECT().GetTripState(mock.Anything, "alice").Return(tripapi.TripState{
			TripStarted:   true,
			TripStartTime: &start,
			ElapsedTime:   60_000,
			TripID:        "remote",
		}, nil)

		updated, err := NewPoller(h.store).PollOnce(h.ctx)
		require.NoError(t, err)
		assert.True(t, updated)

		sess := h.store.Current()
		assert.True(t, sess.Started, "trip started elsewhere should be adopted")
		assert.Equal(t, "remote", sess.TripID())
		assert.Equal(t, "alice", sess.Username)
		assert.Equal(t, time.Minute, sess.ElapsedTime, "elapsed time should come from the server")
		assert.Equal(t, 1, ticker.Active(), "ticker should start with the session")

		stored, ok := h.persisted(t)
		require.True(t, ok)
		assert.True(t, sess.Equal(stored))
	})

	t.Run("test_missing_trip_id_keeps_local_id", func(t *testing.T) {
		h := newHarness(t)
		sess := h.start(t, "alice", "abc")

		h.client.EXPECT().GetTripState(mock.Anything, "alice").Return(tripapi.TripState{
			TripStarted:   true,
			TripStartTime: sess.StartTime,
			ElapsedTime:   2000,
		}, nil)

		_, err := NewPoller(h.store).PollOnce(h.ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc", h.store.Current().TripID(), "same trip should keep its id")
		assert.Equal(t, 2*time.Second, h.store.Current().ElapsedTime)
	})

	t.Run("test_missing_start_time_is_derived", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetUsername(h.ctx, "alice")

		h.client.EXPECT().GetTripState(mock.Anything, "alice").Return(tripapi.TripState{
			TripStarted: true,
			ElapsedTime: 30_000,
			TripID:      "x",
		}, nil)

		_, err := NewPoller(h.store).PollOnce(h.ctx)
		require.NoError(t, err)

		sess := h.store.Current()
		require.NotNil(t, sess.StartTime)
		assert.True(t, t0.Add(-30*time.Second).Equal(*sess.StartTime))
	})

	t.Run("test_failure_leaves_state", func(t *testing.T) {
		h := newHarness(t)
		active := h.start(t, "alice", "abc")

		h.client.EXPECT().GetTripState(mock.Anything, "alice").Return(tripapi.TripState{}, errors.Errorf("%w: 404", tripapi.ErrUnexpectedStatus))

		updated, err := NewPoller(h.store).PollOnce(h.ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.False(t, updated)
		assert.True(t, active.Equal(h.store.Current()), "failed poll should not change state")
	})

	t.Run("test_no_username_skips", func(t *testing.T) {
		h := newHarness(t)

		updated, err := NewPoller(h.store).PollOnce(h.ctx)
		require.NoError(t, err, "no username is not an error")
		assert.False(t, updated)
	})

	t.Run("test_stale_response_is_discarded", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetUsername(h.ctx, "alice")

		entered := make(chan struct{})
		release := make(chan struct{})
		h.client.EXPECT().GetTripState(mock.Anything, "alice").RunAndReturn(func(ctx context.Context, _ string) (tripapi.TripState, error) {
			close(entered)
			<-release
			return tripapi.TripState{TripStarted: false}, nil
		})

		type result struct {
			updated bool
			err     error
		}
		done := make(chan result, 1)
		go func() {
			updated, err := NewPoller(h.store).PollOnce(h.ctx)
			done <- result{updated, err}
		}()

		<-entered
		h.start(t, "alice", "abc")
		close(release)

		res := <-done
		require.NoError(t, res.err)
		assert.False(t, res.updated, "response issued before start should be discarded")
		assert.True(t, h.store.Current().Started, "the user's start should survive the stale poll")
	})

	t.Run("test_response_for_previous_user_is_discarded", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetUsername(h.ctx, "alice")
		revision := h.store.Revision()

		start := t0
		h.client.EXPECT().GetTripState(mock.Anything, "alice").RunAndReturn(func(ctx context.Context, _ string) (tripapi.TripState, error) {
			h.store.SetUsername(h.ctx, "bob")
			return tripapi.TripState{TripStarted: true, TripStartTime: &start, TripID: "alice-trip"}, nil
		})

		updated, err := NewPoller(h.store).PollOnce(h.ctx)
		require.NoError(t, err)
		assert.False(t, updated, "a response for the old username should be discarded")
		assert.Greater(t, h.store.Revision(), revision, "changing the username should bump the revision")
		assert.Equal(t, "bob", h.store.Username())
		assert.True(t, h.store.Current().IsZero(), "the new user should not inherit the old user's trip")

		_, ok := h.persisted(t)
		assert.False(t, ok, "nothing should be persisted for the old user")
	})
}

func TestPollerLoop(t *testing.T) {
	t.Run("test_polls_on_interval", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetUsername(h.ctx, "alice")

		start := t0
		h.client.EXPECT().GetTripState(mock.Anything, "alice").Return(tripapi.TripState{
			TripStarted:   true,
			TripStartTime: &start,
			TripID:        "remote",
		}, nil)

		p := NewPoller(h.store, WithInterval(10*time.Second))
		p.Start(h.ctx)
		t.Cleanup(p.Stop)

		h.clock.Advance(5 * time.Second)
		assert.False(t, h.store.Current().Started, "no poll before the interval elapses")

		h.clock.Advance(5 * time.Second)
		require.Eventually(t, func() bool { return h.store.Current().Started }, time.Second, time.Millisecond, "poll should reconcile on the interval")
	})

	t.Run("test_username_change_restarts", func(t *testing.T) {
		h := newHarness(t)

		p := NewPoller(h.store)
		p.Start(h.ctx)
		t.Cleanup(p.Stop)

		start := t0
		h.client.EXPECT().GetTripState(mock.Anything, "bob").Return(tripapi.TripState{
			TripStarted:   true,
			TripStartTime: &start,
			TripID:        "b1",
		}, nil)

		h.clock.Advance(3 * time.Second)
		h.store.SetUsername(h.ctx, "bob")

		h.clock.Advance(2 * time.Second)
		assert.False(t, h.store.Current().Started, "restart should reset the interval")

		h.clock.Advance(3 * time.Second)
		require.Eventually(t, func() bool { return h.store.Current().TripID() == "b1" }, time.Second, time.Millisecond, "poll should use the new username")
		assert.Equal(t, "bob", h.store.Current().Username)
	})

	t.Run("test_default_interval", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, DefaultPollInterval, NewPoller(h.store).Interval())
		assert.Equal(t, DefaultPollInterval, NewPoller(h.store, WithInterval(0)).Interval())
	})
}
