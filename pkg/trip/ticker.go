package trip

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// TickPeriod is how often elapsed time is recomputed
const TickPeriod = time.Second

// ⏱️ Ticker keeps Session.ElapsedTime current while a trip is active.
//
// Each tick sets elapsed time to now minus the start time. At most one loop
// is live: starting a new loop cancels the previous one first.
type Ticker struct {
	store *Store
	clock clockwork.Clock

	mu        sync.Mutex
	cancel    context.CancelFunc
	ticker    clockwork.Ticker
	startTime time.Time
	active    int

	// loops counts goroutines that have not returned yet
	loops atomic.Int32
}

// 🏭 NewTicker creates a ticker for store's session
func NewTicker(store *Store) *Ticker {
	return &Ticker{
		store: store,
		clock: store.Clock(),
	}
}

// Attach starts and stops the ticker as the session starts and stops. The
// returned func detaches and stops the ticker.
func (t *Ticker) Attach(ctx context.Context) (detach func()) {
	follow := func(sess Session) {
		if !sess.Started || sess.StartTime == nil {
			t.Stop()
			return
		}
		if running, at := t.running(); !running || !at.Equal(*sess.StartTime) {
			t.Start(ctx, *sess.StartTime)
		}
	}

	cancel := t.store.Subscribe(follow)
	follow(t.store.Current())

	return func() {
		cancel()
		t.Stop()
	}
}

// Run attaches the ticker and blocks until ctx is done
func (t *Ticker) Run(ctx context.Context) error {
	detach := t.Attach(ctx)
	defer detach()
	<-ctx.Done()
	return nil
}

// Start begins ticking for the session that started at startTime, cancelling
// any previous loop
func (t *Ticker) Start(ctx context.Context, startTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	clockTicker := t.clock.NewTicker(TickPeriod)
	t.cancel = cancel
	t.ticker = clockTicker
	t.startTime = startTime
	t.active++
	t.loops.Add(1)

	zerolog.Ctx(ctx).Debug().Time("start_time", startTime).Msg("elapsed-time ticker started")

	go func() {
		defer t.loops.Add(-1)
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-clockTicker.Chan():
				if loopCtx.Err() != nil {
					return
				}
				t.store.tick(loopCtx, startTime)
			}
		}
	}()
}

// Stop cancels the live loop, if any. A tick already being applied completes.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.ticker.Stop()
	t.cancel()
	t.cancel = nil
	t.ticker = nil
	t.startTime = time.Time{}
	t.active--
}

// Active returns how many loops are started and not cancelled
func (t *Ticker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Ticker) running() (bool, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil, t.startTime
}
