package trip

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultPollInterval is used when no interval is configured
const DefaultPollInterval = 5 * time.Second

// 🔄 Poller periodically reconciles the session with the server's view.
//
// It runs regardless of session state and is keyed by the store's username:
// a username change restarts the interval. Failures are logged and left for
// the next tick.
type Poller struct {
	store    *Store
	clock    clockwork.Clock
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	ticker clockwork.Ticker
	// keyedOn is the username the live loop was started for
	keyedOn string
	watch   func()
}

// PollerOption configures a Poller
type PollerOption func(*Poller)

// WithInterval sets the poll interval
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// 🏭 NewPoller creates a poller for store
func NewPoller(store *Store, opts ...PollerOption) *Poller {
	p := &Poller{
		store:    store,
		clock:    store.Clock(),
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the configured poll interval
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start begins polling and follows username changes until Stop is called
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watch == nil {
		p.watch = p.store.Watch(func(c Change) {
			if c.UsernameChanged {
				p.restart(ctx, c.Username)
			}
		})
	}
	p.startLocked(ctx, p.store.Username())
}

// Run starts the poller and blocks until ctx is done
func (p *Poller) Run(ctx context.Context) error {
	p.Start(ctx)
	defer p.Stop()
	<-ctx.Done()
	return nil
}

// Stop cancels the recurrence. A request already in flight completes and is
// still subject to the stale check.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watch != nil {
		p.watch()
		p.watch = nil
	}
	p.stopLocked()
}

func (p *Poller) restart(ctx context.Context, username string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watch == nil || (p.cancel != nil && p.keyedOn == username) {
		return
	}
	zerolog.Ctx(ctx).Debug().Str("username", username).Msg("username changed, restarting poller")
	p.startLocked(ctx, username)
}

func (p *Poller) startLocked(ctx context.Context, username string) {
	p.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	clockTicker := p.clock.NewTicker(p.interval)
	p.cancel = cancel
	p.ticker = clockTicker
	p.keyedOn = username

	go func() {
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-clockTicker.Chan():
				if loopCtx.Err() != nil {
					return
				}
				if _, err := p.PollOnce(loopCtx); err != nil {
					zerolog.Ctx(loopCtx).Warn().Err(err).Msg("polling trip state")
				}
			}
		}
	}()
}

func (p *Poller) stopLocked() {
	if p.cancel != nil {
		p.ticker.Stop()
		p.cancel()
		p.cancel = nil
		p.ticker = nil
	}
}

// PollOnce issues one get_trip_state request for the store's username and
// reconciles the response. It reports whether the session was updated. With
// no known username nothing is requested.
func (p *Poller) PollOnce(ctx context.Context) (bool, error) {
	username := p.store.Username()
	if username == "" {
		zerolog.Ctx(ctx).Trace().Msg("no username yet, skipping poll")
		return false, nil
	}

	issuedAt := p.store.Revision()
	resp, err := p.store.Client().GetTripState(ctx, username)
	if err != nil {
		return false, errors.Errorf("%w: %s", ErrRequestFailed, err.Error())
	}

	return p.store.applyPoll(ctx, issuedAt, username, resp), nil
}
