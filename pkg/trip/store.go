// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package trip owns the client-side trip session: the in-memory record, the
// operations that change it, and the timers that keep it current.
//
// Every mutation, whether it comes from a user action, the elapsed-time
// ticker, a poll response or a restore, goes through Store.reconcile. It runs
// under the store lock and delivers the resulting Change to watchers in
// mutation order.
package trip

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/walteh/triplog/pkg/tripapi"
	"gitlab.com/tozd/go/errors"
)

// Reason names the source of a mutation
type Reason string

const (
	ReasonStart    Reason = "start"
	ReasonStop     Reason = "stop"
	ReasonTick     Reason = "tick"
	ReasonPoll     Reason = "poll"
	ReasonRestore  Reason = "restore"
	ReasonPanel    Reason = "panel"
	ReasonUsername Reason = "username"
)

// 📣 Change is delivered to watchers after every mutation
type Change struct {
	Reason   Reason
	Session  Session
	Panel    Panel
	Username string

	SessionChanged  bool
	PanelChanged    bool
	UsernameChanged bool
}

// state is everything guarded by the store lock
type state struct {
	session  Session
	panel    Panel
	username string
	// revision bumps on user start/stop and restore so in-flight polls
	// issued before them can be recognized as stale
	revision uint64
}

// update mutates next in place. Returning false discards the update.
type update func(next *state) bool

type watcher struct {
	id int
	fn func(Change)
}

// 🗃️ Store holds the single trip session record
type Store struct {
	client tripapi.Client
	clock  clockwork.Clock

	mu       sync.Mutex
	st       state
	watchers []watcher
	nextID   int

	// notifyMu is taken before mu is released so deliveries keep mutation order
	notifyMu sync.Mutex

	bootOnce sync.Once
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock sets the clock used for start times and elapsed time
func WithClock(c clockwork.Clock) StoreOption {
	return func(s *Store) {
		s.clock = c
	}
}

// 🏭 NewStore creates a store at the default session
func NewStore(client tripapi.Client, opts ...StoreOption) *Store {
	s := &Store{
		client: client,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the store's clock
func (s *Store) Clock() clockwork.Clock {
	return s.clock
}

// Client returns the Trip API client the store talks to
func (s *Store) Client() tripapi.Client {
	return s.client
}

// Current returns a copy of the session record
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.session
}

// Username returns the last known username, which may outlive the session
func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.username
}

// Panel returns the selected panel
func (s *Store) Panel() Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.panel
}

// Revision returns the current start/stop revision
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.revision
}

// Watch registers fn for every change. The returned func unregisters it.
func (s *Store) Watch(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.watchers = append(s.watchers, watcher{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w.id == id {
				s.watchers = append(s.watchers[:i:i], s.watchers[i+1:]...)
				return
			}
		}
	}
}

// Subscribe registers fn for every change of the session record
func (s *Store) Subscribe(fn func(Session)) (cancel func()) {
	return s.Watch(func(c Change) {
		if c.SessionChanged {
			fn(c.Session)
		}
	})
}

// SetUsername records the identity used for start, stop and polling
func (s *Store) SetUsername(ctx context.Context, username string) {
	s.reconcile(ctx, ReasonUsername, func(next *state) bool {
		if next.username != username {
			next.revision++
		}
		next.username = username
		return true
	})
}

// SelectPanel selects p
func (s *Store) SelectPanel(ctx context.Context, p Panel) {
	s.reconcile(ctx, ReasonPanel, func(next *state) bool {
		next.panel = p
		return true
	})
}

// TogglePanel selects p, or clears the selection if p is already selected
func (s *Store) TogglePanel(ctx context.Context, p Panel) Panel {
	var out Panel
	s.reconcile(ctx, ReasonPanel, func(next *state) bool {
		if next.panel == p {
			next.panel = PanelNone
		} else {
			next.panel = p
		}
		out = next.panel
		return true
	})
	return out
}

// ▶️ Start begins a trip for username. On success the session is active with
// the server's trip id and the local current time as its start.
func (s *Store) Start(ctx context.Context, username string) (Session, error) {
	if username == "" {
		return Session{}, errors.Errorf("%w: username is required to start a trip", ErrInvalidState)
	}

	resp, err := s.client.StartTrip(ctx, username)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("username", username).Msg("starting trip")
		return Session{}, classify(err, ErrAlreadyActive)
	}

	id := resp.TripID
	if id == "" {
		id = newTripID()
		zerolog.Ctx(ctx).Debug().Str("trip_id", id).Msg("server returned no trip id, minted one")
	}
	now := s.clock.Now()

	var out Session
	s.reconcile(ctx, ReasonStart, func(next *state) bool {
		next.session = Session{
			Started:   true,
			StartTime: ptr(now),
			ID:        ptr(id),
			Username:  username,
		}
		next.username = username
		next.panel = PanelAddTravelLog
		next.revision++
		out = next.session
		return true
	})
	return out, nil
}

// ⏹️ Stop ends the active trip and resets the session to its default
func (s *Store) Stop(ctx context.Context) error {
	username := s.Username()
	if username == "" {
		return errors.Errorf("%w: no known username to stop a trip for", ErrInvalidState)
	}

	if err := s.client.EndTrip(ctx, username); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("username", username).Msg("ending trip")
		return classify(err, ErrNotActive)
	}

	s.reconcile(ctx, ReasonStop, func(next *state) bool {
		next.session = Default()
		next.panel = PanelNone
		next.revision++
		return true
	})
	return nil
}

// tick recomputes elapsed time for the session that started at the given
// instant. A tick for any other session is dropped.
func (s *Store) tick(ctx context.Context, startTime time.Time) bool {
	return s.reconcile(ctx, ReasonTick, func(next *state) bool {
		cur := next.session
		if !cur.Started || cur.StartTime == nil || !cur.StartTime.Equal(startTime) {
			return false
		}
		next.session.ElapsedTime = cur.Since(s.clock.Now())
		return true
	})
}

// applyPoll overwrites the session from a server response, unless a start,
// stop or username change completed after the request was issued
func (s *Store) applyPoll(ctx context.Context, issuedAt uint64, username string, resp tripapi.TripState) bool {
	return s.reconcile(ctx, ReasonPoll, func(next *state) bool {
		if next.username != username {
			zerolog.Ctx(ctx).Debug().
				Str("polled_for", username).
				Str("username", next.username).
				Msg("discarding poll response for another user")
			return false
		}
		if next.revision != issuedAt {
			zerolog.Ctx(ctx).Debug().
				Uint64("issued_at", issuedAt).
				Uint64("revision", next.revision).
				Msg("discarding stale poll response")
			return false
		}
		next.session = fromServer(resp, username, next.session, s.clock.Now())
		if !next.session.Started {
			next.panel = PanelNone
		}
		return true
	})
}

// restore publishes a persisted session and panel
func (s *Store) restore(ctx context.Context, sess Session, panel Panel) {
	s.reconcile(ctx, ReasonRestore, func(next *state) bool {
		next.session = sess
		next.panel = panel
		if sess.Username != "" && next.username == "" {
			next.username = sess.Username
		}
		next.revision++
		return true
	})
}

// reconcile is the single entry point for mutations. It applies u under the
// lock and, if anything changed, delivers the change to watchers.
func (s *Store) reconcile(ctx context.Context, reason Reason, u update) bool {
	s.mu.Lock()

	next := s.st
	if !u(&next) {
		s.mu.Unlock()
		return false
	}

	change := Change{
		Reason:          reason,
		Session:         next.session,
		Panel:           next.panel,
		Username:        next.username,
		SessionChanged:  !next.session.Equal(s.st.session),
		PanelChanged:    next.panel != s.st.panel,
		UsernameChanged: next.username != s.st.username,
	}
	s.st = next

	if !change.SessionChanged && !change.PanelChanged && !change.UsernameChanged {
		s.mu.Unlock()
		return true
	}

	watchers := make([]watcher, len(s.watchers))
	copy(watchers, s.watchers)

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	zerolog.Ctx(ctx).Trace().
		Str("reason", string(reason)).
		Bool("started", change.Session.Started).
		Dur("elapsed", change.Session.ElapsedTime).
		Msg("session changed")

	for _, w := range watchers {
		w.fn(change)
	}
	return true
}

// fromServer builds the local record from a get_trip_state response
func fromServer(resp tripapi.TripState, username string, prev Session, now time.Time) Session {
	if !resp.TripStarted {
		return Default()
	}

	elapsed := resp.Elapsed()
	start, ok := resp.StartTime()
	if !ok {
		start = now.Add(-elapsed)
	}

	id := resp.TripID
	if id == "" {
		// keep the local id while it is the same trip
		if prev.Started && prev.StartTime != nil && prev.StartTime.Equal(start) && prev.ID != nil {
			id = *prev.ID
		} else {
			id = newTripID()
		}
	}

	return Session{
		Started:     true,
		StartTime:   ptr(start),
		ElapsedTime: elapsed,
		ID:          ptr(id),
		Username:    username,
	}.Normalize()
}
