package trip

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/triplog/pkg/kv"
	"gitlab.com/tozd/go/errors"
)

// 💾 Persister writes every change of the store through to storage.
//
// Active sessions are saved whole under kv.KeyTrip and inactive ones remove
// the key. The panel and username are kept under their own keys.
type Persister struct {
	storage kv.Store
}

// NewPersister creates a persister over storage
func NewPersister(storage kv.Store) *Persister {
	return &Persister{storage: storage}
}

// Attach starts persisting store's changes. The returned func detaches.
func (p *Persister) Attach(ctx context.Context, store *Store) (detach func()) {
	return store.Watch(func(c Change) {
		if err := p.Persist(ctx, c); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("reason", string(c.Reason)).Msg("persisting session")
		}
	})
}

// Persist writes the parts of c that changed
func (p *Persister) Persist(ctx context.Context, c Change) error {
	if c.SessionChanged {
		if err := p.persistSession(ctx, c.Session); err != nil {
			return err
		}
	}

	if c.PanelChanged {
		var err error
		if c.Panel == PanelNone {
			err = p.storage.Delete(ctx, kv.KeyActiveComponent)
		} else {
			err = p.storage.Save(ctx, kv.KeyActiveComponent, string(c.Panel))
		}
		if err != nil {
			return errors.Errorf("persisting panel: %w", err)
		}
	}

	if c.UsernameChanged {
		if err := p.storage.Save(ctx, kv.KeyUsername, c.Username); err != nil {
			return errors.Errorf("persisting username: %w", err)
		}
	}
	return nil
}

func (p *Persister) persistSession(ctx context.Context, sess Session) error {
	if !sess.Started {
		if err := p.storage.Delete(ctx, kv.KeyTrip); err != nil {
			return errors.Errorf("clearing trip: %w", err)
		}
		return nil
	}
	if err := p.storage.Save(ctx, kv.KeyTrip, sess); err != nil {
		return errors.Errorf("persisting trip: %w", err)
	}
	return nil
}
