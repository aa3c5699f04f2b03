package trip

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/triplog/pkg/kv"
	"gitlab.com/tozd/go/errors"
)

// 🚀 Bootstrap restores the persisted session into store. It runs once per
// store; later calls return nil without reading storage.
//
// An absent or inactive record leaves the store at its default. An active one
// gets its elapsed time recomputed from the clock, is published, and the last
// panel is restored (DefaultPanel if none was stored). A ticker attached to
// the store starts on that publish. The persisted username seeds the store.
func Bootstrap(ctx context.Context, store *Store, storage kv.Store) error {
	var err error
	store.bootOnce.Do(func() {
		err = bootstrap(ctx, store, storage)
	})
	return err
}

func bootstrap(ctx context.Context, store *Store, storage kv.Store) error {
	logger := zerolog.Ctx(ctx)

	var username string
	ok, err := storage.Load(ctx, kv.KeyUsername, &username)
	if err != nil {
		return errors.Errorf("loading username: %w", err)
	}
	if ok && username != "" {
		store.SetUsername(ctx, username)
	}

	var sess Session
	ok, err = storage.Load(ctx, kv.KeyTrip, &sess)
	if err != nil {
		return errors.Errorf("loading trip: %w", err)
	}
	if !ok || !sess.Started {
		logger.Debug().Bool("found", ok).Msg("no active trip to restore")
		return nil
	}

	sess = sess.Normalize()
	if !sess.Started {
		logger.Debug().Msg("persisted trip has no start time, ignoring it")
		return nil
	}
	sess.ElapsedTime = sess.Since(store.Clock().Now())

	panel := DefaultPanel
	var stored string
	ok, err = storage.Load(ctx, kv.KeyActiveComponent, &stored)
	if err != nil {
		return errors.Errorf("loading active component: %w", err)
	}
	if ok {
		if p, perr := ParsePanel(stored); perr == nil && p != PanelNone {
			panel = p
		}
	}

	store.restore(ctx, sess, panel)

	logger.Info().
		Str("trip_id", sess.TripID()).
		Dur("elapsed", sess.ElapsedTime).
		Str("panel", panel.String()).
		Msg("restored active trip")
	return nil
}
