package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/triplog/cmd/triplog/opts"
	"github.com/walteh/triplog/pkg/trip"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// NewWatchCmd creates the watch command
func NewWatchCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the trip live until interrupted",
		Long: `Watch keeps the session in sync with the server and prints it
whenever it changes. Elapsed time advances every second while a trip
is in progress.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = zerolog.Ctx(ctx).With().Str("command", "watch").Logger().WithContext(ctx)

			return Watch(ctx, opts)
		},
	}

	return cmd
}

// Watch runs the poller and the elapsed-time ticker until ctx is done,
// printing the session on every visible change
func Watch(ctx context.Context, o *opts.RootOpts) error {
	o.Console.Header("watching trip")
	o.Console.LogSession(ctx, o.Session())

	cancel := o.Store.Watch(func(c trip.Change) {
		o.Console.LogSessionChange(ctx, opts.SessionLine(c.Session, c.Username, c.Panel))
	})
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return o.Ticker.Run(gctx)
	})
	g.Go(func() error {
		return o.Poller.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Errorf("watching trip: %w", err)
	}

	o.Console.LogNewline()
	return nil
}
