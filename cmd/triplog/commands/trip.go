package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/triplog/cmd/triplog/opts"
	"github.com/walteh/triplog/pkg/log"
)

// NewStartCmd creates the start command
func NewStartCmd(opts *opts.RootOpts) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a trip",
		Long: `Start asks the backend to begin a trip for the logged in user.
If a trip is already in progress the backend refuses and a warning is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "start").Logger().WithContext(cmd.Context())

			user := username
			if user == "" {
				user = opts.Store.Username()
			}

			if _, err := opts.Store.Start(ctx, user); err != nil {
				return opts.Report(ctx, "start", err)
			}

			opts.Console.Success("trip started")
			opts.Console.LogSession(ctx, opts.Session())
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "start the trip as this user instead of the logged in one")

	return cmd
}

// NewStopCmd creates the stop command
func NewStopCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "End the active trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "stop").Logger().WithContext(cmd.Context())

			elapsed := opts.Store.Current().ElapsedTime
			if err := opts.Store.Stop(ctx); err != nil {
				return opts.Report(ctx, "stop", err)
			}

			opts.Console.Successf("trip ended after %s", log.FormatElapsed(elapsed))
			opts.Console.LogSession(ctx, opts.Session())
			return nil
		},
	}

	return cmd
}
