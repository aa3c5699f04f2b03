package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/walteh/triplog/cmd/triplog/opts"
	"github.com/walteh/triplog/pkg/trip"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates the status command
func NewStatusCmd(opts *opts.RootOpts) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current trip",
		Long: `Status prints the locally known trip session.
With --remote it first asks the backend for the authoritative state,
overwrites the local record with it and shows what changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "status").Logger().WithContext(cmd.Context())

			if remote {
				before := opts.Store.Current()
				changed, err := opts.Poller.PollOnce(ctx)
				if err != nil {
					return opts.Report(ctx, "status refresh", err)
				}
				if changed {
					drift, err := sessionDrift(before, opts.Store.Current())
					if err != nil {
						return err
					}
					opts.Console.Info("local state was updated from the server")
					fmt.Fprintln(cmd.OutOrStdout(), drift)
				}
			}

			opts.Console.LogSession(ctx, opts.Session())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "reconcile with the server before printing")

	return cmd
}

// sessionDrift renders the difference between two sessions as a diff of
// their persisted form
func sessionDrift(before, after trip.Session) (string, error) {
	a, err := json.MarshalIndent(before, "", "  ")
	if err != nil {
		return "", errors.Errorf("encoding local session: %w", err)
	}
	b, err := json.MarshalIndent(after, "", "  ")
	if err != nil {
		return "", errors.Errorf("encoding server session: %w", err)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(a), string(b), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs), nil
}
