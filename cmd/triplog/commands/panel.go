package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/triplog/cmd/triplog/opts"
	"github.com/walteh/triplog/pkg/trip"
	"gitlab.com/tozd/go/errors"
)

// NewPanelCmd creates the panel command
func NewPanelCmd(opts *opts.RootOpts) *cobra.Command {
	names := make([]string, 0, len(trip.Panels()))
	for _, p := range trip.Panels() {
		names = append(names, string(p))
	}

	var clearPanel bool

	cmd := &cobra.Command{
		Use:       "panel [name]",
		Short:     "Show or toggle the active panel",
		Long:      "Without a name, panel prints the active panel. With a name it\nselects that panel, or clears it if it is already active. --clear\nclears the selection.\n\nPanels: " + strings.Join(names, ", "),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if clearPanel {
				if len(args) > 0 {
					return errors.Errorf("--clear takes no panel name, got %q", args[0])
				}
				opts.Store.SelectPanel(ctx, trip.PanelNone)
				opts.Console.Infof("active panel: %s", opts.Store.Panel())
				return nil
			}

			if len(args) == 0 {
				opts.Console.Infof("active panel: %s", opts.Store.Panel())
				return nil
			}

			p, err := trip.ParsePanel(args[0])
			if err != nil {
				return errors.Errorf("parsing panel: %w", err)
			}

			active := opts.Store.TogglePanel(ctx, p)
			opts.Console.Infof("active panel: %s", active)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearPanel, "clear", false, "clear the active panel")

	return cmd
}
