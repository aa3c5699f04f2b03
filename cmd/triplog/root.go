package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/triplog/cmd/triplog/commands"
	"github.com/walteh/triplog/cmd/triplog/opts"
	"github.com/walteh/triplog/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// skipWiring marks commands that run without config or storage
const skipWiring = "triplog/skip-wiring"

// rootFlags are the flags shared by every command
type rootFlags struct {
	configFile string
	apiURL     string
	debug      bool
	ephemeral  bool
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	cmd.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", "config file path (default: triplog.* or .triplog.* in the working directory)")
	cmd.PersistentFlags().StringVar(&f.apiURL, "api-url", "", "trip backend base url, overrides the config file")
	cmd.PersistentFlags().BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&f.ephemeral, "ephemeral", false, "keep session state in memory only")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) zerolog.Logger {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
	return log
}

// loadConfig reads the named config file, or discovers one, then applies
// flag overrides
func loadConfig(ctx context.Context, f *rootFlags) (*config.Config, error) {
	path := f.configFile
	if path == "" {
		found, err := config.Discover(ctx, ".")
		switch {
		case err == nil:
			path = found
		case errors.Is(err, config.ErrNotFound) && f.apiURL != "":
		default:
			return nil, errors.Errorf("finding config (pass --config or --api-url): %w", err)
		}
	}

	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.Load(ctx, path)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if f.apiURL != "" {
		cfg.API.BaseURL = f.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// newRootCmd creates the root command. ro is filled in before any command
// that needs it runs.
func newRootCmd(ro *opts.RootOpts) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "triplog",
		Short: "Start, stop and follow trips from the terminal",
		Long: `triplog records trips against the trip backend. A trip is started and
ended on the server, and the local session keeps its elapsed time and
survives restarts. The server's view always wins when they disagree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log := setupLogging(flags.debug)
			ctx := log.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			if cmd.Annotations[skipWiring] == "true" {
				return nil
			}

			cfg, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}

			built, err := opts.Build(ctx, cfg, opts.Options{
				Ephemeral: flags.ephemeral,
				Console:   cmd.OutOrStdout(),
			})
			if err != nil {
				return errors.Errorf("initializing: %w", err)
			}
			*ro = *built
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ro.Close()
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewLoginCmd(ro),
		commands.NewWhoamiCmd(ro),
		commands.NewStartCmd(ro),
		commands.NewStopCmd(ro),
		commands.NewStatusCmd(ro),
		commands.NewWatchCmd(ro),
		commands.NewPanelCmd(ro),
		commands.NewLocationsCmd(ro),
		newVersionCmd(),
	)

	return rootCmd
}
