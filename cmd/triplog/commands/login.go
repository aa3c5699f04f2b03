package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/triplog/cmd/triplog/opts"
	"gitlab.com/tozd/go/errors"
)

// NewLoginCmd creates the login command
func NewLoginCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [code state]",
		Short: "Log in with the configured identity provider",
		Long: `Without arguments, login prints the authorization URL to open in a
browser. Run it again with the code and state the provider redirects back
with to finish logging in.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.Errorf("login takes no arguments or both the code and the state, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "login").Logger().WithContext(cmd.Context())

			provider, err := opts.Auth()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				u, err := provider.BeginLogin(ctx)
				if err != nil {
					return errors.Errorf("beginning %s login: %w", provider.Name(), err)
				}
				opts.Console.Info("open this URL and run `triplog login <code> <state>` with the values it redirects back with:")
				cmd.Println(u)
				return nil
			}

			profile, err := provider.CompleteLogin(ctx, args[0], args[1])
			if err != nil {
				return errors.Errorf("completing %s login: %w", provider.Name(), err)
			}

			opts.Store.SetUsername(ctx, profile.Username)
			opts.Console.Successf("logged in as %s", profile.Username)
			return nil
		},
	}

	return cmd
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(opts *opts.RootOpts) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "whoami").Logger().WithContext(cmd.Context())

			if remote {
				provider, err := opts.Auth()
				if err != nil {
					return err
				}
				profile, err := provider.UserInfo(ctx)
				if err != nil {
					return errors.Errorf("fetching %s user info: %w", provider.Name(), err)
				}
				opts.Store.SetUsername(ctx, profile.Username)
			}

			username := opts.Store.Username()
			if username == "" {
				opts.Console.Warning("not logged in")
				return nil
			}
			opts.Console.Info(username)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "ask the identity provider instead of local state")

	return cmd
}
