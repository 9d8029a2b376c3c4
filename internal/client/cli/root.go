package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/user-profile/internal/common/config"
)

// NewRootCommand builds the profilectl command tree. Flag defaults come from
// cfg, which is normally loaded from the environment.
func NewRootCommand(cfg config.ClientConfig, in io.Reader) *cobra.Command {
	app := NewApp(cfg, in)

	root := &cobra.Command{
		Use:           "profilectl",
		Short:         "Command-line client for the user profile service",
		Long:          `profilectl registers accounts, logs in and manages the profile of the logged-in user.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.cfg.ServerURL, "server", cfg.ServerURL, "profile service base URL")
	flags.DurationVar(&app.cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	flags.StringVar(&app.cfg.TokenFile, "token-file", cfg.TokenFile, "where the session token is kept (default ~/.profilectl/token)")

	root.AddCommand(
		newRegisterCommand(app),
		newLoginCommand(app),
		newLogoutCommand(app),
		newStatusCommand(app),
		newProfileCommand(app),
	)

	return root
}
