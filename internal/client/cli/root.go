package cli

import (
	"fmt"

	"github.com/dmitrijs2005/pulsecheck/internal/buildinfo"
	"github.com/spf13/cobra"
)

func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pulsecheck",
		Short:         "Command line client for the pulsecheck uptime API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a JSON config file")
	pf.StringVar(&a.server, "server", "", "base URL of the API (env PULSECHECK_SERVER)")
	pf.StringVar(&a.token, "token", "", "token id sent with requests (env PULSECHECK_TOKEN)")
	pf.DurationVar(&a.timeout, "timeout", 0, "per-request timeout")

	root.AddCommand(
		a.pingCommand(),
		a.loginCommand(),
		a.userCommand(),
		a.tokenCommand(),
		a.checkCommand(),
		versionCommand(),
	)
	return root
}

func (a *App) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pong")
			return nil
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// skip config loading from the root
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

// tokenOrArg returns args[0] when present, otherwise the configured token.
func (a *App) tokenOrArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.config.Token == "" {
		return "", fmt.Errorf("token id required: pass it as an argument or use --token")
	}
	return a.config.Token, nil
}
