package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pulsecheck/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Manage uptime checks",
	}
	cmd.AddCommand(
		a.checkCreateCommand(),
		a.checkGetCommand(),
		a.checkUpdateCommand(),
		a.checkDeleteCommand(),
	)
	return cmd
}

func (a *App) checkCreateCommand() *cobra.Command {
	var in models.NewCheck

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a check owned by the current token's user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			check, err := a.api.CreateCheck(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printJSON(cmd.OutOrStdout(), check)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Protocol, "protocol", "https", "http or https")
	f.StringVar(&in.URL, "url", "", "host and path to probe")
	f.StringVar(&in.Method, "method", "get", "get, post, put or delete")
	f.IntSliceVar(&in.SuccessCodes, "codes", []int{200}, "status codes counted as up")
	f.IntVar(&in.TimeoutSeconds, "timeout-seconds", 5, "probe timeout, 1 to 5 seconds")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func (a *App) checkGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			check, err := a.api.GetCheck(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(cmd.OutOrStdout(), check)
		},
	}
}

func (a *App) checkUpdateCommand() *cobra.Command {
	var (
		p       models.CheckPatch
		timeout int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.ID = args[0]
			if cmd.Flags().Changed("timeout-seconds") {
				p.TimeoutSeconds = &timeout
			}
			if p.Empty() {
				return errors.New("nothing to update")
			}

			check, err := a.api.UpdateCheck(cmd.Context(), p)
			if err != nil {
				return err
			}
			return a.printJSON(cmd.OutOrStdout(), check)
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Protocol, "protocol", "", "http or https")
	f.StringVar(&p.URL, "url", "", "host and path to probe")
	f.StringVar(&p.Method, "method", "", "get, post, put or delete")
	f.IntSliceVar(&p.SuccessCodes, "codes", nil, "status codes counted as up")
	f.IntVar(&timeout, "timeout-seconds", 0, "probe timeout, 1 to 5 seconds")
	return cmd
}

func (a *App) checkDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeleteCheck(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "check %s deleted\n", args[0])
			return nil
		},
	}
}
