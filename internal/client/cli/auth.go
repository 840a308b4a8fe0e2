package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) loginCommand() *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Issue a token for a user",
		Long: `Issue a token and print its id. Export it for later commands:

  export PULSECHECK_TOKEN=$(pulsecheck login --phone 5551234567 -q)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")

			if phone == "" {
				v, err := GetSimpleText(a.reader, "Enter phone", cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				phone = v
			}
			password, err := GetPassword(a.reader, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			token, err := a.api.Login(cmd.Context(), phone, password)
			if err != nil {
				return err
			}
			if quiet {
				fmt.Fprintln(cmd.OutOrStdout(), token.ID)
				return nil
			}
			return a.printJSON(cmd.OutOrStdout(), token)
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "10-digit phone number")
	cmd.Flags().BoolP("quiet", "q", false, "print only the token id")
	return cmd
}

func (a *App) tokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect, extend or revoke tokens",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get [id]",
			Short: "Show a token",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := a.tokenOrArg(args)
				if err != nil {
					return err
				}
				token, err := a.api.GetToken(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printJSON(cmd.OutOrStdout(), token)
			},
		},
		&cobra.Command{
			Use:   "renew [id]",
			Short: "Extend a live token by another validity period",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := a.tokenOrArg(args)
				if err != nil {
					return err
				}
				if err := a.api.RenewToken(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "token renewed")
				return nil
			},
		},
		&cobra.Command{
			Use:   "revoke [id]",
			Short: "Delete a token",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := a.tokenOrArg(args)
				if err != nil {
					return err
				}
				if err := a.api.RevokeToken(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "token revoked")
				return nil
			},
		},
	)
	return cmd
}
