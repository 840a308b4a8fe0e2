package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pulsecheck/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(
		a.userCreateCommand(),
		a.userGetCommand(),
		a.userUpdateCommand(),
		a.userDeleteCommand(),
	)
	return cmd
}

func (a *App) userCreateCommand() *cobra.Command {
	var in models.NewUser

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !in.TOSAgreement {
				return errors.New("you must accept the terms of service with --tos")
			}
			password, err := GetPassword(a.reader, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			in.Password = password

			if err := a.api.CreateUser(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s created\n", in.Phone)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Phone, "phone", "", "10-digit phone number")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.BoolVar(&in.TOSAgreement, "tos", false, "accept the terms of service")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func (a *App) userGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <phone>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.api.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(cmd.OutOrStdout(), u)
		},
	}
}

func (a *App) userUpdateCommand() *cobra.Command {
	var (
		p              models.UserPatch
		changePassword bool
	)

	cmd := &cobra.Command{
		Use:   "update <phone>",
		Short: "Change a user's name or password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Phone = args[0]
			if changePassword {
				password, err := GetPassword(a.reader, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				p.Password = password
			}
			if p.Empty() {
				return errors.New("nothing to update: set --first-name, --last-name or --password")
			}

			if err := a.api.UpdateUser(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s updated\n", p.Phone)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.FirstName, "first-name", "", "new first name")
	f.StringVar(&p.LastName, "last-name", "", "new last name")
	f.BoolVar(&changePassword, "password", false, "prompt for a new password")
	return cmd
}

func (a *App) userDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <phone>",
		Short: "Delete a user and all of their checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s deleted\n", args[0])
			return nil
		},
	}
}
