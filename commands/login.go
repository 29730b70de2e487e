package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/interu-app/interu-cli/api"
	"github.com/interu-app/interu-cli/session"
)

func newLoginCommand(flags *rootFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			if password == "" {
				if password, err = promptPassword(cmd, "password"); err != nil {
					return err
				}
			}

			if err := env.auth.Login(cmd.Context(), email, password); err != nil {
				if errors.Is(err, api.ErrUnauthenticated) {
					return fmt.Errorf("invalid email or password")
				}
				return env.userError(err)
			}

			fmt.Fprintf(env.out, "Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}
			if err := env.auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(env.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			account, err := env.auth.Me(cmd.Context())
			if err != nil {
				return env.userError(err)
			}

			if env.jsonOut {
				return env.printJSON(account)
			}

			fmt.Fprintf(env.out, "Email:    %s\n", account.Email)
			fmt.Fprintf(env.out, "Student:  %t\n", account.IsStudent)
			fmt.Fprintf(env.out, "Admin:    %t\n", account.IsAdmin)

			if tok, err := env.store.AccessToken(); err == nil && session.TokenExpired(tok) {
				fmt.Fprintln(env.out, "Note: the stored access token looks expired; it will be refreshed on the next call.")
			}
			return nil
		},
	}
}
