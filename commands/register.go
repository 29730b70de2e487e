package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCommand(flags *rootFlags) *cobra.Command {
	var (
		email          string
		password       string
		acceptPolicies bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long: `Create a new InterU account. The platform emails an activation link;
run 'interu activate' with its uid and token to finish.`,
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

			if err := env.auth.Register(cmd.Context(), email, password, acceptPolicies); err != nil {
				return env.userError(err)
			}

			fmt.Fprintf(env.out, "Account created for %s. Check your email for the activation link.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	cmd.Flags().BoolVar(&acceptPolicies, "accept-policies", false, "Accept the platform policies")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newActivateCommand(flags *rootFlags) *cobra.Command {
	var uid, token string

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Activate an account with the emailed uid and token",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			if err := env.auth.Activate(cmd.Context(), uid, token); err != nil {
				return env.userError(err)
			}

			fmt.Fprintln(env.out, "Account activated. You can now log in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "Activation uid from the email link")
	cmd.Flags().StringVar(&token, "token", "", "Activation token from the email link")
	_ = cmd.MarkFlagRequired("uid")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newResetPasswordCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Request or confirm a password reset",
	}

	var email string
	request := &cobra.Command{
		Use:   "request",
		Short: "Email a password reset link",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			if err := env.auth.RequestPasswordReset(cmd.Context(), email); err != nil {
				return env.userError(err)
			}

			fmt.Fprintf(env.out, "If an account exists for %s, a reset link is on its way.\n", email)
			return nil
		},
	}
	request.Flags().StringVarP(&email, "email", "e", "", "Account email")
	_ = request.MarkFlagRequired("email")

	var (
		uid, token  string
		newPassword string
	)
	confirm := &cobra.Command{
		Use:   "confirm",
		Short: "Set a new password with the emailed uid and token",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			if newPassword == "" {
				if newPassword, err = promptPassword(cmd, "new password"); err != nil {
					return err
				}
			}

			err = env.auth.ConfirmPasswordReset(cmd.Context(), uid, token, newPassword, newPassword)
			if err != nil {
				return env.userError(err)
			}

			fmt.Fprintln(env.out, "Password updated. You can now log in.")
			return nil
		},
	}
	confirm.Flags().StringVar(&uid, "uid", "", "Reset uid from the email link")
	confirm.Flags().StringVar(&token, "token", "", "Reset token from the email link")
	confirm.Flags().StringVar(&newPassword, "new-password", "", "New password (prompted when omitted)")
	_ = confirm.MarkFlagRequired("uid")
	_ = confirm.MarkFlagRequired("token")

	cmd.AddCommand(request, confirm)
	return cmd
}
