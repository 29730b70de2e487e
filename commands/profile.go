package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/interu-app/interu-cli/profile"
)

func newProfileCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
	}

	cmd.AddCommand(
		newProfileShowCommand(flags),
		newProfileEditCommand(flags),
		newDeleteAccountCommand(flags),
	)
	return cmd
}

func newProfileShowCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile and account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			view, err := env.profile.Fetch(cmd.Context())
			if err != nil {
				return env.userError(err)
			}

			if env.jsonOut {
				return env.printJSON(view)
			}

			p := view.Profile
			fmt.Fprintf(env.out, "Alias:      %s\n", p.Alias)
			fmt.Fprintf(env.out, "Name:       %s %s\n", p.FirstName, p.LastName)
			fmt.Fprintf(env.out, "Email:      %s\n", view.Account.Email)
			fmt.Fprintf(env.out, "Program:    %s\n", p.Program)
			fmt.Fprintf(env.out, "Area:       %s\n", p.SpecializationArea)
			fmt.Fprintf(env.out, "Skills:     %s\n", strings.Join(p.OfferedSkills, ", "))
			if p.Biography != "" {
				fmt.Fprintf(env.out, "Biography:  %s\n", p.Biography)
			}
			return nil
		},
	}
}

func newProfileEditCommand(flags *rootFlags) *cobra.Command {
	var (
		alias, firstName, lastName string
		program, area, biography   string
		photoURL, skills           string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update profile fields",
		Long: `Update profile fields. Only the flags you pass are sent; everything
else is left untouched. Skills are a comma-delimited list replacing the
stored one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			update := profile.Update{}
			set := func(name string, target **string, value string) {
				if cmd.Flags().Changed(name) {
					*target = &value
				}
			}
			set("alias", &update.Alias, alias)
			set("first-name", &update.FirstName, firstName)
			set("last-name", &update.LastName, lastName)
			set("program", &update.Program, program)
			set("area", &update.SpecializationArea, area)
			set("biography", &update.Biography, biography)
			set("photo-url", &update.PhotoURL, photoURL)
			if cmd.Flags().Changed("skills") {
				update.OfferedSkills = profile.SplitSkills(skills)
			}

			updated, err := env.profile.Apply(cmd.Context(), update)
			if err != nil {
				return env.userError(err)
			}

			if env.jsonOut {
				return env.printJSON(updated)
			}
			fmt.Fprintln(env.out, "Profile updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Public alias")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&program, "program", "", "Degree program")
	cmd.Flags().StringVar(&area, "area", "", "Specialization area")
	cmd.Flags().StringVar(&biography, "biography", "", "Biography text")
	cmd.Flags().StringVar(&photoURL, "photo-url", "", "Profile photo URL")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma-delimited offered skills")

	return cmd
}

func newDeleteAccountCommand(flags *rootFlags) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete the account",
		Long: `Permanently delete the account and its profile. The current password is
required to confirm. This cannot be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			if password == "" {
				if password, err = promptPassword(cmd, "current password"); err != nil {
					return err
				}
			}

			if err := env.profile.DeleteAccount(cmd.Context(), password); err != nil {
				return env.userError(err)
			}

			// The account is gone; the local session must go with it.
			if err := env.store.Clear(); err != nil {
				return err
			}

			fmt.Fprintln(env.out, "Account deleted")
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Current password (prompted when omitted)")
	return cmd
}
