package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newNotificationsCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "Manage your notification inbox",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			items, err := env.notifs.List(cmd.Context())
			if err != nil {
				return env.userError(err)
			}

			if env.jsonOut {
				return env.printJSON(items)
			}

			if len(items) == 0 {
				fmt.Fprintln(env.out, "No notifications")
				return nil
			}

			w := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREAD\tKIND\tMESSAGE")
			for _, n := range items {
				read := " "
				if n.Read {
					read = "✓"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n.ID, read, n.Kind, n.Message)
			}
			return w.Flush()
		},
	}

	var all bool
	read := &cobra.Command{
		Use:   "read [id]",
		Short: "Mark a notification (or all of them) as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			if all {
				if err := env.notifs.MarkAllRead(cmd.Context()); err != nil {
					return env.userError(err)
				}
				fmt.Fprintln(env.out, "All notifications marked as read")
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("pass a notification id or --all")
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}

			if err := env.notifs.MarkRead(cmd.Context(), id); err != nil {
				return env.userError(err)
			}
			fmt.Fprintf(env.out, "Notification #%d marked as read\n", id)
			return nil
		},
	}
	read.Flags().BoolVar(&all, "all", false, "Mark every notification as read")

	cmd.AddCommand(list, read)
	return cmd
}
