package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/interu-app/interu-cli/profile"
	"github.com/interu-app/interu-cli/publications"
)

func newPubsCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubs",
		Short: "Browse and manage publications",
	}

	cmd.AddCommand(
		newPubsListCommand(flags),
		newPubsMineCommand(flags),
		newPubsGetCommand(flags),
		newPubsCreateCommand(flags),
		newPubsEditCommand(flags),
		newPubsDeleteCommand(flags),
	)
	return cmd
}

func newPubsListCommand(flags *rootFlags) *cobra.Command {
	var (
		text, pubType, modality string
		availability, area      string
		skills, sortOrder       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List publications, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			criteria := publications.Criteria{
				Text:         text,
				Type:         publications.Type(pubType),
				Modality:     publications.Modality(modality),
				Availability: publications.Availability(availability),
				Area:         area,
				Sort:         publications.SortOrder(sortOrder),
			}
			if skills != "" {
				criteria.Skills = profile.SplitSkills(skills)
			}

			pubs, err := env.pubs.List(cmd.Context(), criteria)
			if err != nil {
				return env.userError(err)
			}

			return printPublications(env, pubs)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Free-text search")
	cmd.Flags().StringVar(&pubType, "type", "", "Type filter (oferta, demanda)")
	cmd.Flags().StringVar(&modality, "modality", "", "Modality filter (remoto, presencial, híbrido)")
	cmd.Flags().StringVar(&availability, "availability", "", "Availability filter (proyecto, part-time, full-time)")
	cmd.Flags().StringVar(&area, "area", "", "Area filter")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma-delimited skills filter")
	cmd.Flags().StringVar(&sortOrder, "sort", "", "Sort order (recientes, relevancia)")

	return cmd
}

func newPubsMineCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own publications",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			pubs, err := env.pubs.ListMine(cmd.Context())
			if err != nil {
				return env.userError(err)
			}
			return printPublications(env, pubs)
		},
	}
}

func newPubsGetCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one publication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid publication id %q", args[0])
			}

			pub, err := env.pubs.Get(cmd.Context(), id)
			if err != nil {
				return env.userError(err)
			}

			if env.jsonOut {
				return env.printJSON(pub)
			}

			fmt.Fprintf(env.out, "#%d [%s] %s\n", pub.ID, pub.Type, pub.Title)
			fmt.Fprintf(env.out, "Author:        %s\n", pub.AuthorAlias)
			fmt.Fprintf(env.out, "Area:          %s\n", pub.Area)
			fmt.Fprintf(env.out, "Modality:      %s\n", pub.Modality)
			fmt.Fprintf(env.out, "Availability:  %s\n", pub.Availability)
			fmt.Fprintf(env.out, "Skills:        %s\n", strings.Join(pub.Skills, ", "))
			fmt.Fprintf(env.out, "State:         %s\n", pub.State)
			if pub.Location != "" {
				fmt.Fprintf(env.out, "Location:      %s\n", pub.Location)
			}
			if pub.Contact != "" {
				fmt.Fprintf(env.out, "Contact:       %s\n", pub.Contact)
			}
			fmt.Fprintf(env.out, "\n%s\n", pub.Description)
			return nil
		},
	}
}

func newPubsCreateCommand(flags *rootFlags) *cobra.Command {
	var (
		pubType, title, description string
		modality, availability      string
		area, location, contact     string
		skills                      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new offer or demand",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			draft := publications.Draft{
				Type:         publications.Type(pubType),
				Title:        title,
				Description:  description,
				Modality:     publications.Modality(modality),
				Availability: publications.Availability(availability),
				Area:         area,
				Location:     location,
				Contact:      contact,
			}
			if skills != "" {
				draft.Skills = profile.SplitSkills(skills)
			}

			pub, err := env.pubs.Create(cmd.Context(), draft)
			if err != nil {
				return env.userError(err)
			}

			if env.jsonOut {
				return env.printJSON(pub)
			}
			fmt.Fprintf(env.out, "Published #%d: %s\n", pub.ID, pub.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&pubType, "type", "", "Publication type (oferta, demanda)")
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&modality, "modality", "", "Modality (remoto, presencial, híbrido)")
	cmd.Flags().StringVar(&availability, "availability", "", "Availability (proyecto, part-time, full-time)")
	cmd.Flags().StringVar(&area, "area", "", "Area")
	cmd.Flags().StringVar(&location, "location", "", "Location (optional)")
	cmd.Flags().StringVar(&contact, "contact", "", "Contact details (optional)")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma-delimited skills")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newPubsEditCommand(flags *rootFlags) *cobra.Command {
	var (
		title, description, area string
		modality, availability   string
		location, contact        string
		skills, state            string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one of your publications",
		Long: `Edit one of your publications. Only the flags you pass are sent.
Editing another author's publication is rejected by the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid publication id %q", args[0])
			}

			patch := publications.Patch{}
			set := func(name string, target **string, value string) {
				if cmd.Flags().Changed(name) {
					*target = &value
				}
			}
			set("title", &patch.Title, title)
			set("description", &patch.Description, description)
			set("area", &patch.Area, area)
			set("location", &patch.Location, location)
			set("contact", &patch.Contact, contact)
			if cmd.Flags().Changed("modality") {
				m := publications.Modality(modality)
				patch.Modality = &m
			}
			if cmd.Flags().Changed("availability") {
				a := publications.Availability(availability)
				patch.Availability = &a
			}
			if cmd.Flags().Changed("state") {
				s := publications.State(state)
				patch.State = &s
			}
			if cmd.Flags().Changed("skills") {
				patch.Skills = profile.SplitSkills(skills)
			}

			pub, err := env.pubs.Update(cmd.Context(), id, patch)
			if err != nil {
				return env.userError(err)
			}

			if env.jsonOut {
				return env.printJSON(pub)
			}
			fmt.Fprintf(env.out, "Updated #%d\n", pub.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&modality, "modality", "", "Modality (remoto, presencial, híbrido)")
	cmd.Flags().StringVar(&availability, "availability", "", "Availability (proyecto, part-time, full-time)")
	cmd.Flags().StringVar(&area, "area", "", "Area")
	cmd.Flags().StringVar(&location, "location", "", "Location")
	cmd.Flags().StringVar(&contact, "contact", "", "Contact details")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma-delimited skills")
	cmd.Flags().StringVar(&state, "state", "", "State (activa, pausada, cerrada)")

	return cmd
}

func newPubsDeleteCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your publications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid publication id %q", args[0])
			}

			if err := env.pubs.Delete(cmd.Context(), id); err != nil {
				return env.userError(err)
			}

			fmt.Fprintf(env.out, "Deleted #%d\n", id)
			return nil
		},
	}
}

func printPublications(env *env, pubs []publications.Publication) error {
	if env.jsonOut {
		return env.printJSON(pubs)
	}

	if len(pubs) == 0 {
		fmt.Fprintln(env.out, "No publications found")
		return nil
	}

	w := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tAREA\tAUTHOR\tSTATE")
	for _, p := range pubs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Type, p.Title, p.Area, p.AuthorAlias, p.State)
	}
	return w.Flush()
}
