package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrea/tally/internal/i18n"
	"github.com/kingrea/tally/internal/icons"
	"github.com/kingrea/tally/internal/invoice"
	"github.com/kingrea/tally/internal/lifecycle"
)

type actionsOptions struct {
	status string
	locale string
	matrix bool
}

func (a *App) newActionsCmd() *cobra.Command {
	opts := &actionsOptions{}

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Show the action registry",
		Long: `Show the configured actions and their eligibility rules.

Examples:
  # Every action with its rule
  tally actions

  # Actions offered for a draft invoice, in French
  tally actions --status draft --locale fr-FR

  # Actions offered for an invoice that was never saved
  tally actions --status unset

  # Eligibility of every action for every status
  tally actions --matrix`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showActions(opts, cmd.Flags().Changed("status"))
		},
	}

	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "Only list actions offered for this status (unset, draft, validated, paid)")
	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Locale for labels (defaults to the project locale)")
	cmd.Flags().BoolVar(&opts.matrix, "matrix", false, "Print eligibility for every status")

	return cmd
}

func (a *App) showActions(opts *actionsOptions, filterByStatus bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	locale := opts.locale
	if locale == "" {
		locale = cfg.Locale()
	}
	printer := i18n.Printer(i18n.MatchLocale(locale))

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if opts.matrix {
		statuses := append([]invoice.Status{invoice.StatusUnset}, invoice.Statuses()...)
		header := []string{"ACTION"}
		for _, s := range statuses {
			header = append(header, strings.ToUpper(s.String()))
		}
		fmt.Fprintln(w, strings.Join(header, "\t"))
		for _, row := range registry.Matrix(statuses) {
			cells := []string{row.Action.Key}
			for _, ok := range row.Eligible {
				if ok {
					cells = append(cells, "yes")
				} else {
					cells = append(cells, "-")
				}
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		return nil
	}

	actions := registry.Actions()
	if filterByStatus {
		status, err := invoice.ParseStatus(opts.status)
		if err != nil {
			return err
		}
		actions = registry.Eligible(status)
	}
	if len(actions) == 0 {
		fmt.Fprintln(w, i18n.Label(printer, "core.actions.none"))
		return nil
	}
	fmt.Fprintln(w, "KEY\tLABEL\tVARIANT\tICON\tRULE")
	for _, action := range actions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\n",
			action.Key,
			i18n.Label(printer, action.Label),
			action.Variant,
			icons.Glyph(action.Icon),
			icons.LucideNameOrDefault(action.Icon),
			action.Eligibility,
		)
	}
	return nil
}

// describeRegistry summarises a registry for the validate command.
func describeRegistry(actions []lifecycle.ActionDescriptor) string {
	keys := make([]string, 0, len(actions))
	for _, action := range actions {
		keys = append(keys, action.Key)
	}
	return strings.Join(keys, ", ")
}
