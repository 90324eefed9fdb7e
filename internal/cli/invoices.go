package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrea/tally/internal/i18n"
	"github.com/kingrea/tally/internal/invoice"
)

type listOptions struct {
	search   string
	archived bool
}

func (a *App) newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices with the actions each one offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listInvoices(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "q", "", "Fuzzy filter on number and supplier")
	cmd.Flags().BoolVar(&opts.archived, "archived", false, "List archived invoices instead")

	return cmd
}

func (a *App) listInvoices(opts *listOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	book, err := invoice.LoadBook(cfg.InvoicesPath())
	if err != nil {
		return err
	}
	printer := i18n.Printer(i18n.MatchLocale(cfg.Locale()))

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "NUMBER\tSUPPLIER\tTOTAL\tSTATUS\tACTIONS")
	for _, inv := range book.Search(opts.search) {
		if inv.Archived != opts.archived {
			continue
		}
		status := book.StatusOf(inv.ID)
		var keys []string
		for _, action := range registry.Eligible(status) {
			keys = append(keys, action.Key)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			inv.DisplayNumber(),
			inv.Supplier,
			inv.FormatTotal(),
			i18n.Label(printer, status.MessageKey()),
			strings.Join(keys, ","),
		)
	}
	return nil
}

func (a *App) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <number|id>",
		Short: "Write an invoice as markdown to .tally/exports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			book, err := invoice.LoadBook(cfg.InvoicesPath())
			if err != nil {
				return err
			}
			target, ok := findInvoice(book, args[0])
			if !ok {
				return fmt.Errorf("%w: %s", invoice.ErrNotFound, args[0])
			}
			path, err := invoice.ExportMarkdown(cfg.ExportsDir(), target)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
}

func findInvoice(book *invoice.Book, ref string) (invoice.Invoice, bool) {
	ref = strings.TrimSpace(ref)
	if inv, err := book.Get(ref); err == nil {
		return inv, true
	}
	for _, inv := range book.List() {
		if strings.EqualFold(inv.Number, ref) {
			return inv, true
		}
	}
	return invoice.Invoice{}, false
}
