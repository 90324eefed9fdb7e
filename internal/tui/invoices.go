package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/tally/internal/invoice"
)

const (
	defaultTableHeight = 10
	sidebarWidth       = 18
)

// navSection is an entry of the sidebar.
type navSection int

const (
	sectionInvoices navSection = iota
	sectionArchived
	sectionActivity
)

var navSections = []navSection{sectionInvoices, sectionArchived, sectionActivity}

func (s navSection) messageKey() string {
	switch s {
	case sectionArchived:
		return "core.nav.archived"
	case sectionActivity:
		return "core.nav.activity"
	default:
		return "core.nav.invoices"
	}
}

func (s navSection) includes(inv invoice.Invoice) bool {
	switch s {
	case sectionInvoices:
		return !inv.Archived
	case sectionArchived:
		return inv.Archived
	default:
		return false
	}
}

func (a *App) cycleSection(step int) {
	idx := 0
	for i, s := range navSections {
		if s == a.section {
			idx = i
			break
		}
	}
	idx = (idx + step + len(navSections)) % len(navSections)
	a.section = navSections[idx]
	a.refreshRows()
	a.table.SetCursor(0)
}

// contentWidth is the width available to the main column.
func (a *App) contentWidth() int {
	width := a.width
	if width <= 0 {
		width = 100
	}
	return max(40, width-sidebarWidth-8)
}

func (a *App) columns() []table.Column {
	number, status, total := 12, 12, 16
	supplier := max(12, a.contentWidth()-number-status-total-8)
	return []table.Column{
		{Title: a.label("core.table.number"), Width: number},
		{Title: a.label("core.table.supplier"), Width: supplier},
		{Title: a.label("core.table.total"), Width: total},
		{Title: a.label("core.table.status"), Width: status},
	}
}

func (a *App) resize() {
	a.table.SetColumns(a.columns())
	a.table.SetWidth(a.contentWidth())
	// Header, toolbar, action bar, log panel and footer.
	reserved := 12 + logPanelLines
	if a.height > 0 {
		a.table.SetHeight(max(3, a.height-reserved))
	}
	a.search.Width = max(10, a.contentWidth()-4)
	a.localeMenu.SetSize(a.contentWidth(), max(6, a.height-reserved))
}

func (a *App) tableRow(inv invoice.Invoice) table.Row {
	return table.Row{
		inv.DisplayNumber(),
		inv.Supplier,
		inv.FormatTotal(),
		a.label(a.statusOf(inv).MessageKey()),
	}
}

// refreshRows rebuilds the visible rows from the book, the applied search
// term and the current section. The pending row always comes first.
func (a *App) refreshRows() {
	var rows []invoice.Invoice
	if a.section != sectionActivity {
		if a.pending != nil && a.section == sectionInvoices {
			rows = append(rows, *a.pending)
		}
		for _, inv := range a.book.Search(a.appliedTerm) {
			if a.section.includes(inv) {
				rows = append(rows, inv)
			}
		}
	}
	a.rows = rows
	tableRows := make([]table.Row, 0, len(rows))
	for _, inv := range rows {
		tableRows = append(tableRows, a.tableRow(inv))
	}
	a.table.SetRows(tableRows)
	if len(rows) == 0 {
		return
	}
	switch cursor := a.table.Cursor(); {
	case cursor < 0:
		a.table.SetCursor(0)
	case cursor >= len(rows):
		a.table.SetCursor(len(rows) - 1)
	}
}

// selected returns the invoice under the table cursor.
func (a *App) selected() (invoice.Invoice, bool) {
	if a.section == sectionActivity {
		return invoice.Invoice{}, false
	}
	idx := a.table.Cursor()
	if idx < 0 || idx >= len(a.rows) {
		return invoice.Invoice{}, false
	}
	return a.rows[idx], true
}

func (a *App) isPending(inv invoice.Invoice) bool {
	return a.pending != nil && inv.ID == ""
}

// statusOf asks the book for the current status. Unsaved rows and records
// the book no longer knows about are unset.
func (a *App) statusOf(inv invoice.Invoice) invoice.Status {
	if a.isPending(inv) || inv.ID == "" {
		return invoice.StatusUnset
	}
	return a.book.StatusOf(inv.ID)
}

func (a *App) startNewInvoice() {
	if a.pending == nil {
		a.pending = &invoice.Invoice{
			Currency: invoice.DefaultCurrency,
			IssuedOn: a.now().Format(time.DateOnly),
		}
		a.logInfo("New invoice started")
	}
	a.section = sectionInvoices
	a.refreshRows()
	a.table.SetCursor(0)
	a.statusMsg = "New invoice · " + a.label(invoice.StatusUnset.MessageKey())
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.clearSearch()
		a.blurSearch()
		return a, nil
	case "enter":
		a.searchSeq++
		a.applySearch(a.search.Value())
		a.blurSearch()
		return a, nil
	}
	before := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() == before {
		return a, cmd
	}
	a.searchSeq++
	return a, tea.Batch(cmd, a.debounceSearch(a.searchSeq, a.search.Value()))
}

func (a *App) debounceSearch(seq int, term string) tea.Cmd {
	if a.debounce <= 0 {
		return func() tea.Msg { return searchDebounceMsg{seq: seq, term: term} }
	}
	return tea.Tick(a.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, term: term}
	})
}

func (a *App) applySearch(term string) {
	term = strings.TrimSpace(term)
	if term == a.appliedTerm {
		return
	}
	a.appliedTerm = term
	a.refreshRows()
	a.table.SetCursor(0)
}

func (a *App) clearSearch() {
	a.search.SetValue("")
	a.searchSeq++
	a.applySearch("")
}

func (a *App) blurSearch() {
	a.focus = focusTable
	a.search.Blur()
	a.table.Focus()
}
