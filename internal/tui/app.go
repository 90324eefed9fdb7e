// Package tui is the terminal front end for tally. It follows the bubbletea
// model/update/view loop: key presses become messages, Update mutates the
// App, and View renders the whole screen from that state.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kingrea/tally/internal/config"
	"github.com/kingrea/tally/internal/i18n"
	"github.com/kingrea/tally/internal/invoice"
	"github.com/kingrea/tally/internal/lifecycle"
	"github.com/kingrea/tally/internal/logbook"
	"github.com/kingrea/tally/internal/logging"
)

// appState represents which screen owns the keyboard.
type appState int

const (
	stateBrowse       appState = iota // Sidebar, table and action bar
	stateLocaleSelect                 // Language picker
)

type inputFocus int

const (
	focusTable inputFocus = iota
	focusSearch
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithBook replaces the invoice book loaded from the project config.
func WithBook(book *invoice.Book) AppOption {
	return func(a *App) {
		if book != nil {
			a.book = book
		}
	}
}

// WithRegistry replaces the action registry built from the project config.
func WithRegistry(registry *lifecycle.Registry) AppOption {
	return func(a *App) {
		if registry != nil {
			a.registry = registry
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *logging.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithClock overrides the clock used to date new invoices.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

type bookChangedMsg struct{}

type bookWatchErrMsg struct {
	err error
}

type searchDebounceMsg struct {
	seq  int
	term string
}

// App is the main application model.
type App struct {
	state    appState
	config   *config.Config
	book     *invoice.Book
	registry *lifecycle.Registry
	logbook  *logbook.Logbook
	logger   *logging.Logger
	now      func() time.Time

	watcher     *invoice.Watcher
	cancelWatch context.CancelFunc

	locale  language.Tag
	printer *message.Printer

	section    navSection
	focus      inputFocus
	table      table.Model
	search     textinput.Model
	localeMenu list.Model

	debounce    time.Duration
	searchSeq   int
	appliedTerm string
	rows        []invoice.Invoice
	// pending is the unsaved "new invoice" row. It has no ID and its status
	// is always unset.
	pending *invoice.Invoice

	statusMsg string
	width     int
	height    int
}

// NewApp creates a new App for the project rooted at projectDir.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	app := &App{
		state:    stateBrowse,
		config:   cfg,
		now:      time.Now,
		debounce: cfg.SearchDebounce(),
		section:  sectionInvoices,
		focus:    focusTable,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.registry == nil {
		registry, err := cfg.Registry()
		if err != nil {
			return nil, err
		}
		app.registry = registry
	}
	if app.book == nil {
		book, err := invoice.LoadBook(cfg.InvoicesPath())
		if err != nil {
			return nil, err
		}
		app.book = book
	}
	if lb, err := logbook.New(cfg.ActivityLogPath()); err == nil {
		app.logbook = lb
	} else {
		app.logger.Printf("open activity log: %v", err)
	}

	app.search = textinput.New()
	app.search.Prompt = "⌕ "
	app.search.CharLimit = 64
	app.table = table.New(
		table.WithFocused(true),
		table.WithHeight(defaultTableHeight),
	)
	app.table.SetStyles(tableStyles())
	app.localeMenu = newLocaleMenu()
	app.setLocale(i18n.MatchLocale(cfg.Locale()))
	app.resize()

	opened := "Session opened"
	if session := app.logger.Session(); session != "" {
		opened = "Session " + session + " opened"
	}
	app.logInfo("%s · %d invoices · %d actions", opened, app.book.Len(), app.registry.Len())
	app.logger.Printf("book %s loaded with %d invoices", app.book.Path(), app.book.Len())
	return app, nil
}

// Close stops the book watcher.
func (a *App) Close() error {
	if a.cancelWatch != nil {
		a.cancelWatch()
	}
	if a.watcher == nil {
		return nil
	}
	err := a.watcher.Close()
	a.watcher = nil
	return err
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.startWatching())
}

func (a *App) startWatching() tea.Cmd {
	if a.watcher != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	watcher, err := invoice.Watch(ctx, a.book.Path())
	if err != nil {
		cancel()
		a.logger.Printf("watch %s: %v", a.book.Path(), err)
		return nil
	}
	a.watcher = watcher
	a.cancelWatch = cancel
	return waitForBookChange(watcher)
}

func waitForBookChange(w *invoice.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changes():
			return bookChangedMsg{}
		case err := <-w.Errors():
			return bookWatchErrMsg{err: err}
		case <-w.Done():
			return nil
		}
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case bookChangedMsg:
		if err := a.book.Reload(); err != nil {
			a.statusMsg = fmt.Sprintf("Reload failed: %v", err)
			a.logger.Printf("reload %s: %v", a.book.Path(), err)
		} else {
			a.refreshRows()
		}
		return a, waitForBookChange(a.watcher)

	case bookWatchErrMsg:
		a.logger.Printf("watch %s: %v", a.book.Path(), msg.err)
		return a, waitForBookChange(a.watcher)

	case searchDebounceMsg:
		// Only the most recent keystroke's timer applies.
		if msg.seq == a.searchSeq {
			a.applySearch(msg.term)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.state == stateLocaleSelect {
			return a.updateLocaleMenu(msg)
		}
		if a.focus == focusSearch {
			return a.updateSearch(msg)
		}
		return a.handleBrowseKey(msg)
	}

	var cmd tea.Cmd
	switch {
	case a.state == stateLocaleSelect:
		a.localeMenu, cmd = a.localeMenu.Update(msg)
	case a.focus == focusSearch:
		a.search, cmd = a.search.Update(msg)
	}
	return a, cmd
}

func (a *App) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return a, tea.Quit
	case "/":
		if a.section == sectionActivity {
			return a, nil
		}
		a.focus = focusSearch
		a.table.Blur()
		return a, a.search.Focus()
	case "tab":
		a.cycleSection(1)
		return a, nil
	case "shift+tab":
		a.cycleSection(-1)
		return a, nil
	case "n":
		a.startNewInvoice()
		return a, nil
	case "L":
		a.openLocaleMenu()
		return a, nil
	case "esc":
		switch {
		case a.pending != nil:
			a.pending = nil
			a.statusMsg = "Discarded new invoice"
			a.refreshRows()
		case a.appliedTerm != "":
			a.clearSearch()
		}
		return a, nil
	}
	if idx, ok := actionHotkey(key); ok {
		a.triggerAction(idx)
		return a, nil
	}
	if a.section == sectionActivity {
		return a, nil
	}
	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) setLocale(tag language.Tag) {
	a.locale = tag
	a.printer = i18n.Printer(tag)
	a.search.Placeholder = a.label("core.search.placeholder")
	a.localeMenu.Title = a.label("core.locale.title")
	a.table.SetColumns(a.columns())
	a.refreshRows()
}

func (a *App) label(key string) string {
	return i18n.Label(a.printer, key)
}
