package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/kingrea/tally/internal/i18n"
)

// localeOption implements list.Item for the language picker.
type localeOption struct {
	tag language.Tag
}

func (o localeOption) Title() string       { return display.Self.Name(o.tag) }
func (o localeOption) Description() string { return o.tag.String() }
func (o localeOption) FilterValue() string { return o.tag.String() }

func newLocaleMenu() list.Model {
	supported := i18n.Supported()
	items := make([]list.Item, 0, len(supported))
	for _, tag := range supported {
		items = append(items, localeOption{tag: tag})
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	return menu
}

func (a *App) openLocaleMenu() {
	for i, item := range a.localeMenu.Items() {
		if option, ok := item.(localeOption); ok && option.tag == a.locale {
			a.localeMenu.Select(i)
			break
		}
	}
	a.localeMenu.SetSize(a.contentWidth(), 12)
	a.state = stateLocaleSelect
}

func (a *App) updateLocaleMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.state = stateBrowse
		return a, nil
	case "enter":
		a.state = stateBrowse
		option, ok := a.localeMenu.SelectedItem().(localeOption)
		if !ok || option.tag == a.locale {
			return a, nil
		}
		if err := a.config.SetLocale(option.tag.String()); err != nil {
			a.statusMsg = fmt.Sprintf("Language not saved: %v", err)
			a.logger.Printf("set locale %s: %v", option.tag, err)
			return a, nil
		}
		a.setLocale(option.tag)
		a.statusMsg = display.Self.Name(option.tag)
		a.logInfo("Language switched to %s", option.tag)
		return a, nil
	}
	var cmd tea.Cmd
	a.localeMenu, cmd = a.localeMenu.Update(msg)
	return a, cmd
}
