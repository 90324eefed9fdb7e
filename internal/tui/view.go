package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/tally/internal/icons"
	"github.com/kingrea/tally/internal/lifecycle"
	"github.com/kingrea/tally/internal/logbook"
)

const (
	logPanelLines    = 6
	activityLines    = 20
	colorAccent      = lipgloss.Color("#5B8DEF")
	colorHeader      = lipgloss.Color("#FF6B6B")
	colorBorder      = lipgloss.Color("#444444")
	colorMuted       = lipgloss.Color("#888888")
	colorBody        = lipgloss.Color("#AAAAAA")
	colorOnAccent    = lipgloss.Color("#FFFFFF")
	colorWarnMessage = lipgloss.Color("#F5A623")
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	bodyStyle    = lipgloss.NewStyle().Foreground(colorBody)

	navItemStyle   = lipgloss.NewStyle().Foreground(colorBody)
	navActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// Buttons share the same border so filled and outlined actions line up.
	defaultButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent).
				Background(colorAccent).
				Foreground(colorOnAccent).
				Bold(true).
				Padding(0, 1)
	outlineButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent).
				Foreground(colorAccent).
				Padding(0, 1)
)

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(colorOnAccent).
		Background(colorAccent).
		Bold(false)
	return styles
}

// View renders the layout shell: header, sidebar, main column, log panel
// and footer.
func (a *App) View() string {
	mainWidth := a.contentWidth()
	var content string
	switch {
	case a.state == stateLocaleSelect:
		content = a.localeMenu.View()
	case a.section == sectionActivity:
		content = a.renderActivity()
	default:
		content = a.renderInvoices(mainWidth)
	}
	sidebar := boxStyle.Width(sidebarWidth).Render(a.renderSidebar())
	main := boxStyle.Width(mainWidth + 2).Render(content)
	sections := []string{
		a.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main),
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorHeader).
		Render(fmt.Sprintf("%s %s", icons.Glyph(icons.Invoice), a.label("core.title")))
	counts := mutedStyle.Render(a.printer.Sprintf("core.counts", a.book.Len(), len(a.rows)))
	locale := mutedStyle.Render(fmt.Sprintf("%s %s", icons.Glyph(icons.Settings), a.locale.String()))
	return lipgloss.NewStyle().MarginBottom(1).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", counts, "  ", locale),
	)
}

func (a *App) renderSidebar() string {
	lines := make([]string, 0, len(navSections))
	for _, section := range navSections {
		name := a.label(section.messageKey())
		if section == a.section {
			lines = append(lines, navActiveStyle.Render("▸ "+name))
			continue
		}
		lines = append(lines, navItemStyle.Render("  "+name))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderInvoices(width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.search.View(),
		"",
		a.table.View(),
		"",
		a.renderActionBar(width),
	)
}

func (a *App) renderActionBar(width int) string {
	heading := headingStyle.Render(a.label("core.actions.heading"))
	actions := a.eligibleActions()
	if len(actions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, mutedStyle.Render(a.label("core.actions.none")))
	}
	var (
		rows    []string
		current []string
		used    int
	)
	for i, action := range actions {
		button := a.renderActionButton(i, action)
		w := lipgloss.Width(button) + 1
		if used > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current, used = nil, 0
		}
		current = append(current, button, " ")
		used += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{heading}, rows...)...)
}

func (a *App) renderActionButton(idx int, action lifecycle.ActionDescriptor) string {
	text := fmt.Sprintf("%s %s", icons.Glyph(action.Icon), a.label(action.Label))
	if idx < maxHotkeys {
		text = fmt.Sprintf("%d %s", idx+1, text)
	}
	if action.Variant == lifecycle.VariantOutline {
		return outlineButtonStyle.Render(text)
	}
	return defaultButtonStyle.Render(text)
}

func (a *App) renderActivity() string {
	heading := headingStyle.Render(a.label("core.nav.activity"))
	if a.logbook == nil {
		return heading
	}
	entries, total := a.logbook.Recent(activityLines)
	if total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, mutedStyle.Render("-"))
	}
	lines := []string{heading}
	for _, entry := range entries {
		stamp := "        "
		if !entry.At.IsZero() {
			stamp = entry.At.Local().Format("15:04:05")
		}
		lines = append(lines, mutedStyle.Render(stamp)+" "+entryStyle(entry.Level).Render(entry.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func entryStyle(level logbook.Level) lipgloss.Style {
	switch level {
	case logbook.LevelError:
		return lipgloss.NewStyle().Foreground(colorHeader)
	case logbook.LevelWarn:
		return lipgloss.NewStyle().Foreground(colorWarnMessage)
	default:
		return bodyStyle
	}
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil || a.section == sectionActivity {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := headingStyle.Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	return boxStyle.Render(fmt.Sprintf("%s\n%s", head, bodyStyle.Render(strings.Join(lines, "\n"))))
}

func (a *App) renderFooter() string {
	lines := []string{}
	if a.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorWarnMessage).Render(a.statusMsg))
	}
	lines = append(lines, mutedStyle.Render(a.label("core.hints")))
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(lines, "\n"))
}
