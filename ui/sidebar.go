package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"sitecheck/api"
)

// filterCheckups returns the indexes of checkups whose URL fuzzy-matches
// the pattern, best match first. An empty pattern keeps the server order.
func filterCheckups(checkups []api.Checkup, pattern string) []int {
	idx := make([]int, 0, len(checkups))
	if strings.TrimSpace(pattern) == "" {
		for i := range checkups {
			idx = append(idx, i)
		}
		return idx
	}

	targets := make([]string, len(checkups))
	for i, c := range checkups {
		targets[i] = c.URL
	}
	for _, m := range fuzzy.Find(pattern, targets) {
		idx = append(idx, m.Index)
	}
	return idx
}

func (a *AppView) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filterActive {
		switch msg.String() {
		case "esc":
			a.filterActive = false
			a.filterInput.Blur()
			a.filterInput.Reset()
			a.refreshFilter()
			return a, nil
		case "enter":
			a.filterActive = false
			a.filterInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.filterInput, cmd = a.filterInput.Update(msg)
		a.refreshFilter()
		return a, cmd
	}

	switch msg.String() {
	case "esc", "ctrl+l", "q":
		a.showSidebar = false
		return a, nil
	case "/":
		a.filterActive = true
		a.filterInput.Focus()
		return a, nil
	case "up", "k":
		if a.sidebarIdx > 0 {
			a.sidebarIdx--
		}
		return a, nil
	case "down", "j":
		if a.sidebarIdx < len(a.filtered)-1 {
			a.sidebarIdx++
		}
		return a, nil
	case "r":
		a.fetching = true
		return a, a.dataModel.FetchCheckups(true)
	case "enter":
		return a.selectCheckup()
	}
	return a, nil
}

// selectCheckup reopens the highlighted checkup and polls it once; a
// finished checkup settles immediately, an in-flight one keeps polling.
func (a *AppView) selectCheckup() (tea.Model, tea.Cmd) {
	if a.sidebarIdx < 0 || a.sidebarIdx >= len(a.filtered) {
		return a, nil
	}
	c := a.dataModel.Checkups[a.filtered[a.sidebarIdx]]
	a.showSidebar = false
	a.beginTracking(c.CheckupID, c.URL)
	return a, a.dataModel.PollCheckup()
}

func (a *AppView) sidebarView() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Your checkups") + "\n\n")

	if a.filterActive || a.filterInput.Value() != "" {
		b.WriteString("Filter: " + a.filterInput.View() + "\n\n")
	}

	switch {
	case a.fetching:
		b.WriteString(a.loadingSpinner.View() + DimStyle.Render(" loading..."))
	case len(a.filtered) == 0:
		b.WriteString(DimStyle.Render("No checkups found."))
	default:
		maxRows := a.height - 10
		if maxRows < 1 {
			maxRows = 1
		}
		start := 0
		if a.sidebarIdx >= maxRows {
			start = a.sidebarIdx - maxRows + 1
		}
		for row := start; row < len(a.filtered) && row < start+maxRows; row++ {
			c := a.dataModel.Checkups[a.filtered[row]]
			cursor := "  "
			line := runewidth.Truncate(c.URL, a.width-30, "...")
			when := ""
			if c.CreatedAt != nil {
				when = DimStyle.Render(c.CreatedAt.Format("2006-01-02 15:04"))
			}
			text := fmt.Sprintf("%s%s  %s", cursor, line, when)
			if row == a.sidebarIdx {
				text = SelectedStyle.Render(fmt.Sprintf("> %s", line)) + "  " + when
			}
			b.WriteString(text + "\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(FormatFooter(
		"enter", "Open",
		"/", "Filter",
		"r", "Refresh",
		"esc", "Close",
	))

	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(b.String()))
}
