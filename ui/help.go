package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	key  string
	desc string
}

var helpEntries = []helpEntry{
	{"tab", "Cycle focus between URL, checks and chat"},
	{"enter", "Start checkup / open chat / send message"},
	{"j/k, up/down", "Move in lists"},
	{"ctrl+l", "Browse previous checkups"},
	{"ctrl+n", "Start a new checkup"},
	{"ctrl+a", "Attach a PNG or JPEG to the next message"},
	{"esc", "Remove staged attachment / leave chat"},
	{"ctrl+x", "Clear the current chat history"},
	{"ctrl+y", "Copy the last reply to the clipboard"},
	{"ctrl+r", "Download the PDF report"},
	{"ctrl+p", "Retry checkup updates"},
	{"ctrl+o", "Log out"},
	{"ctrl+h", "Toggle this help"},
	{"ctrl+c", "Quit"},
}

func (a *AppView) helpView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Keybindings") + "\n\n")
	for _, e := range helpEntries {
		b.WriteString(HighlightStyle.Render(padRight(e.key, 14)) + e.desc + "\n")
	}
	b.WriteString("\n" + DimStyle.Render("sitecheck "+a.dataModel.Version+"  "+a.dataModel.License))
	b.WriteString("\n" + DimStyle.Render("Press any key to close"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, b.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
