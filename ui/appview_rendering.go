package ui

import (
	"fmt"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"sitecheck/config"
	"sitecheck/model"
)

const (
	headerHeight = 2
	footerHeight = 2
	inputHeight  = 3
	stepsWidth   = 44
)

// layout recomputes widget dimensions after a resize.
func (a *AppView) layout() {
	chatWidth := a.width - stepsWidth - 3
	if chatWidth < 20 {
		chatWidth = 20
	}
	vpHeight := a.height - headerHeight - footerHeight - inputHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if a.viewport.Width == 0 && a.viewport.Height == 0 {
		a.viewport = viewport.New(chatWidth, vpHeight)
	} else {
		a.viewport.Width = chatWidth
		a.viewport.Height = vpHeight
	}
	a.chatInput.Width = chatWidth - 4
	a.urlInput.Width = a.width - 20
	a.updateViewportContent(false)
}

// updateViewportContent rebuilds the transcript pane from the data model.
func (a *AppView) updateViewportContent(gotoBottom bool) {
	if !a.ready {
		return
	}

	msgs := a.dataModel.Transcript.Messages()
	if len(msgs) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Ask something about this check."))
		return
	}

	var content strings.Builder
	streamingIdx := a.dataModel.Transcript.StreamingIndex()

	for i, msg := range msgs {
		timestamp := DimStyle.Render(msg.CreatedAt.Format("[15:04]"))

		var roleStyle = DimStyle
		var roleName string
		switch msg.Sender {
		case model.SenderUser:
			roleStyle = UserStyle
			roleName = "You"
		case model.SenderAssistant:
			roleStyle = AssistantStyle
			roleName = "Assistant"
		default:
			roleStyle = DimStyle
			roleName = "System"
		}
		role := roleStyle.Render(roleName)

		body := msg.Rendered
		if body == "" {
			body = msg.Content
		}
		if i == streamingIdx {
			// Raw text while streaming, markdown happens on completion.
			body = msg.Content + a.loadingSpinner.View()
		}
		if msg.Incomplete {
			body += DimStyle.Render(" [incomplete]")
		}

		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, body))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderMarkdownAsync renders a completed message to ANSI in the
// background and reports back with a MarkdownRenderedMsg.
func (a *AppView) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	width := a.viewport.Width
	if width <= 0 {
		width = 80
	}
	return func() tea.Msg {
		start := time.Now()

		// Disable autolink so the terminal emulator handles URL
		// detection and clickability itself.
		exts := markdown.Extensions() &^ parser.Autolink
		p := parser.NewWithExtensions(exts)
		r := markdown.NewRenderer(width-2, 0)
		doc := p.Parse([]byte(content))
		rendered := strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n")

		if config.DebugLog != nil {
			config.DebugLog.Printf("markdown rendered for message %d in %v", messageIndex, time.Since(start))
		}

		return model.MarkdownRenderedMsg{
			MessageIndex: messageIndex,
			Rendered:     rendered,
		}
	}
}

// View draws the active screen.
func (a *AppView) View() string {
	if a.dataModel.Quitting {
		return ""
	}
	if !a.ready {
		return "Loading..."
	}

	switch {
	case a.mode == modeLogin:
		return a.loginView()
	case a.showHelp:
		return a.helpView()
	case a.showSidebar:
		return a.sidebarView()
	default:
		return a.mainView()
	}
}

func (a *AppView) mainView() string {
	var b strings.Builder

	b.WriteString(a.headerView())
	b.WriteString("\n")
	b.WriteString(a.urlLineView())
	b.WriteString("\n")

	steps := a.stepsView()
	chat := a.chatView()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, steps, " ", chat))
	b.WriteString("\n")
	b.WriteString(a.footerView())

	if a.attachActive {
		prompt := TitleStyle.Render("Attach image") + "\n" + a.attachInput.View() +
			"\n" + HelpStyle.Render("Enter to attach, Esc to cancel")
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			BorderStyle.Render(lipgloss.NewStyle().Padding(1, 2).Render(prompt)))
	}

	return b.String()
}

func (a *AppView) headerView() string {
	title := TitleStyle.Render("sitecheck")

	health := StepFailedStyle.Render("offline")
	if a.healthOK {
		health = StepCompleteStyle.Render("online")
	}

	user := ""
	if a.dataModel.User != nil {
		user = DimStyle.Render(a.dataModel.User.Email)
	}

	left := title + "  " + health
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(user)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + user
}

func (a *AppView) urlLineView() string {
	label := "Website: "
	if a.focus == focusURL {
		label = SelectedStyle.Render("Website: ")
	}
	if a.dataModel.CheckupID != 0 && a.focus != focusURL {
		return label + a.dataModel.URL
	}
	return label + a.urlInput.View()
}

// stepsView draws the five audit steps with their status glyphs.
func (a *AppView) stepsView() string {
	var b strings.Builder

	heading := "Checks"
	if a.focus == focusSteps {
		heading = SelectedStyle.Render("Checks")
	}
	b.WriteString(heading + "\n")

	if a.dataModel.CheckupID == 0 {
		b.WriteString(DimStyle.Render("Enter a website URL to begin."))
		return lipgloss.NewStyle().Width(stepsWidth).Render(b.String())
	}

	for i, step := range a.dataModel.Steps {
		glyph, style := stepGlyph(step.Status)
		cursor := "  "
		if a.focus == focusSteps && i == a.stepCursor {
			cursor = SelectedStyle.Render("> ")
		}
		name := runewidth.Truncate(step.Name, stepsWidth-6, "...")
		line := fmt.Sprintf("%s%s %s", cursor, style.Render(glyph), style.Render(name))
		b.WriteString(line + "\n")
		if step.Status == model.StatusFailed && step.Exception != "" {
			exc := runewidth.Truncate(step.Exception, stepsWidth-8, "...")
			b.WriteString("      " + ErrorStyle.Render(exc) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case a.dataModel.PollFailed:
		b.WriteString(ErrorStyle.Render("Updates unavailable"))
	case a.dataModel.Polling:
		b.WriteString(a.loadingSpinner.View() + DimStyle.Render(" checking..."))
	case a.dataModel.AllCompleted:
		b.WriteString(StepCompleteStyle.Render("All checks finished"))
		b.WriteString("\n" + DimStyle.Render("ctrl+r downloads the PDF report"))
	}

	return lipgloss.NewStyle().Width(stepsWidth).Render(b.String())
}

func stepGlyph(s model.StepStatus) (string, lipgloss.Style) {
	switch s {
	case model.StatusComplete:
		return "✓", StepCompleteStyle
	case model.StatusFailed:
		return "✗", StepFailedStyle
	case model.StatusCurrent:
		return "●", StepCurrentStyle
	default:
		return "○", StepUpcomingStyle
	}
}

func (a *AppView) chatView() string {
	// While the user browses the step list, the right pane previews the
	// highlighted check's findings instead of the chat transcript.
	if a.focus == focusSteps && a.dataModel.ActiveStepRef() == nil {
		return a.resultsPreview()
	}

	var b strings.Builder

	heading := "Chat"
	if step := a.dataModel.ActiveStepRef(); step != nil {
		heading = "Chat: " + step.Name
	}
	if a.focus == focusChat {
		heading = SelectedStyle.Render(heading)
	}
	b.WriteString(heading + "\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")

	if a.dataModel.Staged != nil {
		b.WriteString(HighlightStyle.Render("[" + a.dataModel.Staged.Name + "] "))
	}
	b.WriteString(a.chatInput.View())
	return b.String()
}

// resultsPreview renders the highlighted check's results_description.
func (a *AppView) resultsPreview() string {
	var b strings.Builder
	b.WriteString("Findings\n")

	if a.stepCursor < 0 || a.stepCursor >= len(a.dataModel.Steps) {
		b.WriteString(DimStyle.Render("Select a check to see its findings."))
		return b.String()
	}

	step := a.dataModel.Steps[a.stepCursor]
	switch {
	case step.Status == model.StatusFailed && step.Exception != "":
		b.WriteString(ErrorStyle.Render(step.Exception))
	case step.ResultsDescription != "":
		width := a.viewport.Width
		if width <= 0 {
			width = 80
		}
		exts := markdown.Extensions() &^ parser.Autolink
		p := parser.NewWithExtensions(exts)
		r := markdown.NewRenderer(width-2, 0)
		doc := p.Parse([]byte(step.ResultsDescription))
		b.WriteString(strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n"))
	case step.Status == model.StatusUpcoming:
		b.WriteString(DimStyle.Render("This check has not started yet."))
	case step.Status == model.StatusCurrent:
		b.WriteString(a.loadingSpinner.View() + DimStyle.Render(" check in progress..."))
	default:
		b.WriteString(DimStyle.Render("No findings reported."))
	}

	if step.HasChat() {
		b.WriteString("\n\n" + DimStyle.Render("Press Enter to chat about this check."))
	}
	return b.String()
}

func (a *AppView) footerView() string {
	if a.statusMsg != "" {
		return StatusStyle.Render(a.statusMsg)
	}
	return FormatFooter(
		"tab", "Focus",
		"enter", "Select/Send",
		"ctrl+l", "Checkups",
		"ctrl+n", "New",
		"ctrl+h", "Help",
		"ctrl+c", "Quit",
	)
}
