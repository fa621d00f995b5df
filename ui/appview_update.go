package ui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/api"
	"sitecheck/config"
	"sitecheck/model"
)

// Update is the root message dispatcher.
func (a *AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case model.HealthMsg:
		a.healthOK = msg.Err == nil
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("health check failed: %v", msg.Err)
		}
		return a, nil

	case model.ClaimsMsg, model.LoginResultMsg, model.LogoutMsg:
		return a.updateAuth(msg)

	case model.CheckupsListMsg, model.CheckupStartedMsg,
		model.CheckupPolledMsg, model.PollTickMsg, model.ReportSavedMsg:
		return a.updateCheckup(msg)

	case model.ChatHistoryMsg, model.ChatStreamChunkMsg, model.ChatStreamDoneMsg,
		model.ChatStreamErrorMsg, model.ChatClearedMsg, model.MarkdownRenderedMsg:
		return a.updateChat(msg)
	}

	return a, nil
}

// handleKey routes key presses by screen and overlay state.
func (a *AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings that work everywhere.
	switch msg.String() {
	case "ctrl+c":
		a.dataModel.CancelStream()
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	if a.mode == modeLogin {
		return a.handleLoginKey(msg)
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.attachActive {
		return a.handleAttachKey(msg)
	}

	if a.showSidebar {
		return a.handleSidebarKey(msg)
	}

	switch msg.String() {
	case "ctrl+h":
		a.showHelp = true
		return a, nil

	case "ctrl+l":
		a.showSidebar = true
		a.sidebarIdx = 0
		a.filterInput.Reset()
		a.filterActive = false
		a.refreshFilter()
		a.fetching = true
		return a, a.dataModel.FetchCheckups(false)

	case "ctrl+n":
		// New checkup: back to the URL prompt.
		a.dataModel.CancelStream()
		a.dataModel.ResetCheckup()
		a.stepCursor = -1
		a.urlInput.Reset()
		a.chatInput.Reset()
		a.focus = focusURL
		a.urlInput.Focus()
		a.chatInput.Blur()
		return a, nil

	case "ctrl+o":
		return a, a.dataModel.LogoutCmd()

	case "ctrl+r":
		if !a.dataModel.ReportAvailable() {
			a.statusMsg = "Report is available once all checks finish"
			return a, nil
		}
		a.statusMsg = "Downloading report..."
		return a, a.dataModel.DownloadReport()

	case "ctrl+y":
		return a.copyLastResponse()

	case "ctrl+p":
		// Resume polling after the retry budget ran out.
		if a.dataModel.CheckupID != 0 && !a.dataModel.Polling && !a.dataModel.AllCompleted {
			a.dataModel.PollState.Reset()
			a.dataModel.PollFailed = false
			a.dataModel.Polling = true
			a.statusMsg = ""
			return a, a.dataModel.PollCheckup()
		}
		return a, nil

	case "ctrl+x":
		cmd := a.dataModel.ClearChatHistory()
		if cmd == nil {
			return a, nil
		}
		// A clear supersedes any reply still streaming in. Stop the
		// stream first so its remaining chunks fail the chat id gate
		// instead of landing in the wiped transcript.
		a.dataModel.CancelStream()
		a.dataModel.Transcript.DropStream()
		a.updateViewportContent(false)
		return a, cmd

	case "ctrl+a":
		if a.focus == focusChat {
			a.attachActive = true
			a.attachInput.Reset()
			a.attachInput.Focus()
			a.chatInput.Blur()
		}
		return a, nil

	case "tab":
		return a.cycleFocus()

	case "esc":
		if a.dataModel.Staged != nil {
			a.dataModel.ClearAttachment()
			a.statusMsg = "Attachment removed"
			return a, nil
		}
		if a.focus == focusChat {
			return a.focusArea(focusSteps)
		}
		return a, nil
	}

	switch a.focus {
	case focusURL:
		return a.handleURLKey(msg)
	case focusSteps:
		return a.handleStepsKey(msg)
	case focusChat:
		return a.handleChatKey(msg)
	}
	return a, nil
}

func (a *AppView) handleURLKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		url := a.urlInput.Value()
		if url == "" {
			return a, nil
		}
		a.statusMsg = "Starting checkup..."
		return a, a.dataModel.StartCheckup(url)
	}
	var cmd tea.Cmd
	a.urlInput, cmd = a.urlInput.Update(msg)
	return a, cmd
}

func (a *AppView) handleStepsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.stepCursor > 0 {
			a.stepCursor--
		}
		return a, nil
	case "down", "j":
		if a.stepCursor < len(a.dataModel.Steps)-1 {
			a.stepCursor++
		}
		return a, nil
	case "enter":
		return a.openStepChat(a.stepCursor)
	}
	return a, nil
}

func (a *AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	if msg.String() == "enter" {
		question := a.chatInput.Value()
		if !a.dataModel.Transcript.BeginSend(question) {
			return a, nil
		}
		a.chatInput.Reset()
		a.updateViewportContent(true)
		return a, a.dataModel.StartStream(question)
	}
	var cmd tea.Cmd
	a.chatInput, cmd = a.chatInput.Update(msg)
	return a, cmd
}

func (a *AppView) handleAttachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.attachActive = false
		a.attachInput.Blur()
		a.chatInput.Focus()
		return a, nil
	case "enter":
		path := a.attachInput.Value()
		a.attachActive = false
		a.attachInput.Blur()
		a.chatInput.Focus()
		if path == "" {
			return a, nil
		}
		if err := a.dataModel.StageAttachment(path); err != nil {
			a.statusMsg = fmt.Sprintf("Attach failed: %v", err)
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Attached %s", a.dataModel.Staged.Name)
		return a, nil
	}
	var cmd tea.Cmd
	a.attachInput, cmd = a.attachInput.Update(msg)
	return a, cmd
}

// openStepChat activates the chat pane for the step under the cursor.
func (a *AppView) openStepChat(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(a.dataModel.Steps) {
		return a, nil
	}
	step := &a.dataModel.Steps[idx]
	if step.ChatID == 0 {
		a.statusMsg = "No chat for this check yet"
		return a, nil
	}
	a.dataModel.CancelStream()
	a.dataModel.ActiveStep = idx
	a.dataModel.Transcript.Reset()
	a.updateViewportContent(false)
	a.focusArea(focusChat)
	return a, a.dataModel.LoadChatHistory()
}

func (a *AppView) cycleFocus() (tea.Model, tea.Cmd) {
	switch a.focus {
	case focusURL:
		return a.focusArea(focusSteps)
	case focusSteps:
		if a.dataModel.ActiveStepRef() != nil {
			return a.focusArea(focusChat)
		}
		return a.focusArea(focusURL)
	default:
		return a.focusArea(focusURL)
	}
}

func (a *AppView) focusArea(f focusArea) (tea.Model, tea.Cmd) {
	a.focus = f
	a.urlInput.Blur()
	a.chatInput.Blur()
	switch f {
	case focusURL:
		a.urlInput.Focus()
	case focusSteps:
		if a.stepCursor < 0 && len(a.dataModel.Steps) > 0 {
			a.stepCursor = 0
		}
	case focusChat:
		a.chatInput.Focus()
	}
	return a, nil
}

func (a *AppView) copyLastResponse() (tea.Model, tea.Cmd) {
	msgs := a.dataModel.Transcript.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == model.SenderAssistant {
			if err := clipboard.WriteAll(msgs[i].Content); err != nil {
				a.statusMsg = "Clipboard unavailable"
			} else {
				a.statusMsg = "Copied last response"
			}
			return a, nil
		}
	}
	a.statusMsg = "Nothing to copy"
	return a, nil
}

// handleTransportError maps API failures to screen changes or status text.
// Expired sessions drop back to the login screen without a banner.
func (a *AppView) handleTransportError(err error) tea.Cmd {
	if errors.Is(err, api.ErrUnauthorized) {
		a.toLogin("")
		return nil
	}
	if errors.Is(err, api.ErrForbidden) {
		a.statusMsg = "You don't have access to this resource"
		return nil
	}
	a.statusMsg = fmt.Sprintf("Error: %v", err)
	return nil
}

// toLogin switches to the login screen and clears session-scoped state.
func (a *AppView) toLogin(errMsg string) {
	a.dataModel.CancelStream()
	a.dataModel.User = nil
	a.dataModel.Cache.Clear()
	a.dataModel.ResetCheckup()
	a.mode = modeLogin
	a.login.busy = false
	a.login.errMsg = errMsg
	a.login.emailInput.Focus()
	a.login.passwordInput.Blur()
	a.login.field = fieldEmail
}
