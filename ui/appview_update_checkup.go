package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/config"
	"sitecheck/model"
)

// updateCheckup handles checkup lifecycle messages: list fetches, starts,
// poll responses, poll ticks and report downloads.
func (a *AppView) updateCheckup(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case model.CheckupsListMsg:
		a.fetching = false
		if msg.Err != nil {
			return a, a.handleTransportError(msg.Err)
		}
		a.dataModel.Checkups = msg.Checkups
		if !msg.FromCache {
			a.dataModel.Cache.Set(model.CacheKeyCheckups, msg.Checkups)
		}
		a.refreshFilter()
		return a, nil

	case model.CheckupStartedMsg:
		if msg.Err != nil {
			return a, a.handleTransportError(msg.Err)
		}
		a.statusMsg = ""
		a.dataModel.Cache.Invalidate(model.CacheKeyCheckups)
		a.beginTracking(msg.Checkup.CheckupID, msg.Checkup.URL)
		return a, tea.Batch(a.dataModel.PollCheckup(), a.dataModel.FetchCheckups(true))

	case model.CheckupPolledMsg:
		return a.handlePolled(msg)

	case model.PollTickMsg:
		// Ticks for a checkup we no longer track are stale, drop them.
		if msg.CheckupID != a.dataModel.CheckupID || !a.dataModel.Polling {
			return a, nil
		}
		return a, a.dataModel.PollCheckup()

	case model.ReportSavedMsg:
		if msg.Err != nil {
			a.statusMsg = fmt.Sprintf("Report download failed: %v", msg.Err)
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Report saved to %s", msg.Path)
		return a, nil
	}
	return a, nil
}

// beginTracking points the main screen at a checkup and arms the poller.
func (a *AppView) beginTracking(id int64, url string) {
	a.dataModel.CancelStream()
	a.dataModel.CheckupID = id
	a.dataModel.URL = url
	a.dataModel.Steps = model.InitialSteps()
	a.dataModel.AllCompleted = false
	a.dataModel.Polling = true
	a.dataModel.PollFailed = false
	a.dataModel.PollState.Reset()
	a.dataModel.ActiveStep = -1
	a.dataModel.Transcript.Reset()
	a.stepCursor = 0
	a.chatInput.Reset()
	a.focusArea(focusSteps)
}

func (a *AppView) handlePolled(msg model.CheckupPolledMsg) (tea.Model, tea.Cmd) {
	// A response for a previously tracked checkup must not touch the
	// current one.
	if msg.CheckupID != a.dataModel.CheckupID {
		return a, nil
	}

	if msg.Err != nil {
		a.handleTransportError(msg.Err)
		if a.mode == modeLogin {
			// Session expired mid-poll, tracking is over.
			return a, nil
		}
		if !a.dataModel.PollState.RecordFailure() {
			a.dataModel.Polling = false
			a.dataModel.PollFailed = true
			a.statusMsg = "Checkup updates unavailable, giving up. Press ctrl+p to retry."
			return a, nil
		}
		delay := a.dataModel.PollState.Delay()
		if config.DebugLog != nil {
			config.DebugLog.Printf("poll checkup %d failed (%d in a row), retrying in %s: %v",
				msg.CheckupID, a.dataModel.PollState.Failures, delay, msg.Err)
		}
		return a, a.dataModel.SchedulePoll(delay)
	}

	a.dataModel.PollState.Reset()
	a.dataModel.PollFailed = false
	a.dataModel.URL = msg.Checkup.URL
	a.dataModel.Steps = model.ProjectSteps(msg.Checkup)
	a.dataModel.AllCompleted = model.AllTerminal(msg.Checkup.Checks)

	if a.dataModel.AllCompleted {
		a.dataModel.Polling = false
		return a, nil
	}
	a.dataModel.Polling = true
	return a, a.dataModel.SchedulePoll(model.PollInterval)
}
