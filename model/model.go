package model

import (
	"context"

	"sitecheck/api"
	"sitecheck/config"
	"sitecheck/storage"
)

// Model holds the core application data and business logic state,
// separate from the UI layer's view state.
type Model struct {
	// Core dependencies
	Config  *config.Config
	API     *api.Client
	Reports *storage.ReportStore
	Creds   *config.CredentialStore
	Cache   *Cache

	// Session
	User *api.User

	// Current checkup. CheckupID 0 is the new-checkup placeholder: the
	// user is composing a URL and nothing has been submitted yet.
	CheckupID    int64
	URL          string
	Steps        []Step
	AllCompleted bool

	// Poller state
	Polling    bool
	PollState  PollState
	PollFailed bool

	// Sidebar data
	Checkups []api.Checkup

	// Chat state for the open check. ActiveStep indexes Steps; -1 when
	// no check's chat is open.
	Transcript *Transcript
	ActiveStep int

	stream *chatStream

	// Compose box
	Staged *Attachment

	Quitting bool

	// Application metadata
	Version string
	License string
}

// chatStream is one in-flight streaming send. The goroutine pushing
// into ch is the only writer; cancel stops it consuming further chunks.
type chatStream struct {
	chatID int64
	ch     chan streamEvent
	cancel context.CancelFunc
}

type streamEvent struct {
	chunk string
	done  bool
	err   error
}

// NewModel creates a new Model with the given dependencies.
func NewModel(cfg *config.Config, client *api.Client, reports *storage.ReportStore, creds *config.CredentialStore, version, license string) *Model {
	return &Model{
		Config:     cfg,
		API:        client,
		Reports:    reports,
		Creds:      creds,
		Cache:      NewCache(),
		Steps:      InitialSteps(),
		Transcript: NewTranscript(),
		ActiveStep: -1,
		Version:    version,
		License:    license,
	}
}

// ActiveStepRef returns the step whose chat is open, or nil.
func (m *Model) ActiveStepRef() *Step {
	if m.ActiveStep < 0 || m.ActiveStep >= len(m.Steps) {
		return nil
	}
	return &m.Steps[m.ActiveStep]
}

// StreamChatID returns the chat id of the in-flight stream, 0 when idle.
func (m *Model) StreamChatID() int64 {
	if m.stream == nil {
		return 0
	}
	return m.stream.chatID
}

// CancelStream stops the in-flight stream, if any. No further state
// updates from it are applied: its messages carry a chat id that no
// longer matches and are dropped by the UI.
func (m *Model) CancelStream() {
	if m.stream == nil {
		return
	}
	m.stream.cancel()
	m.stream = nil
}

// ResetCheckup switches the model to a fresh new-checkup view.
func (m *Model) ResetCheckup() {
	m.CancelStream()
	m.CheckupID = 0
	m.URL = ""
	m.Steps = InitialSteps()
	m.AllCompleted = false
	m.Polling = false
	m.PollFailed = false
	m.PollState.Reset()
	m.Transcript.Reset()
	m.ActiveStep = -1
	m.Staged = nil
}

// ReportAvailable reports whether the PDF report can be offered: the
// checkup is real (not the new-checkup placeholder) and every check has
// reached a terminal state.
func (m *Model) ReportAvailable() bool {
	return m.CheckupID != 0 && m.AllCompleted
}
