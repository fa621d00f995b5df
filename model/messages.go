package model

import "sitecheck/api"

type ClaimsMsg struct {
	Claims *api.Claims
	Err    error
}

type LoginResultMsg struct {
	Email      string
	Registered bool
	Err        error
}

type LogoutMsg struct {
	Err error
}

type HealthMsg struct {
	Err error
}

type CheckupsListMsg struct {
	Checkups  []api.Checkup
	FromCache bool
	Err       error
}

type CheckupStartedMsg struct {
	Checkup *api.Checkup
	Err     error
}

// CheckupPolledMsg is one poll response. CheckupID identifies which
// checkup the fetch was for, so responses for an abandoned checkup are
// dropped instead of applied.
type CheckupPolledMsg struct {
	CheckupID int64
	Checkup   *api.Checkup
	Err       error
}

// PollTickMsg fires when the inter-poll delay elapses.
type PollTickMsg struct {
	CheckupID int64
}

// ChatHistoryMsg carries a chat's persisted messages, oldest-first.
type ChatHistoryMsg struct {
	ChatID   int64
	Messages []api.Message
	Err      error
}

// Chat stream messages carry the chat id of the stream that produced
// them; the UI drops any whose id no longer matches the active stream
// (the user navigated away while bytes were in flight).
type ChatStreamChunkMsg struct {
	ChatID int64
	Chunk  string
}

type ChatStreamDoneMsg struct {
	ChatID int64
}

type ChatStreamErrorMsg struct {
	ChatID int64
	Err    error
}

type ChatClearedMsg struct {
	ChatID int64
	Err    error
}

type MarkdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

type ReportSavedMsg struct {
	Path string
	Err  error
}
