package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/api"
	"sitecheck/config"
	"sitecheck/model"
)

// updateChat handles chat history loads and the streaming message flow.
// Every stream message carries the chat id it belongs to; messages for a
// chat other than the one currently streaming are dropped so a stale
// stream can never write into a newly opened conversation.
func (a *AppView) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case model.ChatHistoryMsg:
		return a.handleHistory(msg)

	case model.ChatStreamChunkMsg:
		if msg.ChatID != a.dataModel.StreamChatID() {
			return a, nil
		}
		a.dataModel.Transcript.AppendChunk(msg.Chunk)
		a.updateViewportContent(true)
		return a, a.dataModel.WaitForStream()

	case model.ChatStreamDoneMsg:
		if msg.ChatID != a.dataModel.StreamChatID() {
			return a, nil
		}
		idx := a.dataModel.Transcript.FinishStream()
		a.dataModel.FinishStream()
		a.updateViewportContent(true)
		if idx >= 0 {
			msgs := a.dataModel.Transcript.Messages()
			return a, a.renderMarkdownAsync(idx, msgs[idx].Content)
		}
		return a, nil

	case model.ChatStreamErrorMsg:
		if msg.ChatID != a.dataModel.StreamChatID() {
			return a, nil
		}
		return a.handleStreamError(msg)

	case model.ChatClearedMsg:
		if msg.Err != nil {
			return a, a.handleTransportError(msg.Err)
		}
		if step := a.dataModel.ActiveStepRef(); step != nil && step.ChatID == msg.ChatID {
			a.dataModel.Transcript.Reset()
			a.updateViewportContent(false)
			a.statusMsg = "Chat cleared"
		}
		return a, nil

	case model.MarkdownRenderedMsg:
		a.dataModel.Transcript.SetRendered(msg.MessageIndex, msg.Rendered)
		a.updateViewportContent(false)
		return a, nil
	}
	return a, nil
}

func (a *AppView) handleHistory(msg model.ChatHistoryMsg) (tea.Model, tea.Cmd) {
	step := a.dataModel.ActiveStepRef()
	if step == nil || step.ChatID != msg.ChatID {
		return a, nil
	}
	if msg.Err != nil {
		return a, a.handleTransportError(msg.Err)
	}
	a.dataModel.Transcript.LoadHistory(msg.Messages)
	a.updateViewportContent(false)

	// Pretty-print the loaded assistant replies in the background.
	var cmds []tea.Cmd
	for i, m := range a.dataModel.Transcript.Messages() {
		if m.Sender == model.SenderAssistant {
			cmds = append(cmds, a.renderMarkdownAsync(i, m.Content))
		}
	}
	return a, tea.Batch(cmds...)
}

func (a *AppView) handleStreamError(msg model.ChatStreamErrorMsg) (tea.Model, tea.Cmd) {
	a.dataModel.FinishStream()

	var streamErr *api.StreamError
	if errors.As(msg.Err, &streamErr) {
		switch streamErr.Reason {
		case api.StreamNoise:
			// The answer arrived, the connection just died on teardown.
			idx := a.dataModel.Transcript.DropStream()
			a.updateViewportContent(true)
			if idx >= 0 {
				msgs := a.dataModel.Transcript.Messages()
				return a, a.renderMarkdownAsync(idx, msgs[idx].Content)
			}
			return a, nil

		case api.StreamRejected:
			if errors.Is(streamErr, api.ErrUnauthorized) {
				a.toLogin("")
				return a, nil
			}
			if config.DebugLog != nil {
				config.DebugLog.Printf("send rejected: %v", streamErr)
			}
			a.dataModel.Transcript.FailSend()
			a.updateViewportContent(true)
			return a, nil
		}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("stream aborted: %v", msg.Err)
	}
	a.dataModel.Transcript.AbortStream("Error: Response interrupted")
	a.updateViewportContent(true)
	return a, nil
}
