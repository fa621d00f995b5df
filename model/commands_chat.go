package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/config"
)

// streamTimeout bounds one whole streamed reply.
const streamTimeout = 120 * time.Second

// LoadChatHistory fetches the active check's persisted messages.
func (m *Model) LoadChatHistory() tea.Cmd {
	step := m.ActiveStepRef()
	if step == nil || !step.HasChat() {
		return nil
	}

	client := m.API
	checkupID := m.CheckupID
	checkID := step.CheckID
	chatID := step.ChatID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		messages, err := client.MessageHistory(ctx, checkupID, checkID, chatID)
		return ChatHistoryMsg{ChatID: chatID, Messages: messages, Err: err}
	}
}

// ClearChatHistory deletes the active chat's messages on the backend.
func (m *Model) ClearChatHistory() tea.Cmd {
	step := m.ActiveStepRef()
	if step == nil || !step.HasChat() {
		return nil
	}

	client := m.API
	checkupID := m.CheckupID
	checkID := step.CheckID
	chatID := step.ChatID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return ChatClearedMsg{ChatID: chatID, Err: client.ClearChat(ctx, checkupID, checkID, chatID)}
	}
}

// StartStream issues the streaming send for a question the transcript
// has already accepted via BeginSend. The staged attachment, if any, is
// consumed. Chunks flow back into the Update loop as ChatStreamChunkMsg;
// exactly one ChatStreamDoneMsg or ChatStreamErrorMsg follows.
func (m *Model) StartStream(question string) tea.Cmd {
	step := m.ActiveStepRef()
	if step == nil || !step.HasChat() {
		return nil
	}

	client := m.API
	checkupID := m.CheckupID
	checkID := step.CheckID
	chatID := step.ChatID
	att := m.TakeAttachment()

	ctx, cancel := context.WithTimeout(context.Background(), streamTimeout)
	ch := make(chan streamEvent, 16)
	m.stream = &chatStream{chatID: chatID, ch: ch, cancel: cancel}

	go func() {
		defer close(ch)
		defer cancel()

		err := client.SendMessage(ctx, checkupID, checkID, chatID, question, att, func(chunk string) error {
			select {
			case ch <- streamEvent{chunk: chunk}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			ch <- streamEvent{err: err}
			return
		}
		ch <- streamEvent{done: true}
	}()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[chat] stream started for chat %d (attachment: %v)", chatID, att != nil)
	}

	return m.WaitForStream()
}

// WaitForStream returns a command that delivers the next stream event.
// The Update loop re-arms it after every chunk, so each chunk arrival is
// one visible update.
func (m *Model) WaitForStream() tea.Cmd {
	stream := m.stream
	if stream == nil {
		return nil
	}

	return func() tea.Msg {
		ev, ok := <-stream.ch
		if !ok {
			return nil
		}
		switch {
		case ev.err != nil:
			return ChatStreamErrorMsg{ChatID: stream.chatID, Err: ev.err}
		case ev.done:
			return ChatStreamDoneMsg{ChatID: stream.chatID}
		default:
			return ChatStreamChunkMsg{ChatID: stream.chatID, Chunk: ev.chunk}
		}
	}
}

// FinishStream tears down the in-flight stream bookkeeping once its
// terminal message has been handled.
func (m *Model) FinishStream() {
	if m.stream == nil {
		return
	}
	m.stream.cancel()
	m.stream = nil
}
