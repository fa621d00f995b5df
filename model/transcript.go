package model

import (
	"strings"
	"time"

	"sitecheck/api"
	"sitecheck/config"
)

// ErrorCouldNotSend is the in-line system message shown when a send is
// rejected before any reply bytes arrive.
const ErrorCouldNotSend = "Error: Could not send message"

// Transcript is the linear message sequence of one chat session plus the
// id counter and in-flight send state. It is append-only except for the
// in-place content growth of the assistant message currently streaming.
//
// All methods run on the UI goroutine; the type carries no lock.
type Transcript struct {
	messages    []Message
	nextID      int64
	streamingID int64 // id of the assistant message growing in place; 0 when none
	sending     bool
}

func NewTranscript() *Transcript {
	return &Transcript{nextID: 1}
}

// LoadHistory replaces the transcript with persisted history (already
// oldest-first) and seeds the id counter at max(message_id)+1, or 1 when
// the history is empty.
func (t *Transcript) LoadHistory(history []api.Message) {
	t.messages = t.messages[:0]
	t.streamingID = 0
	t.sending = false

	var maxID int64
	for _, m := range history {
		msg := Message{
			MessageID: m.MessageID,
			Sender:    SenderType(m.SenderType),
			Content:   m.Content,
			Rendered:  m.Content,
		}
		if m.CreatedAt != nil {
			msg.CreatedAt = *m.CreatedAt
		}
		t.messages = append(t.messages, msg)
		if m.MessageID > maxID {
			maxID = m.MessageID
		}
	}
	t.nextID = maxID + 1
}

// Messages returns the transcript in display order.
func (t *Transcript) Messages() []Message {
	return t.messages
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Sending reports whether a send is in flight. A second send for the
// same session is refused until the current one finishes.
func (t *Transcript) Sending() bool {
	return t.sending
}

func (t *Transcript) takeID() int64 {
	id := t.nextID
	t.nextID++
	return id
}

// BeginSend validates and records an outgoing question. Empty text after
// trimming, or a send already in flight, is a no-op and returns false:
// nothing is appended and no request should be issued.
func (t *Transcript) BeginSend(question string) bool {
	if strings.TrimSpace(question) == "" {
		return false
	}
	if t.sending {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[transcript] send refused - another send in flight")
		}
		return false
	}

	t.messages = append(t.messages, Message{
		MessageID: t.takeID(),
		Sender:    SenderUser,
		Content:   question,
		Rendered:  question,
		CreatedAt: time.Now(),
	})
	t.sending = true
	return true
}

// AppendChunk folds one streamed fragment into the transcript. The first
// chunk allocates the assistant message with the next id; every later
// chunk grows that same message's content in place. Returns the index of
// the streaming message.
func (t *Transcript) AppendChunk(chunk string) int {
	if t.streamingID == 0 {
		t.messages = append(t.messages, Message{
			MessageID: t.takeID(),
			Sender:    SenderAssistant,
			Content:   chunk,
			Rendered:  chunk,
			CreatedAt: time.Now(),
		})
		t.streamingID = t.messages[len(t.messages)-1].MessageID
		return len(t.messages) - 1
	}

	idx := t.streamingIndex()
	t.messages[idx].Content += chunk
	t.messages[idx].Rendered = t.messages[idx].Content
	return idx
}

func (t *Transcript) streamingIndex() int {
	// The streaming message is always the last entry: the transcript is
	// append-only and nothing else is created while a send is in flight.
	return len(t.messages) - 1
}

// StreamingIndex returns the index of the in-flight assistant message,
// or -1 when no stream is active.
func (t *Transcript) StreamingIndex() int {
	if t.streamingID == 0 {
		return -1
	}
	return t.streamingIndex()
}

// FinishStream finalizes the in-flight assistant message. Its content is
// immutable from here on. Returns the message index, or -1 if the stream
// ended before any chunk arrived.
func (t *Transcript) FinishStream() int {
	t.sending = false
	if t.streamingID == 0 {
		return -1
	}
	idx := t.streamingIndex()
	t.streamingID = 0
	return idx
}

// FailSend records a rejected send: a system message is appended and no
// partial assistant message exists.
func (t *Transcript) FailSend() {
	t.sending = false
	t.streamingID = 0
	t.AppendSystem(ErrorCouldNotSend)
}

// AbortStream terminates a stream that died mid-flight for a real
// reason: the partial assistant message is marked incomplete and a
// system message is appended after it.
func (t *Transcript) AbortStream(note string) {
	if t.streamingID != 0 {
		t.messages[t.streamingIndex()].Incomplete = true
	}
	t.sending = false
	t.streamingID = 0
	t.AppendSystem(note)
}

// DropStream ends a stream without any visible trace. Used for the
// benign teardown-noise class: the reply already arrived in full.
func (t *Transcript) DropStream() int {
	return t.FinishStream()
}

// AppendSystem appends a system-role message.
func (t *Transcript) AppendSystem(content string) {
	t.messages = append(t.messages, Message{
		MessageID: t.takeID(),
		Sender:    SenderSystem,
		Content:   content,
		Rendered:  content,
		CreatedAt: time.Now(),
	})
}

// SetRendered stores the cached markdown rendering for a message. Stale
// indexes (the transcript was reloaded meanwhile) are ignored.
func (t *Transcript) SetRendered(index int, rendered string) {
	if index < 0 || index >= len(t.messages) {
		return
	}
	t.messages[index].Rendered = rendered
}

// Reset discards the transcript, as when the user navigates away.
func (t *Transcript) Reset() {
	t.messages = t.messages[:0]
	t.nextID = 1
	t.streamingID = 0
	t.sending = false
}
