package model

import "time"

// SenderType identifies who produced a message.
type SenderType string

const (
	SenderUser      SenderType = "user"
	SenderAssistant SenderType = "assistant"
	SenderSystem    SenderType = "system"
)

// Message is one entry in a chat transcript.
//
// MessageID values are unique and increasing in creation order within a
// session. Assistant content grows in place while its stream is in
// flight and is immutable once the stream completes; user and system
// content is set once.
type Message struct {
	MessageID  int64
	Sender     SenderType
	Content    string
	Rendered   string // Cached rendered markdown
	Incomplete bool   // Stream died before the assistant finished
	CreatedAt  time.Time
}
