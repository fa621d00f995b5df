package api

import (
	"encoding/json"
	"time"
)

// User is the authenticated account as the backend reports it.
type User struct {
	Email    string `json:"email"`
	UserType string `json:"userType,omitempty"`
}

// Claims is the response of GET /auth/claims.
type Claims struct {
	User User `json:"user"`
}

// LoginData is the request body for login and register.
type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Checkup is one audit run against a submitted URL.
type Checkup struct {
	CheckupID int64      `json:"checkup_id"`
	URL       string     `json:"url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Checks    []Check    `json:"checks,omitempty"`
}

// Chat identifies the assistant conversation scoped to one check.
type Chat struct {
	ChatID  int64 `json:"chat_id"`
	CheckID int64 `json:"check_id"`
}

// Check is one audit within a checkup. Status and CheckType arrive as
// backend strings; the model package maps them onto typed step states.
type Check struct {
	CheckID            int64           `json:"check_id"`
	CheckType          string          `json:"check_type"`
	Status             string          `json:"status"`
	Results            json.RawMessage `json:"results,omitempty"`
	ResultsDescription string          `json:"results_description,omitempty"`
	Chat               *Chat           `json:"chat,omitempty"`
}

// Message is a persisted chat message as returned by the history endpoint.
type Message struct {
	MessageID     int64      `json:"message_id"`
	SenderType    string     `json:"sender_type"`
	Content       string     `json:"content"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ChatID        int64      `json:"chat_id,omitempty"`
}

// Attachment is a file included with an outgoing message.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}
