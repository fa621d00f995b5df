package model

import (
	"testing"
	"time"

	"sitecheck/api"
)

func TestTranscriptBeginSend(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     bool
	}{
		{"normal question", "why is port 22 open?", true},
		{"empty", "", false},
		{"whitespace only", "   \t  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranscript()
			got := tr.BeginSend(tt.question)
			if got != tt.want {
				t.Errorf("BeginSend(%q) = %v, want %v", tt.question, got, tt.want)
			}
			wantLen := 0
			if tt.want {
				wantLen = 1
			}
			if tr.Len() != wantLen {
				t.Errorf("Len() = %d, want %d", tr.Len(), wantLen)
			}
		})
	}
}

func TestTranscriptRefusesConcurrentSend(t *testing.T) {
	tr := NewTranscript()
	if !tr.BeginSend("first") {
		t.Fatal("first BeginSend refused")
	}
	if tr.BeginSend("second") {
		t.Error("second BeginSend accepted while first still in flight")
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}

	tr.AppendChunk("reply")
	tr.FinishStream()
	if !tr.BeginSend("second") {
		t.Error("BeginSend refused after previous send finished")
	}
}

func TestTranscriptChunkConcatenation(t *testing.T) {
	tr := NewTranscript()
	tr.BeginSend("question")

	chunks := []string{"The ", "server ", "exposes ", "three ", "open ports."}
	var want string
	for _, c := range chunks {
		tr.AppendChunk(c)
		want += c
	}
	idx := tr.FinishStream()
	if idx < 0 {
		t.Fatal("FinishStream() = -1, want streaming message index")
	}

	got := tr.Messages()[idx]
	if got.Content != want {
		t.Errorf("streamed content = %q, want %q", got.Content, want)
	}
	if got.Sender != SenderAssistant {
		t.Errorf("sender = %q, want %q", got.Sender, SenderAssistant)
	}
	if tr.StreamingIndex() != -1 {
		t.Error("StreamingIndex() != -1 after FinishStream")
	}
}

func TestTranscriptSingleMessagePerStream(t *testing.T) {
	tr := NewTranscript()
	tr.BeginSend("q")
	tr.AppendChunk("a")
	tr.AppendChunk("b")
	tr.AppendChunk("c")

	// One user message plus exactly one assistant message.
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
}

func TestTranscriptIDSeeding(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		history []api.Message
		wantID  int64
	}{
		{"fresh chat", nil, 1},
		{"history present", []api.Message{
			{MessageID: 3, SenderType: "user", Content: "q", CreatedAt: &now},
			{MessageID: 7, SenderType: "assistant", Content: "a", CreatedAt: &now},
			{MessageID: 5, SenderType: "user", Content: "q2", CreatedAt: &now},
		}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranscript()
			tr.LoadHistory(tt.history)
			tr.BeginSend("next question")
			msgs := tr.Messages()
			got := msgs[len(msgs)-1].MessageID
			if got != tt.wantID {
				t.Errorf("first new message id = %d, want %d", got, tt.wantID)
			}
		})
	}
}

func TestTranscriptFailSend(t *testing.T) {
	tr := NewTranscript()
	tr.BeginSend("q")
	tr.FailSend()

	msgs := tr.Messages()
	last := msgs[len(msgs)-1]
	if last.Sender != SenderSystem {
		t.Errorf("last sender = %q, want %q", last.Sender, SenderSystem)
	}
	if last.Content != ErrorCouldNotSend {
		t.Errorf("last content = %q, want %q", last.Content, ErrorCouldNotSend)
	}
	if tr.Sending() {
		t.Error("Sending() still true after FailSend")
	}
}

func TestTranscriptAbortStream(t *testing.T) {
	tr := NewTranscript()
	tr.BeginSend("q")
	tr.AppendChunk("partial rep")
	tr.AbortStream("Error: Response interrupted")

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Len() = %d, want 3 (user, partial assistant, system)", len(msgs))
	}
	if !msgs[1].Incomplete {
		t.Error("partial assistant message not marked incomplete")
	}
	if msgs[1].Content != "partial rep" {
		t.Errorf("partial content = %q, want %q", msgs[1].Content, "partial rep")
	}
	if msgs[2].Sender != SenderSystem {
		t.Errorf("trailing sender = %q, want %q", msgs[2].Sender, SenderSystem)
	}
}

func TestTranscriptDropStream(t *testing.T) {
	tr := NewTranscript()
	tr.BeginSend("q")
	tr.AppendChunk("full reply")
	idx := tr.DropStream()

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Len() = %d, want 2", len(msgs))
	}
	if msgs[idx].Incomplete {
		t.Error("dropped stream message marked incomplete")
	}
	if tr.Sending() {
		t.Error("Sending() still true after DropStream")
	}
}

func TestTranscriptSetRenderedStaleIndex(t *testing.T) {
	tr := NewTranscript()
	tr.BeginSend("q")
	tr.Reset()

	// Render result for a message that no longer exists must not panic.
	tr.SetRendered(0, "rendered")
	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
}
