package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/api"
	"sitecheck/config"
	"sitecheck/model"
)

// chatFixture builds an AppView on the main screen with one chat-capable
// step open, backed by the given test server.
func chatFixture(t *testing.T, serverURL string) (*AppView, *model.Model) {
	t.Helper()

	client, err := api.NewClient(serverURL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	m := model.NewModel(&config.Config{}, client, nil, nil, "test", "test")
	m.CheckupID = 7
	m.Steps[0].Status = model.StatusComplete
	m.Steps[0].CheckID = 11
	m.Steps[0].ChatID = 42
	m.ActiveStep = 0

	a := NewAppView(m)
	a.mode = modeMain
	a.focus = focusChat
	return a, m
}

func TestClearChatDuringStream(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("partial answer "))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	a, m := chatFixture(t, srv.URL)

	if !m.Transcript.BeginSend("why did this check fail") {
		t.Fatal("BeginSend refused a fresh question")
	}
	wait := m.StartStream("why did this check fail")
	if wait == nil {
		t.Fatal("StartStream returned no command")
	}

	first := wait()
	chunk, ok := first.(model.ChatStreamChunkMsg)
	if !ok {
		t.Fatalf("first stream message = %T, want ChatStreamChunkMsg", first)
	}
	updated, _ := a.Update(chunk)
	a = updated.(*AppView)
	if got := m.Transcript.Len(); got != 2 {
		t.Fatalf("transcript length after first chunk = %d, want 2", got)
	}

	// Clearing while the reply is streaming must stop the stream before
	// the transcript is wiped.
	updated, clearCmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	a = updated.(*AppView)
	if clearCmd == nil {
		t.Fatal("ctrl+x produced no clear command")
	}
	if got := m.StreamChatID(); got != 0 {
		t.Fatalf("stream still live after clear, chat id = %d", got)
	}
	if m.Transcript.Sending() {
		t.Fatal("send still marked in flight after clear")
	}

	cleared, ok := clearCmd().(model.ChatClearedMsg)
	if !ok || cleared.Err != nil {
		t.Fatalf("clear command result = %#v", cleared)
	}
	updated, _ = a.Update(cleared)
	a = updated.(*AppView)
	if got := m.Transcript.Len(); got != 0 {
		t.Fatalf("transcript length after clear = %d, want 0", got)
	}

	// A chunk from the cancelled stream arrives late. It must not land
	// in the cleared transcript.
	updated, _ = a.Update(model.ChatStreamChunkMsg{ChatID: 42, Chunk: "late chunk"})
	a = updated.(*AppView)
	if got := m.Transcript.Len(); got != 0 {
		t.Fatalf("stale chunk appended to cleared transcript, length = %d", got)
	}

	// The session is idle again, a new question goes through.
	if !m.Transcript.BeginSend("second question") {
		t.Fatal("BeginSend refused after clear")
	}
}
