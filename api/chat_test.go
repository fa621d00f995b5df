package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
)

func TestSendMessageStreamsAllBytes(t *testing.T) {
	fragments := []string{"The site ", "uses an ", "outdated ", "jQuery version."}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.FormValue("question"); got != "what did you find?" {
			t.Errorf("question = %q", got)
		}
		if got := r.FormValue("use_stream"); got != "true" {
			t.Errorf("use_stream = %q, want true", got)
		}

		flusher := w.(http.Flusher)
		for _, f := range fragments {
			w.Write([]byte(f))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	var received strings.Builder
	chunks := 0
	err = client.SendMessage(context.Background(), 1, 2, 3, "what did you find?", nil,
		func(chunk string) error {
			received.WriteString(chunk)
			chunks++
			return nil
		})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	want := strings.Join(fragments, "")
	if received.String() != want {
		t.Errorf("concatenated chunks = %q, want %q", received.String(), want)
	}
	if chunks == 0 {
		t.Error("onChunk never invoked")
	}
}

func TestSendMessageAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "shot.png" {
			t.Errorf("filename = %q, want shot.png", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %q, want image/png", ct)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)
	att := &Attachment{Name: "shot.png", MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	err := client.SendMessage(context.Background(), 1, 2, 3, "see screenshot", att,
		func(string) error { return nil })
	if err != nil {
		t.Fatalf("SendMessage with attachment: %v", err)
	}
}

func TestSendMessageRejected(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"server error", http.StatusInternalServerError, nil},
		{"session expired", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client, _ := NewClient(srv.URL)
			delivered := false
			err := client.SendMessage(context.Background(), 1, 2, 3, "q", nil,
				func(string) error { delivered = true; return nil })

			var streamErr *StreamError
			if !errors.As(err, &streamErr) {
				t.Fatalf("error = %v, want *StreamError", err)
			}
			if streamErr.Reason != StreamRejected {
				t.Errorf("Reason = %v, want StreamRejected", streamErr.Reason)
			}
			if delivered {
				t.Error("onChunk invoked for a rejected send")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", err)
			}
		})
	}
}

func TestMessageHistoryReversed(t *testing.T) {
	// The backend serves newest-first; the client's contract is
	// oldest-first.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkups/1/checks/2/chats/3/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[
			{"message_id":3,"sender_type":"assistant","content":"third"},
			{"message_id":2,"sender_type":"user","content":"second"},
			{"message_id":1,"sender_type":"user","content":"first"}
		]`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)
	msgs, err := client.MessageHistory(context.Background(), 1, 2, 3)
	if err != nil {
		t.Fatalf("MessageHistory: %v", err)
	}

	wantOrder := []string{"first", "second", "third"}
	if len(msgs) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(msgs), len(wantOrder))
	}
	for i, want := range wantOrder {
		if msgs[i].Content != want {
			t.Errorf("msgs[%d].Content = %q, want %q", i, msgs[i].Content, want)
		}
	}
}

func TestClassifyStreamErr(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		bytesReceived int
		want          StreamReason
	}{
		{"closed conn before any bytes", net.ErrClosed, 0, StreamAborted},
		{"closed conn after bytes", net.ErrClosed, 128, StreamNoise},
		{"wrapped reset after bytes", fmt.Errorf("read: %w", syscall.ECONNRESET), 64, StreamNoise},
		{"unexpected eof after bytes", io.ErrUnexpectedEOF, 64, StreamNoise},
		{"real failure after bytes", errors.New("tls: bad record MAC"), 128, StreamAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStreamErr(tt.err, tt.bytesReceived); got != tt.want {
				t.Errorf("classifyStreamErr() = %v, want %v", got, tt.want)
			}
		})
	}
}
