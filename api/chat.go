package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"sitecheck/config"
)

// MessageHistory returns the chat's persisted messages oldest-first.
// The backend serves them newest-first; the transcript wants send order,
// so the sequence is reversed here, at the boundary.
func (c *Client) MessageHistory(ctx context.Context, checkupID, checkID, chatID int64) ([]Message, error) {
	var messages []Message
	path := fmt.Sprintf("/checkups/%d/checks/%d/chats/%d/messages", checkupID, checkID, chatID)
	if err := c.getJSON(ctx, "Get messages", path, &messages); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ClearChat deletes the chat's message history.
func (c *Client) ClearChat(ctx context.Context, checkupID, checkID, chatID int64) error {
	path := fmt.Sprintf("/checkups/%d/checks/%d/chats/%d/messages", checkupID, checkID, chatID)
	return c.deleteJSON(ctx, "Clear chat history", path, nil)
}

// SendMessage posts a question (plus at most one attachment) and consumes
// the streamed text reply, invoking onChunk for every fragment as it
// arrives. The full reply is the concatenation of all chunks, in order.
//
// A non-200/201 status yields a StreamError with StreamRejected and no
// chunk is ever delivered. A transport error after bytes have flowed is
// classified: teardown noise on an otherwise-complete stream comes back
// as StreamNoise, anything else as StreamAborted with the partial reply
// already delivered through onChunk.
func (c *Client) SendMessage(ctx context.Context, checkupID, checkID, chatID int64, question string, att *Attachment, onChunk func(chunk string) error) error {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	if err := form.WriteField("question", question); err != nil {
		return &StreamError{Reason: StreamRejected, Err: err}
	}
	if err := form.WriteField("use_stream", "true"); err != nil {
		return &StreamError{Reason: StreamRejected, Err: err}
	}
	if att != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, att.Name))
		if att.MIMEType != "" {
			header.Set("Content-Type", att.MIMEType)
		}
		part, err := form.CreatePart(header)
		if err != nil {
			return &StreamError{Reason: StreamRejected, Err: err}
		}
		if _, err := part.Write(att.Data); err != nil {
			return &StreamError{Reason: StreamRejected, Err: err}
		}
	}
	if err := form.Close(); err != nil {
		return &StreamError{Reason: StreamRejected, Err: err}
	}

	path := fmt.Sprintf("%s/checkups/%d/checks/%d/chats/%d/messages", c.baseURL, checkupID, checkID, chatID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, body)
	if err != nil {
		return &StreamError{Reason: StreamRejected, Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Cache-Control", "no-cache")

	if config.DebugLog != nil {
		config.DebugLog.Printf("[api] Send message POST %s (attachment: %v)", req.URL.Path, att != nil)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &StreamError{Reason: StreamRejected, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		rejected := &StreamError{Reason: StreamRejected, Status: resp.StatusCode}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			rejected.Err = ErrUnauthorized
		case http.StatusForbidden:
			rejected.Err = ErrForbidden
		}
		return rejected
	}

	// Single forward pass over the body. Chunks are handed on as raw
	// text fragments; concatenation reconstructs the reply exactly.
	buf := make([]byte, 4096)
	received := 0
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			received += n
			if err := onChunk(string(buf[:n])); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			reason := classifyStreamErr(readErr, received)
			if config.DebugLog != nil {
				config.DebugLog.Printf("[api] stream error after %d bytes (reason=%d): %v", received, reason, readErr)
			}
			return &StreamError{Reason: reason, Err: readErr}
		}
	}
}
