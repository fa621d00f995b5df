package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sitecheck/api"
)

// Attachment is a file staged in the compose box. At most one may be
// staged per outgoing message; staging a new one replaces the prior one
// and sending clears it.
type Attachment struct {
	Name     string
	MIMEType string
	Path     string
	Data     []byte
}

// allowedAttachmentTypes is the advisory allow-list for outgoing files.
// The backend is the authority on rejection; this only keeps the picker
// from staging files the backend will certainly refuse.
var allowedAttachmentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// AttachmentMIMEType resolves a file's MIME type from its extension.
// Returns "" for anything outside the allow-list.
func AttachmentMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return ""
}

// StageAttachment reads a file and stages it for the next send,
// replacing any previously staged attachment.
func (m *Model) StageAttachment(path string) error {
	mimeType := AttachmentMIMEType(path)
	if !allowedAttachmentTypes[mimeType] {
		return fmt.Errorf("unsupported attachment type (PNG and JPEG only): %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read attachment: %w", err)
	}

	m.Staged = &Attachment{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Path:     path,
		Data:     data,
	}
	return nil
}

// ClearAttachment discards the staged attachment.
func (m *Model) ClearAttachment() {
	m.Staged = nil
}

// TakeAttachment hands the staged attachment to a send operation and
// releases it from the compose box.
func (m *Model) TakeAttachment() *api.Attachment {
	if m.Staged == nil {
		return nil
	}
	att := &api.Attachment{
		Name:     m.Staged.Name,
		MIMEType: m.Staged.MIMEType,
		Data:     m.Staged.Data,
	}
	m.Staged = nil
	return att
}
