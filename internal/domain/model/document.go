package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentFailed     DocumentStatus = "failed"
	// DocumentProcessed is a legacy alias some backends still emit.
	DocumentProcessed DocumentStatus = "processed"
)

// Ready reports whether the backend has finished indexing the document.
func (s DocumentStatus) Ready() bool {
	return s == DocumentCompleted || s == DocumentProcessed
}

// Document is an uploaded file whose indexing lifecycle is driven entirely
// by the backend; the client only polls status.
type Document struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	MimeType   string         `json:"mimeType"`
	Size       int64          `json:"size"`
	Status     DocumentStatus `json:"status"`
	PageCount  int            `json:"pageCount,omitempty"`
	UploadedAt time.Time      `json:"uploadedAt"`
}

// MaxUploadSize is the client-side upload ceiling. Rejections happen before
// any bytes go over the wire.
const MaxUploadSize int64 = 50 << 20

var allowedUploadExts = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ValidateUpload checks name and size against the allow-list and returns the
// MIME type to send. Errors here are validation errors and never reach the server.
func ValidateUpload(name string, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mime, ok := allowedUploadExts[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
	if size <= 0 {
		return "", fmt.Errorf("file %q is empty", name)
	}
	if size > MaxUploadSize {
		return "", fmt.Errorf("file %q exceeds %d MB limit", name, MaxUploadSize>>20)
	}
	return mime, nil
}
