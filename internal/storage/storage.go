// Package storage holds the durable, content-addressed stores that keep signed
// delivery-note artifacts, and the local artifact directory.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrNotAcknowledged is returned when the remote store did not confirm an upload.
	ErrNotAcknowledged = errors.New("storage: upload not acknowledged")
	// ErrObjectNotFound is returned when a reference does not resolve to stored bytes.
	ErrObjectNotFound = errors.New("storage: object not found")
)

// Store uploads bytes and returns a reference that resolves to the same bytes later.
type Store interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// ContentKey derives the object key for data: its SHA-256 digest plus the filename extension.
func ContentKey(data []byte, filename string) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + strings.ToLower(filepath.Ext(filename))
}

// ContentType guesses the MIME type from the filename extension.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
