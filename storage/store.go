package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound = errors.New("stored object not found")
	ErrInvalidKey     = errors.New("invalid storage key")
)

// Object is an opened stored file. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type SaveResult struct {
	Key  string
	Size int64
}

// FileStore keeps uploaded images under a flat key.
type FileStore interface {
	Save(ctx context.Context, key string, contentType string, reader io.Reader) (*SaveResult, error)
	Open(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// NewKey builds a storage key "<unix-millis>-<uuid>-<name>". The uuid keeps keys unique
// when two uploads of the same file land in the same millisecond.
func NewKey(originalName string, now time.Time) string {
	name := filepath.Base(strings.TrimSpace(originalName))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	if len(name) > 64 {
		name = name[len(name)-64:]
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString(), name)
}

// ValidateKey rejects keys that could escape a flat namespace.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// ContentTypeFor guesses an image content type from the key extension.
func ContentTypeFor(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}
