package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dosada05/gameet/metrics"
	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
	"github.com/Dosada05/gameet/storage"
)

// MaxUploadSize is the largest accepted image, in bytes.
const MaxUploadSize = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is an image received from a client.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// photoFiles couples photo rows with the files behind them. Shared by every service that stores images.
type photoFiles struct {
	store         storage.FileStore
	photos        repositories.PhotoRepository
	defaultAvatar string
	logger        *slog.Logger
	now           func() time.Time
}

func newPhotoFiles(store storage.FileStore, photos repositories.PhotoRepository, defaultAvatar string, logger *slog.Logger) *photoFiles {
	if logger == nil {
		logger = slog.Default()
	}
	return &photoFiles{store: store, photos: photos, defaultAvatar: defaultAvatar, logger: logger, now: time.Now}
}

// sniff detects the image type from the first bytes and returns a reader replaying them.
func sniff(body io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", nil, ErrFileRequired
	}
	contentType := http.DetectContentType(head)
	return contentType, io.MultiReader(bytes.NewReader(head), body), nil
}

// save validates up and writes it to the store under a fresh key.
func (f *photoFiles) save(ctx context.Context, up *Upload) (string, error) {
	if up == nil || up.Body == nil {
		return "", ErrFileRequired
	}
	if up.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	contentType, body, err := sniff(up.Body)
	if err != nil {
		return "", err
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedFileType
	}

	name := up.Filename
	if storage.ContentTypeFor(name) != contentType {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}
	key := storage.NewKey(name, f.now())

	res, err := f.store.Save(ctx, key, contentType, io.LimitReader(body, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if res.Size > MaxUploadSize {
		f.remove(ctx, key)
		return "", ErrFileTooLarge
	}
	metrics.RecordUpload(res.Size)
	return key, nil
}

// createRow inserts the photo row for an already stored key.
func (f *photoFiles) createRow(ctx context.Context, exec repositories.SQLExecutor, key string) (*models.Photo, error) {
	photo := &models.Photo{URL: key}
	if err := f.photos.Create(ctx, exec, photo); err != nil {
		return nil, fmt.Errorf("failed to create photo row: %w", err)
	}
	return photo, nil
}

// remove deletes a stored file. Failures are logged, never returned.
func (f *photoFiles) remove(ctx context.Context, key string) {
	if key == "" || key == f.defaultAvatar {
		return
	}
	err := f.store.Delete(context.WithoutCancel(ctx), key)
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		f.logger.Warn("failed to delete stored file", slog.String("key", key), slog.Any("error", err))
	}
}

// release deletes the photo and its file when nothing references it any more.
func (f *photoFiles) release(ctx context.Context, id *int) {
	if id == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	url, deleted, err := f.photos.DeleteIfUnreferenced(ctx, *id, f.defaultAvatar)
	if err != nil {
		f.logger.Warn("failed to release photo", slog.Int("photo_id", *id), slog.Any("error", err))
		return
	}
	if deleted {
		f.remove(ctx, url)
	}
}

// defaultAvatarID returns the id of the shared default avatar row, creating it if needed.
func (f *photoFiles) defaultAvatarID(ctx context.Context) (*int, error) {
	photo, err := f.photos.Ensure(ctx, f.defaultAvatar)
	if err != nil {
		return nil, err
	}
	return &photo.ID, nil
}
