package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
	"github.com/Dosada05/gameet/storage"
)

type PhotoService interface {
	Upload(ctx context.Context, actor models.Actor, upload *Upload) (*models.Photo, error)
	GetByID(ctx context.Context, id int) (*models.Photo, error)
	Open(ctx context.Context, id int) (*models.Photo, *storage.Object, error)
	Replace(ctx context.Context, actor models.Actor, id int, upload *Upload) (*models.Photo, error)
	Delete(ctx context.Context, actor models.Actor, id int) error
}

type photoService struct {
	photos repositories.PhotoRepository
	files  *photoFiles
}

func NewPhotoService(photos repositories.PhotoRepository, store storage.FileStore, defaultAvatar string, logger *slog.Logger) PhotoService {
	return &photoService{photos: photos, files: newPhotoFiles(store, photos, defaultAvatar, logger)}
}

func (s *photoService) Upload(ctx context.Context, actor models.Actor, upload *Upload) (*models.Photo, error) {
	if actor.ID <= 0 {
		return nil, ErrForbidden
	}
	key, err := s.files.save(ctx, upload)
	if err != nil {
		return nil, err
	}
	photo, err := s.files.createRow(ctx, nil, key)
	if err != nil {
		s.files.remove(ctx, key)
		return nil, err
	}
	return photo, nil
}

func (s *photoService) GetByID(ctx context.Context, id int) (*models.Photo, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to get photo %d: %w", id, err)
	}
	return photo, nil
}

// Open returns the photo row and its stored file. The caller closes the object body.
func (s *photoService) Open(ctx context.Context, id int) (*models.Photo, *storage.Object, error) {
	photo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.files.store.Open(ctx, photo.URL)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, nil, ErrPhotoNotFound
		}
		return nil, nil, fmt.Errorf("failed to open photo %d: %w", id, err)
	}
	return photo, obj, nil
}

func (s *photoService) loadForAdmin(ctx context.Context, actor models.Actor, id int) (*models.Photo, error) {
	if err := Authorize(actor, adminResource(ResourcePhoto), ActionManage); err != nil {
		return nil, err
	}
	photo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo.URL == s.files.defaultAvatar {
		return nil, ErrDefaultPhotoLocked
	}
	return photo, nil
}

// Replace swaps the file behind a photo while keeping its id.
func (s *photoService) Replace(ctx context.Context, actor models.Actor, id int, upload *Upload) (*models.Photo, error) {
	photo, err := s.loadForAdmin(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	key, err := s.files.save(ctx, upload)
	if err != nil {
		return nil, err
	}
	if err := s.photos.UpdateURL(ctx, id, key); err != nil {
		s.files.remove(ctx, key)
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to update photo %d: %w", id, err)
	}
	s.files.remove(ctx, photo.URL)
	return s.GetByID(ctx, id)
}

// Delete removes an unreferenced photo and its file.
func (s *photoService) Delete(ctx context.Context, actor models.Actor, id int) error {
	if _, err := s.loadForAdmin(ctx, actor, id); err != nil {
		return err
	}
	url, deleted, err := s.photos.DeleteIfUnreferenced(ctx, id, s.files.defaultAvatar)
	if err != nil {
		return fmt.Errorf("failed to delete photo %d: %w", id, err)
	}
	if !deleted {
		return ErrPhotoInUse
	}
	s.files.remove(ctx, url)
	return nil
}
