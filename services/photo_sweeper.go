package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/gameet/metrics"
	"github.com/Dosada05/gameet/repositories"
	"github.com/Dosada05/gameet/storage"
	"github.com/robfig/cron/v3"
)

const sweepBatchSize = 100

// PhotoSweeper periodically removes photos nothing references, such as uploads never
// attached to a user, game, event or review, or images left behind by a failed release.
type PhotoSweeper struct {
	photos repositories.PhotoRepository
	files  *photoFiles
	grace  time.Duration
	logger *slog.Logger
	cron   *cron.Cron
}

func NewPhotoSweeper(photos repositories.PhotoRepository, store storage.FileStore, defaultAvatar string, grace time.Duration, logger *slog.Logger) *PhotoSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoSweeper{
		photos: photos,
		files:  newPhotoFiles(store, photos, defaultAvatar, logger),
		grace:  grace,
		logger: logger,
	}
}

// Sweep deletes orphan photos older than the grace period and returns how many were removed.
func (s *PhotoSweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.files.now().Add(-s.grace)
	deleted, failed := 0, 0

	for {
		orphans, err := s.photos.ListOrphans(ctx, cutoff, s.files.defaultAvatar, sweepBatchSize)
		if err != nil {
			metrics.RecordPhotoSweep(deleted, failed)
			return deleted, fmt.Errorf("failed to list orphan photos: %w", err)
		}

		progressed := false
		for _, photo := range orphans {
			url, ok, err := s.photos.DeleteIfUnreferenced(ctx, photo.ID, s.files.defaultAvatar)
			if err != nil {
				failed++
				s.logger.Warn("photo sweep: delete failed", slog.Int("photo_id", photo.ID), slog.Any("error", err))
				continue
			}
			if ok {
				deleted++
				progressed = true
				s.files.remove(ctx, url)
			}
		}

		if len(orphans) < sweepBatchSize || !progressed {
			break
		}
	}

	metrics.RecordPhotoSweep(deleted, failed)
	return deleted, nil
}

// Start schedules Sweep with a cron spec such as "@every 1h".
func (s *PhotoSweeper) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		n, err := s.Sweep(ctx)
		if err != nil {
			s.logger.Error("photo sweep failed", slog.Any("error", err))
			return
		}
		s.logger.Info("photo sweep completed", slog.Int("deleted", n))
	})
	if err != nil {
		return fmt.Errorf("invalid photo sweep schedule %q: %w", spec, err)
	}
	s.cron = c
	c.Start()
	return nil
}

// Stop waits for a running sweep to finish.
func (s *PhotoSweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
