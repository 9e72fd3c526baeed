package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
	"github.com/Dosada05/gameet/storage"
	"golang.org/x/sync/errgroup"
)


type GameService interface {
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	GetByID(ctx context.Context, id int) (*models.Game, error)
	Create(ctx context.Context, actor models.Actor, input CreateGameInput) (*models.Game, error)
	CreateWithUploads(ctx context.Context, actor models.Actor, input CreateGameInput, uploads GameUploads) (*models.Game, error)
	Update(ctx context.Context, actor models.Actor, id int, input UpdateGameInput) (*models.Game, error)
	Delete(ctx context.Context, actor models.Actor, id int) error
	UpdatePhoto(ctx context.Context, actor models.Actor, id int, slot models.PhotoSlot, upload *Upload) (*models.Game, error)
}

type CreateGameInput struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Studio      *string    `json:"studio" validate:"omitempty,max=255"`
	Publisher   *string    `json:"publisher" validate:"omitempty,max=255"`
	Platforms   []string   `json:"platforms"`
	ReleaseDate *time.Time `json:"release_date"`
	Description *string    `json:"description"`
	BannerID    *int       `json:"banner_id"`
	LogoID      *int       `json:"logo_id"`
	GridID      *int       `json:"grid_id"`
}

type UpdateGameInput struct {
	Name        *string    `json:"name" validate:"omitempty,max=255"`
	Studio      *string    `json:"studio" validate:"omitempty,max=255"`
	Publisher   *string    `json:"publisher" validate:"omitempty,max=255"`
	Platforms   *[]string  `json:"platforms"`
	ReleaseDate *time.Time `json:"release_date"`
	Description *string    `json:"description"`
	BannerID    *int       `json:"banner_id"`
	LogoID      *int       `json:"logo_id"`
	GridID      *int       `json:"grid_id"`
	IsApproved  *bool      `json:"is_approved"`
}

// GameUploads holds the three images required by CreateWithUploads.
type GameUploads map[models.PhotoSlot]*Upload

type gameService struct {
	tx     repositories.Transactor
	games  repositories.GameRepository
	tags   repositories.TagRepository
	photos repositories.PhotoRepository
	files  *photoFiles
}

func NewGameService(
	tx repositories.Transactor,
	games repositories.GameRepository,
	tags repositories.TagRepository,
	photos repositories.PhotoRepository,
	store storage.FileStore,
	defaultAvatar string,
	logger *slog.Logger,
) GameService {
	return &gameService{
		tx:     tx,
		games:  games,
		tags:   tags,
		photos: photos,
		files:  newPhotoFiles(store, photos, defaultAvatar, logger),
	}
}

func (s *gameService) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	games, err := s.games.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *gameService) getGame(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return game, nil
}

// GetByID loads the game with its tags and slot photos.
func (s *gameService) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.getGame(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tags, err := s.tags.ListByGame(gctx, id)
		game.Tags = tags
		return err
	})
	slotPhotos := make([]*models.Photo, len(models.PhotoSlots))
	for i, slot := range models.PhotoSlots {
		photoID := game.SlotID(slot)
		if photoID == nil {
			continue
		}
		i := i
		g.Go(func() error {
			photo, err := s.photos.GetByID(gctx, *photoID)
			if errors.Is(err, repositories.ErrPhotoNotFound) {
				return nil
			}
			slotPhotos[i] = photo
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load game %d details: %w", id, err)
	}
	game.Banner, game.Logo, game.Grid = slotPhotos[0], slotPhotos[1], slotPhotos[2]
	return game, nil
}

func validateGameName(v validator, name string) {
	v.check(name != "", "name", "must be provided")
}

func (s *gameService) newGame(actor models.Actor, input CreateGameInput) (*models.Game, error) {
	name := strings.TrimSpace(input.Name)
	v := validator{}
	v.checkStruct(input)
	validateGameName(v, name)
	if err := v.err(); err != nil {
		return nil, err
	}
	return &models.Game{
		Name:        name,
		Studio:      trimOptional(input.Studio),
		Publisher:   trimOptional(input.Publisher),
		Platforms:   input.Platforms,
		ReleaseDate: input.ReleaseDate,
		Description: trimOptional(input.Description),
		BannerID:    input.BannerID,
		LogoID:      input.LogoID,
		GridID:      input.GridID,
		IsApproved:  actor.IsAdmin,
	}, nil
}

func mapGameRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrGamePhotoInvalid):
		return fieldError("photo", "references an unknown photo")
	}
	return nil
}

// Create inserts a game from existing photo ids. Games proposed by non-admins start unapproved.
func (s *gameService) Create(ctx context.Context, actor models.Actor, input CreateGameInput) (*models.Game, error) {
	game, err := s.newGame(actor, input)
	if err != nil {
		return nil, err
	}
	if err := s.games.Create(ctx, nil, game); err != nil {
		if mapped := mapGameRepoError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

// CreateWithUploads stores the banner, logo and grid files then inserts their photo rows and the
// game in one transaction. Stored files are removed when anything fails.
func (s *gameService) CreateWithUploads(ctx context.Context, actor models.Actor, input CreateGameInput, uploads GameUploads) (*models.Game, error) {
	v := validator{}
	for _, slot := range models.PhotoSlots {
		v.check(uploads[slot] != nil, string(slot), "file is required")
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	game, err := s.newGame(actor, input)
	if err != nil {
		return nil, err
	}

	keys := make(map[models.PhotoSlot]string, len(models.PhotoSlots))
	cleanup := func() {
		for _, key := range keys {
			s.files.remove(ctx, key)
		}
	}
	for _, slot := range models.PhotoSlots {
		key, err := s.files.save(ctx, uploads[slot])
		if err != nil {
			cleanup()
			return nil, err
		}
		keys[slot] = key
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, slot := range models.PhotoSlots {
			photo, err := s.files.createRow(ctx, exec, keys[slot])
			if err != nil {
				return err
			}
			game.SetSlotID(slot, &photo.ID)
		}
		return s.games.Create(ctx, exec, game)
	})
	if err != nil {
		cleanup()
		if mapped := mapGameRepoError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create game with uploads: %w", err)
	}
	return s.GetByID(ctx, game.ID)
}

func (s *gameService) loadForAdmin(ctx context.Context, actor models.Actor, id int) (*models.Game, error) {
	if err := Authorize(actor, adminResource(ResourceGame), ActionManage); err != nil {
		return nil, err
	}
	return s.getGame(ctx, id)
}

func (s *gameService) Update(ctx context.Context, actor models.Actor, id int, input UpdateGameInput) (*models.Game, error) {
	game, err := s.loadForAdmin(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	previous := *game

	v := validator{}
	v.checkStruct(input)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validateGameName(v, name)
		game.Name = name
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	if input.Studio != nil {
		game.Studio = trimOptional(input.Studio)
	}
	if input.Publisher != nil {
		game.Publisher = trimOptional(input.Publisher)
	}
	if input.Platforms != nil {
		game.Platforms = *input.Platforms
	}
	if input.ReleaseDate != nil {
		game.ReleaseDate = input.ReleaseDate
	}
	if input.Description != nil {
		game.Description = trimOptional(input.Description)
	}
	if input.BannerID != nil {
		game.BannerID = input.BannerID
	}
	if input.LogoID != nil {
		game.LogoID = input.LogoID
	}
	if input.GridID != nil {
		game.GridID = input.GridID
	}
	if input.IsApproved != nil {
		game.IsApproved = *input.IsApproved
	}

	if err := s.games.Update(ctx, nil, game); err != nil {
		if mapped := mapGameRepoError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update game %d: %w", id, err)
	}

	for _, slot := range models.PhotoSlots {
		if old, cur := previous.SlotID(slot), game.SlotID(slot); old != nil && (cur == nil || *cur != *old) {
			s.files.release(ctx, old)
		}
	}
	return s.GetByID(ctx, id)
}

func (s *gameService) Delete(ctx context.Context, actor models.Actor, id int) error {
	game, err := s.loadForAdmin(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.games.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	for _, slot := range models.PhotoSlots {
		s.files.release(ctx, game.SlotID(slot))
	}
	return nil
}

// UpdatePhoto replaces the image of one slot. The previous photo is released best-effort.
func (s *gameService) UpdatePhoto(ctx context.Context, actor models.Actor, id int, slot models.PhotoSlot, upload *Upload) (*models.Game, error) {
	if _, err := models.ParsePhotoSlot(string(slot)); err != nil {
		return nil, ErrInvalidPhotoSlot
	}
	game, err := s.loadForAdmin(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	oldID := game.SlotID(slot)

	key, err := s.files.save(ctx, upload)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		photo, err := s.files.createRow(ctx, exec, key)
		if err != nil {
			return err
		}
		game.SetSlotID(slot, &photo.ID)
		return s.games.Update(ctx, exec, game)
	})
	if err != nil {
		s.files.remove(ctx, key)
		if mapped := mapGameRepoError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update %s of game %d: %w", slot, id, err)
	}

	s.files.release(ctx, oldID)
	return s.GetByID(ctx, id)
}
