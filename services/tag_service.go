package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
)


type TagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	ListByGame(ctx context.Context, gameID int) ([]models.Tag, error)
	AddToGame(ctx context.Context, actor models.Actor, gameID int, input AddTagInput) (*models.Tag, error)
	RemoveFromGame(ctx context.Context, actor models.Actor, gameID, tagID int) error
}

type AddTagInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

type tagService struct {
	tags  repositories.TagRepository
	games repositories.GameRepository
}

func NewTagService(tags repositories.TagRepository, games repositories.GameRepository) TagService {
	return &tagService{tags: tags, games: games}
}

func (s *tagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *tagService) ensureGame(ctx context.Context, gameID int) error {
	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to get game %d: %w", gameID, err)
	}
	return nil
}

func (s *tagService) ListByGame(ctx context.Context, gameID int) ([]models.Tag, error) {
	if err := s.ensureGame(ctx, gameID); err != nil {
		return nil, err
	}
	tags, err := s.tags.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of game %d: %w", gameID, err)
	}
	return tags, nil
}

// AddToGame attaches the tag named input.Name to the game, creating the tag when needed.
// Attaching an already attached tag succeeds without change.
func (s *tagService) AddToGame(ctx context.Context, actor models.Actor, gameID int, input AddTagInput) (*models.Tag, error) {
	if err := Authorize(actor, adminResource(ResourceTag), ActionManage); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	v := validator{}
	v.checkStruct(input)
	v.check(name != "", "name", "must be provided")
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.ensureGame(ctx, gameID); err != nil {
		return nil, err
	}

	tag, err := s.tags.Upsert(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to save tag: %w", err)
	}
	if err := s.tags.AttachToGame(ctx, gameID, tag.ID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrGameTagGameInvalid):
			return nil, ErrGameNotFound
		case errors.Is(err, repositories.ErrTagNotFound):
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to attach tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) RemoveFromGame(ctx context.Context, actor models.Actor, gameID, tagID int) error {
	if err := Authorize(actor, adminResource(ResourceTag), ActionManage); err != nil {
		return err
	}
	if err := s.tags.DetachFromGame(ctx, gameID, tagID); err != nil {
		if errors.Is(err, repositories.ErrGameTagNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to detach tag %d from game %d: %w", tagID, gameID, err)
	}
	return nil
}
