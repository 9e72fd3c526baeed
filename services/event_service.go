package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/gameet/live"
	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
	"github.com/Dosada05/gameet/storage"
	"golang.org/x/sync/errgroup"
)


type EventService interface {
	Create(ctx context.Context, actor models.Actor, input CreateEventInput) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.EventSummary, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	Update(ctx context.Context, actor models.Actor, id int, input UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, actor models.Actor, id int) error
	Join(ctx context.Context, actor models.Actor, id int) (*models.Participant, error)
	Leave(ctx context.Context, actor models.Actor, id int) error
}

type CreateEventInput struct {
	Name          string     `json:"name" validate:"required,max=255"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Description   *string    `json:"description"`
	Location      *string    `json:"location" validate:"omitempty,max=255"`
	MaxCapacity   *int       `json:"max_capacity" validate:"omitempty,gte=1"`
	GameIDs       []int      `json:"game_id"`
	PhotoIDs      []int      `json:"photo_id"`
}

type UpdateEventInput struct {
	Name          *string    `json:"name" validate:"omitempty,max=255"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Description   *string    `json:"description"`
	Location      *string    `json:"location" validate:"omitempty,max=255"`
	MaxCapacity   *int       `json:"max_capacity" validate:"omitempty,gte=1"`
	GameIDs       *[]int     `json:"game_id"`
	PhotoIDs      *[]int     `json:"photo_id"`
}

type eventService struct {
	tx           repositories.Transactor
	events       repositories.EventRepository
	participants repositories.ParticipantRepository
	reviews      repositories.ReviewRepository
	files        *photoFiles
	hub          Broadcaster
	now          func() time.Time
}

func NewEventService(
	tx repositories.Transactor,
	events repositories.EventRepository,
	participants repositories.ParticipantRepository,
	reviews repositories.ReviewRepository,
	photos repositories.PhotoRepository,
	store storage.FileStore,
	defaultAvatar string,
	hub Broadcaster,
	logger *slog.Logger,
) EventService {
	return &eventService{
		tx:           tx,
		events:       events,
		participants: participants,
		reviews:      reviews,
		files:        newPhotoFiles(store, photos, defaultAvatar, logger),
		hub:          hub,
		now:          time.Now,
	}
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// mapEventRepoError translates known repository errors and returns nil for unexpected ones.
func mapEventRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrEventGameInvalid):
		return fieldError("game_id", "references an unknown game")
	case errors.Is(err, repositories.ErrEventPhotoInvalid):
		return fieldError("photo_id", "references an unknown photo")
	case errors.Is(err, repositories.ErrEventAuthorInvalid):
		return ErrUserNotFound
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, actor models.Actor, input CreateEventInput) (*models.Event, error) {
	name := strings.TrimSpace(input.Name)

	v := validator{}
	v.checkStruct(input)
	v.check(name != "", "name", "must be provided")
	v.check(input.ScheduledDate != nil, "scheduled_date", "must be provided")
	if input.ScheduledDate != nil {
		v.check(input.ScheduledDate.After(s.now()), "scheduled_date", "must be in the future")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:          name,
		ScheduledDate: *input.ScheduledDate,
		Description:   trimOptional(input.Description),
		Location:      trimOptional(input.Location),
		MaxCapacity:   input.MaxCapacity,
		AuthorID:      actor.ID,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.events.Create(ctx, exec, event); err != nil {
			return err
		}
		if err := s.events.ReplaceGames(ctx, exec, event.ID, uniqueIDs(input.GameIDs)); err != nil {
			return err
		}
		return s.events.ReplacePhotos(ctx, exec, event.ID, uniqueIDs(input.PhotoIDs))
	})
	if err != nil {
		if mapped := mapEventRepoError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, filter models.EventFilter) ([]models.EventSummary, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetByID loads the event with its games, photos, participants and reviews.
func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		games, err := s.events.ListGames(gctx, id)
		event.Games = games
		return err
	})
	g.Go(func() error {
		photos, err := s.events.ListPhotos(gctx, id)
		event.Photos = photos
		return err
	})
	g.Go(func() error {
		participants, err := s.participants.ListByEvent(gctx, id)
		event.Participants = participants
		return err
	})
	g.Go(func() error {
		reviews, err := s.reviews.ListByEvent(gctx, id)
		event.Reviews = reviews
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load event %d details: %w", id, err)
	}
	return event, nil
}

func (s *eventService) loadForChange(ctx context.Context, actor models.Actor, id int, action Action) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	if err := Authorize(actor, eventResource(event), action); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, actor models.Actor, id int, input UpdateEventInput) (*models.Event, error) {
	event, err := s.loadForChange(ctx, actor, id, ActionUpdate)
	if err != nil {
		return nil, err
	}

	v := validator{}
	v.checkStruct(input)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		v.check(name != "", "name", "must be provided")
		event.Name = name
	}
	if input.ScheduledDate != nil {
		v.check(input.ScheduledDate.After(s.now()), "scheduled_date", "must be in the future")
		event.ScheduledDate = *input.ScheduledDate
	}
	if input.Description != nil {
		event.Description = trimOptional(input.Description)
	}
	if input.Location != nil {
		event.Location = trimOptional(input.Location)
	}
	if input.MaxCapacity != nil {
		event.MaxCapacity = input.MaxCapacity
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	var oldPhotos []models.Photo
	if input.PhotoIDs != nil {
		if oldPhotos, err = s.events.ListPhotos(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to list event photos: %w", err)
		}
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.events.Update(ctx, exec, event); err != nil {
			return err
		}
		if input.GameIDs != nil {
			if err := s.events.ReplaceGames(ctx, exec, id, uniqueIDs(*input.GameIDs)); err != nil {
				return err
			}
		}
		if input.PhotoIDs != nil {
			return s.events.ReplacePhotos(ctx, exec, id, uniqueIDs(*input.PhotoIDs))
		}
		return nil
	})
	if err != nil {
		if mapped := mapEventRepoError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}

	if input.PhotoIDs != nil {
		kept := make(map[int]bool, len(*input.PhotoIDs))
		for _, pid := range *input.PhotoIDs {
			kept[pid] = true
		}
		for _, p := range oldPhotos {
			if !kept[p.ID] {
				pid := p.ID
				s.files.release(ctx, &pid)
			}
		}
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	publishEvent(s.hub, id, live.TypeEventUpdated, updated)
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, actor models.Actor, id int) error {
	if _, err := s.loadForChange(ctx, actor, id, ActionDelete); err != nil {
		return err
	}

	photos, err := s.events.ListPhotos(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list event photos: %w", err)
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}

	for _, p := range photos {
		pid := p.ID
		s.files.release(ctx, &pid)
	}
	publishEvent(s.hub, id, live.TypeEventDeleted, map[string]int{"id": id})
	return nil
}

// Join adds the actor to the event. The event row stays locked while capacity is checked.
func (s *eventService) Join(ctx context.Context, actor models.Actor, id int) (*models.Participant, error) {
	participant := &models.Participant{EventID: id, UserID: actor.ID}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.events.GetForUpdate(ctx, exec, id)
		if err != nil {
			return err
		}
		if event.HasStarted(s.now()) {
			return ErrEventStarted
		}
		if event.MaxCapacity != nil {
			count, err := s.participants.CountByEvent(ctx, exec, id)
			if err != nil {
				return err
			}
			if count >= *event.MaxCapacity {
				return ErrEventFull
			}
		}
		return s.participants.Add(ctx, exec, participant)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventNotFound), errors.Is(err, repositories.ErrParticipantEventInvalid):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrAlreadyParticipant
		case errors.Is(err, repositories.ErrParticipantUserInvalid):
			return nil, ErrUserNotFound
		case errors.Is(err, ErrEventStarted), errors.Is(err, ErrEventFull):
			return nil, err
		}
		return nil, fmt.Errorf("failed to join event %d: %w", id, err)
	}

	publishEvent(s.hub, id, live.TypeParticipantJoined, participant)
	return participant, nil
}

func (s *eventService) Leave(ctx context.Context, actor models.Actor, id int) error {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event %d: %w", id, err)
	}

	if err := s.participants.Remove(ctx, id, actor.ID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to leave event %d: %w", id, err)
	}

	publishEvent(s.hub, id, live.TypeParticipantLeft, map[string]int{"event_id": id, "user_id": actor.ID})
	return nil
}
