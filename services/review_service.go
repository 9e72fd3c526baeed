package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/gameet/live"
	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
)

type ReviewService interface {
	ListByEvent(ctx context.Context, eventID int) ([]models.Review, error)
	Create(ctx context.Context, actor models.Actor, eventID int, input CreateReviewInput) (*models.Review, error)
	Update(ctx context.Context, actor models.Actor, eventID, reviewID int, input UpdateReviewInput) (*models.Review, error)
	Delete(ctx context.Context, actor models.Actor, eventID, reviewID int) error
}

type CreateReviewInput struct {
	Note        *int    `json:"note"`
	Description *string `json:"description"`
	PhotoID     *int    `json:"photo_id"`
}

type UpdateReviewInput struct {
	Note        *int    `json:"note"`
	Description *string `json:"description"`
	PhotoID     *int    `json:"photo_id"`
}

type reviewService struct {
	events       repositories.EventRepository
	participants repositories.ParticipantRepository
	reviews      repositories.ReviewRepository
	hub          Broadcaster
	now          func() time.Time
}

func NewReviewService(
	events repositories.EventRepository,
	participants repositories.ParticipantRepository,
	reviews repositories.ReviewRepository,
	hub Broadcaster,
) ReviewService {
	return &reviewService{events: events, participants: participants, reviews: reviews, hub: hub, now: time.Now}
}

func checkNote(v validator, note *int) {
	if note != nil {
		v.check(*note >= models.MinReviewNote && *note <= models.MaxReviewNote, "note",
			fmt.Sprintf("must be an integer between %d and %d", models.MinReviewNote, models.MaxReviewNote))
	}
}

func mapReviewRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrReviewNotFound):
		return ErrReviewNotFound
	case errors.Is(err, repositories.ErrReviewPhotoInvalid):
		return fieldError("photo_id", "references an unknown photo")
	case errors.Is(err, repositories.ErrReviewNoteInvalid):
		return fieldError("note", "out of range")
	}
	return nil
}

func (s *reviewService) getEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *reviewService) ListByEvent(ctx context.Context, eventID int) ([]models.Review, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of event %d: %w", eventID, err)
	}
	return reviews, nil
}

// Create stores a review from a participant of a past event who did not organise it.
func (s *reviewService) Create(ctx context.Context, actor models.Actor, eventID int, input CreateReviewInput) (*models.Review, error) {
	v := validator{}
	v.check(input.Note != nil, "note", "must be provided")
	checkNote(v, input.Note)
	if err := v.err(); err != nil {
		return nil, err
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.AuthorID == actor.ID {
		return nil, ErrReviewOwnEvent
	}
	joined, err := s.participants.Exists(ctx, eventID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check participation: %w", err)
	}
	if !joined {
		return nil, ErrNotParticipant
	}
	if !event.HasStarted(s.now()) {
		return nil, ErrEventNotFinished
	}

	review := &models.Review{
		EventID:     eventID,
		UserID:      actor.ID,
		Note:        *input.Note,
		Description: trimOptional(input.Description),
		PhotoID:     input.PhotoID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if mapped := mapReviewRepoError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	publishEvent(s.hub, eventID, live.TypeReviewCreated, review)
	return review, nil
}

// loadForChange returns the review only when it belongs to eventID and actor may act on it.
func (s *reviewService) loadForChange(ctx context.Context, actor models.Actor, eventID, reviewID int, action Action) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review %d: %w", reviewID, err)
	}
	if review.EventID != eventID {
		return nil, ErrReviewNotFound
	}
	if err := Authorize(actor, reviewResource(review), action); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, actor models.Actor, eventID, reviewID int, input UpdateReviewInput) (*models.Review, error) {
	review, err := s.loadForChange(ctx, actor, eventID, reviewID, ActionUpdate)
	if err != nil {
		return nil, err
	}

	v := validator{}
	checkNote(v, input.Note)
	if err := v.err(); err != nil {
		return nil, err
	}
	if input.Note != nil {
		review.Note = *input.Note
	}
	if input.Description != nil {
		review.Description = trimOptional(input.Description)
	}
	if input.PhotoID != nil {
		review.PhotoID = input.PhotoID
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		if mapped := mapReviewRepoError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update review %d: %w", reviewID, err)
	}

	updated, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload review %d: %w", reviewID, err)
	}
	publishEvent(s.hub, eventID, live.TypeReviewUpdated, updated)
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, actor models.Actor, eventID, reviewID int) error {
	if _, err := s.loadForChange(ctx, actor, eventID, reviewID, ActionDelete); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review %d: %w", reviewID, err)
	}

	publishEvent(s.hub, eventID, live.TypeReviewDeleted, map[string]int{"id": reviewID})
	return nil
}
