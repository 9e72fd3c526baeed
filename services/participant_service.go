package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/gameet/live"
	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
)

// ParticipantService manages event rosters on behalf of admins.
type ParticipantService interface {
	ListByEvent(ctx context.Context, eventID int) ([]models.Participant, error)
	Add(ctx context.Context, actor models.Actor, eventID, userID int) (*models.Participant, error)
	Remove(ctx context.Context, actor models.Actor, eventID, userID int) error
}

type AddParticipantInput struct {
	UserID int `json:"user_id"`
}

type participantService struct {
	events       repositories.EventRepository
	users        repositories.UserRepository
	participants repositories.ParticipantRepository
	hub          Broadcaster
}

func NewParticipantService(
	events repositories.EventRepository,
	users repositories.UserRepository,
	participants repositories.ParticipantRepository,
	hub Broadcaster,
) ParticipantService {
	return &participantService{events: events, users: users, participants: participants, hub: hub}
}

func (s *participantService) ensureEvent(ctx context.Context, eventID int) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	return nil
}

func (s *participantService) ListByEvent(ctx context.Context, eventID int) ([]models.Participant, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	participants, err := s.participants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of event %d: %w", eventID, err)
	}
	return participants, nil
}

// Add registers a user for an event. Admins bypass the capacity and date checks of Join.
func (s *participantService) Add(ctx context.Context, actor models.Actor, eventID, userID int) (*models.Participant, error) {
	if err := Authorize(actor, adminResource(ResourceParticipant), ActionManage); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, fieldError("user_id", "must be a positive integer")
	}
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	participant := &models.Participant{EventID: eventID, UserID: userID}
	if err := s.participants.Add(ctx, nil, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrAlreadyParticipant
		case errors.Is(err, repositories.ErrParticipantEventInvalid):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrParticipantUserInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	publishEvent(s.hub, eventID, live.TypeParticipantJoined, participant)
	return participant, nil
}

func (s *participantService) Remove(ctx context.Context, actor models.Actor, eventID, userID int) error {
	if err := Authorize(actor, adminResource(ResourceParticipant), ActionManage); err != nil {
		return err
	}
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.participants.Remove(ctx, eventID, userID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	publishEvent(s.hub, eventID, live.TypeParticipantLeft, map[string]int{"event_id": eventID, "user_id": userID})
	return nil
}
