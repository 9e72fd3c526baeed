package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/gameet/live"
	"github.com/Dosada05/gameet/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	*fixture
	author  models.Actor
	guest   models.Actor
	eventID int
}

// newReviewFixture seeds a finished event with one participant.
func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	f := newFixture(t)
	author := f.seedUser(t, "host@example.com", false)
	guest := f.seedUser(t, "guest@example.com", false)
	eventID := f.seedEvent(t, author, time.Now().Add(-24*time.Hour), nil)
	require.NoError(t, f.participants.Add(context.Background(), nil, &models.Participant{EventID: eventID, UserID: guest.ID}))
	return &reviewFixture{fixture: f, author: author, guest: guest, eventID: eventID}
}

func TestReviewService_CreateByParticipant(t *testing.T) {
	f := newReviewFixture(t)

	review, err := f.reviewService().Create(context.Background(), f.guest, f.eventID, CreateReviewInput{
		Note:        intPtr(8),
		Description: strPtr(" great "),
	})
	require.NoError(t, err)

	assert.Equal(t, 8, review.Note)
	assert.Equal(t, "great", *review.Description)
	assert.Equal(t, f.guest.ID, review.UserID)
	require.Len(t, f.hub.messages, 1)
	assert.Equal(t, live.TypeReviewCreated, f.hub.messages[0].message.(live.Message).Type)
}

func TestReviewService_CreateEligibility(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *reviewFixture) (models.Actor, int)
		input   CreateReviewInput
		wantErr error
	}{
		{
			name:    "note missing",
			setup:   func(f *reviewFixture) (models.Actor, int) { return f.guest, f.eventID },
			wantErr: ErrValidationFailed,
		},
		{
			name:    "note above range",
			setup:   func(f *reviewFixture) (models.Actor, int) { return f.guest, f.eventID },
			input:   CreateReviewInput{Note: intPtr(11)},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "note below range",
			setup:   func(f *reviewFixture) (models.Actor, int) { return f.guest, f.eventID },
			input:   CreateReviewInput{Note: intPtr(-1)},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "author of the event",
			setup:   func(f *reviewFixture) (models.Actor, int) { return f.author, f.eventID },
			input:   CreateReviewInput{Note: intPtr(5)},
			wantErr: ErrReviewOwnEvent,
		},
		{
			name: "not a participant",
			setup: func(f *reviewFixture) (models.Actor, int) {
				return f.seedUser(t, "stranger@example.com", false), f.eventID
			},
			input:   CreateReviewInput{Note: intPtr(5)},
			wantErr: ErrNotParticipant,
		},
		{
			name: "event not finished",
			setup: func(f *reviewFixture) (models.Actor, int) {
				id := f.seedEvent(t, f.author, time.Now().Add(time.Hour), nil)
				f.db.participants[[2]int{id, f.guest.ID}] = &models.Participant{EventID: id, UserID: f.guest.ID}
				return f.guest, id
			},
			input:   CreateReviewInput{Note: intPtr(5)},
			wantErr: ErrEventNotFinished,
		},
		{
			name:    "unknown event",
			setup:   func(f *reviewFixture) (models.Actor, int) { return f.guest, 9999 },
			input:   CreateReviewInput{Note: intPtr(5)},
			wantErr: ErrEventNotFound,
		},
		{
			name:    "unknown photo",
			setup:   func(f *reviewFixture) (models.Actor, int) { return f.guest, f.eventID },
			input:   CreateReviewInput{Note: intPtr(5), PhotoID: intPtr(9999)},
			wantErr: ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(t)
			actor, eventID := tt.setup(f)

			_, err := f.reviewService().Create(context.Background(), actor, eventID, tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.db.reviews)
		})
	}
}

func TestReviewService_UpdateAndDelete(t *testing.T) {
	f := newReviewFixture(t)
	svc := f.reviewService()
	review, err := svc.Create(context.Background(), f.guest, f.eventID, CreateReviewInput{Note: intPtr(4)})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), f.author, f.eventID, review.ID, UpdateReviewInput{Note: intPtr(0)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(context.Background(), f.guest, f.eventID+1, review.ID, UpdateReviewInput{Note: intPtr(9)})
	assert.ErrorIs(t, err, ErrReviewNotFound)

	_, err = svc.Update(context.Background(), f.guest, f.eventID, review.ID, UpdateReviewInput{Note: intPtr(42)})
	assert.ErrorIs(t, err, ErrValidationFailed)

	updated, err := svc.Update(context.Background(), f.guest, f.eventID, review.ID, UpdateReviewInput{Note: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Note)

	err = svc.Delete(context.Background(), f.author, f.eventID, review.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := f.seedUser(t, "admin@example.com", true)
	require.NoError(t, svc.Delete(context.Background(), admin, f.eventID, review.ID))
	assert.Empty(t, f.db.reviews)
}

func TestReviewService_ListByEvent(t *testing.T) {
	f := newReviewFixture(t)
	svc := f.reviewService()
	_, err := svc.Create(context.Background(), f.guest, f.eventID, CreateReviewInput{Note: intPtr(7)})
	require.NoError(t, err)

	reviews, err := svc.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = svc.ListByEvent(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestParticipantService_AdminManagesRoster(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	author := f.seedUser(t, "host@example.com", false)
	guest := f.seedUser(t, "guest@example.com", false)
	eventID := f.seedEvent(t, author, time.Now().Add(-time.Hour), intPtr(1))
	f.db.participants[[2]int{eventID, author.ID}] = &models.Participant{EventID: eventID, UserID: author.ID}
	svc := f.participantService()

	_, err := svc.Add(context.Background(), author, eventID, guest.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := svc.Add(context.Background(), admin, eventID, guest.ID)
	require.NoError(t, err, "admins bypass capacity and date checks")
	assert.Equal(t, guest.ID, p.UserID)

	_, err = svc.Add(context.Background(), admin, eventID, guest.ID)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)

	_, err = svc.Add(context.Background(), admin, eventID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Add(context.Background(), admin, eventID, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	roster, err := svc.ListByEvent(context.Background(), eventID)
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	require.NoError(t, svc.Remove(context.Background(), admin, eventID, guest.ID))
	err = svc.Remove(context.Background(), admin, eventID, guest.ID)
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	err = svc.Remove(context.Background(), admin, 9999, guest.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
