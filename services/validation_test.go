package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/gameet/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputLengthBounds(t *testing.T) {
	long := strings.Repeat("x", 256)
	future := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name    string
		field   string
		wantMsg string
		run     func(f *fixture, admin models.Actor) error
	}{
		{
			name:    "event location on create",
			field:   "location",
			wantMsg: "must not be more than 255 characters",
			run: func(f *fixture, admin models.Actor) error {
				_, err := f.eventService().Create(context.Background(), admin, CreateEventInput{Name: "LAN", ScheduledDate: &future, Location: &long})
				return err
			},
		},
		{
			name:    "event name on create",
			field:   "name",
			wantMsg: "must not be more than 255 characters",
			run: func(f *fixture, admin models.Actor) error {
				_, err := f.eventService().Create(context.Background(), admin, CreateEventInput{Name: long, ScheduledDate: &future})
				return err
			},
		},
		{
			name:    "event location on update",
			field:   "location",
			wantMsg: "must not be more than 255 characters",
			run: func(f *fixture, admin models.Actor) error {
				id := f.seedEvent(t, admin, future, nil)
				_, err := f.eventService().Update(context.Background(), admin, id, UpdateEventInput{Location: &long})
				return err
			},
		},
		{
			name:    "game studio on create",
			field:   "studio",
			wantMsg: "must not be more than 255 characters",
			run: func(f *fixture, admin models.Actor) error {
				_, err := f.gameService().Create(context.Background(), admin, CreateGameInput{Name: "Quake", Studio: &long})
				return err
			},
		},
		{
			name:    "game publisher on update",
			field:   "publisher",
			wantMsg: "must not be more than 255 characters",
			run: func(f *fixture, admin models.Actor) error {
				id := f.seedGame(t, "Quake", true)
				_, err := f.gameService().Update(context.Background(), admin, id, UpdateGameInput{Publisher: &long})
				return err
			},
		},
		{
			name:    "email on register",
			field:   "email",
			wantMsg: "must not be more than 255 characters",
			run: func(f *fixture, admin models.Actor) error {
				_, err := f.userService().Register(context.Background(), validRegistration(strings.Repeat("a", 250)+"@example.com"), nil)
				return err
			},
		},
		{
			name:    "email on update",
			field:   "email",
			wantMsg: "must not be more than 255 characters",
			run: func(f *fixture, admin models.Actor) error {
				email := strings.Repeat("a", 250) + "@example.com"
				_, err := f.userService().Update(context.Background(), admin, admin.ID, UpdateUserInput{Email: &email}, nil)
				return err
			},
		},
		{
			name:    "password beyond bcrypt limit",
			field:   "password",
			wantMsg: "must not be more than 72 bytes",
			run: func(f *fixture, admin models.Actor) error {
				input := validRegistration("neo@example.com")
				input.Password = strings.Repeat("p", 73)
				_, err := f.userService().Register(context.Background(), input, nil)
				return err
			},
		},
		{
			name:    "tag name",
			field:   "name",
			wantMsg: "must not be more than 50 characters",
			run: func(f *fixture, admin models.Actor) error {
				id := f.seedGame(t, "Quake", true)
				_, err := f.tagService().AddToGame(context.Background(), admin, id, AddTagInput{Name: strings.Repeat("t", 51)})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			admin := f.seedUser(t, "admin@example.com", true)

			err := tt.run(f, admin)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, verr.Fields[tt.field])
		})
	}
}

func TestInputLengthsCountRunes(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()

	input := validRegistration("accent@example.com")
	input.Pseudo = strings.Repeat("é", 50)
	user, err := svc.Register(context.Background(), input, nil)
	require.NoError(t, err)
	assert.Equal(t, input.Pseudo, user.Pseudo)

	input = validRegistration("accent2@example.com")
	input.Pseudo = strings.Repeat("é", 51)
	_, err = svc.Register(context.Background(), input, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must not be more than 50 characters", verr.Fields["pseudo"])
}
