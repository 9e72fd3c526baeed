package models

import "time"

// Event is a gaming meetup.
type Event struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	ScheduledDate time.Time `json:"scheduled_date" db:"scheduled_date"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Location      *string   `json:"location,omitempty" db:"location"`
	MaxCapacity   *int      `json:"max_capacity,omitempty" db:"max_capacity"`
	AuthorID      int       `json:"author_id" db:"author_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Author       *UserSummary  `json:"author,omitempty" db:"-"`
	Games        []Game        `json:"games,omitempty" db:"-"`
	Photos       []Photo       `json:"photos,omitempty" db:"-"`
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Reviews      []Review      `json:"reviews,omitempty" db:"-"`
}

// HasStarted reports whether the event date is not after now.
func (e *Event) HasStarted(now time.Time) bool {
	return !e.ScheduledDate.After(now)
}

// EventSummary is the lightweight list projection.
type EventSummary struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Location      *string   `json:"location,omitempty"`
	MaxCapacity   *int      `json:"max_capacity,omitempty"`
}

type EventFilter struct {
	UpcomingAfter *time.Time
	GameID        *int
}
