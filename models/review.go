package models

import "time"

const (
	MinReviewNote = 0
	MaxReviewNote = 10
)

type Review struct {
	ID          int       `json:"id" db:"id"`
	EventID     int       `json:"event_id" db:"event_id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Note        int       `json:"note" db:"note"`
	Description *string   `json:"description,omitempty" db:"description"`
	PhotoID     *int      `json:"photo_id,omitempty" db:"photo_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	User  *UserSummary `json:"user,omitempty" db:"-"`
	Photo *Photo       `json:"photo,omitempty" db:"-"`
}
