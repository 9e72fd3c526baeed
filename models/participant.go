package models

import "time"

// Participant records a user's attendance to an event.
type Participant struct {
	EventID  int          `json:"event_id" db:"event_id"`
	UserID   int          `json:"user_id" db:"user_id"`
	JoinedAt time.Time    `json:"joined_at" db:"joined_at"`
	User     *UserSummary `json:"user,omitempty" db:"-"`
}
