package models

import "time"

// Photo is a stored image file. URL holds the storage key, not an absolute address.
type Photo struct {
	ID        int       `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
