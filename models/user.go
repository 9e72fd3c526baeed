package models

import "time"

// User is a registered account.
type User struct {
	ID           int       `json:"id" db:"id"`
	Pseudo       string    `json:"pseudo" db:"pseudo"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password"`
	BirthDate    time.Time `json:"birth_date" db:"birth_date"`
	Bio          *string   `json:"bio,omitempty" db:"bio"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	PhotoID      *int      `json:"photo_id,omitempty" db:"photo_id"`
	CreationDate time.Time `json:"creation_date" db:"creation_date"`

	Photo *Photo `json:"photo,omitempty" db:"-"`
}

// UserSummary is the public projection nested into events, participants and reviews.
type UserSummary struct {
	ID      int    `json:"id"`
	Pseudo  string `json:"pseudo"`
	PhotoID *int   `json:"photo_id,omitempty"`
}

type UserFilter struct {
	Search string
	Page   int
	Limit  int
}

type UserListResponse struct {
	Users      []User `json:"users"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}
