package models

import (
	"fmt"
	"time"
)

// PhotoSlot names one of the three images attached to a game.
type PhotoSlot string

const (
	SlotBanner PhotoSlot = "banner"
	SlotLogo   PhotoSlot = "logo"
	SlotGrid   PhotoSlot = "grid"
)

var PhotoSlots = []PhotoSlot{SlotBanner, SlotLogo, SlotGrid}

func ParsePhotoSlot(s string) (PhotoSlot, error) {
	switch PhotoSlot(s) {
	case SlotBanner, SlotLogo, SlotGrid:
		return PhotoSlot(s), nil
	}
	return "", fmt.Errorf("invalid photo type %q: expected banner, logo or grid", s)
}

type Game struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Studio      *string    `json:"studio,omitempty" db:"studio"`
	Publisher   *string    `json:"publisher,omitempty" db:"publisher"`
	Platforms   []string   `json:"platforms" db:"-"`
	ReleaseDate *time.Time `json:"release_date,omitempty" db:"release_date"`
	Description *string    `json:"description,omitempty" db:"description"`
	BannerID    *int       `json:"banner_id,omitempty" db:"banner_id"`
	LogoID      *int       `json:"logo_id,omitempty" db:"logo_id"`
	GridID      *int       `json:"grid_id,omitempty" db:"grid_id"`
	IsApproved  bool       `json:"is_approved" db:"is_approved"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	Banner *Photo `json:"banner,omitempty" db:"-"`
	Logo   *Photo `json:"logo,omitempty" db:"-"`
	Grid   *Photo `json:"grid,omitempty" db:"-"`
	Tags   []Tag  `json:"tags,omitempty" db:"-"`
}

// SlotID returns the photo id currently held by the given slot.
func (g *Game) SlotID(slot PhotoSlot) *int {
	switch slot {
	case SlotBanner:
		return g.BannerID
	case SlotLogo:
		return g.LogoID
	case SlotGrid:
		return g.GridID
	}
	return nil
}

// SetSlotID points the given slot at a photo.
func (g *Game) SetSlotID(slot PhotoSlot, id *int) {
	switch slot {
	case SlotBanner:
		g.BannerID = id
	case SlotLogo:
		g.LogoID = id
	case SlotGrid:
		g.GridID = id
	}
}

type GameFilter struct {
	Approved *bool
	Tag      string
}
