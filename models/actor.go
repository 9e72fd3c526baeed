package models

// Actor is the authenticated caller of a request.
type Actor struct {
	ID      int
	Email   string
	IsAdmin bool
}
