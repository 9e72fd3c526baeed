package services

import (
	"errors"
	"sort"
	"strings"
)

// Errors shared across services and mapped to HTTP statuses by the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrForbidden           = errors.New("operation not allowed for the current user")
	ErrUserEmailConflict   = errors.New("email address is already in use")
	ErrUnsupportedFileType = errors.New("unsupported file type: expected jpeg, png, gif or webp")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrFileRequired        = errors.New("file is required")

	ErrUserNotFound        = errors.New("user not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrPhotoNotFound       = errors.New("photo not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrParticipantNotFound = errors.New("participant not found")

	ErrEventStarted       = errors.New("event already started")
	ErrEventFull          = errors.New("event is full")
	ErrEventNotFinished   = errors.New("event has not taken place yet")
	ErrAlreadyParticipant = errors.New("user already participates in this event")
	ErrNotParticipant     = errors.New("only participants can review an event")
	ErrReviewOwnEvent     = errors.New("event author cannot review their own event")
	ErrPhotoInUse         = errors.New("photo is still referenced")
	ErrDefaultPhotoLocked = errors.New("default avatar cannot be modified or deleted")
	ErrInvalidPhotoSlot   = errors.New("invalid photo type: expected banner, logo or grid")
)

// ValidationError carries per-field reasons. It matches ErrValidationFailed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// validator collects field errors before returning them at once.
type validator map[string]string

func (v validator) check(ok bool, field, reason string) {
	if !ok {
		if _, exists := v[field]; !exists {
			v[field] = reason
		}
	}
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

func fieldError(field, reason string) error {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
