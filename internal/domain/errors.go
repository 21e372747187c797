package domain

import "errors"

var (
	// ErrNotFound is returned when a lookup by id or text matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCharacter is returned when a write would give two
	// characters the same text form.
	ErrDuplicateCharacter = errors.New("character already exists")
)
