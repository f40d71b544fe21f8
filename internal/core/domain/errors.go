package domain

import "errors"

// Storage-level sentinel errors returned by every repository implementation.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when an insert violates a uniqueness constraint.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrValueTooLong is returned when a value does not fit its column.
	ErrValueTooLong = errors.New("value too long for column")
)
