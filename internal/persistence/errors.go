package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrCorruptRecord is returned when a stored record fails domain validation on load.
	ErrCorruptRecord = errors.New("persistence: corrupt record")
	// ErrConstraintViolation is returned when a record breaks a storage level constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
