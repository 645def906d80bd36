package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the sentinel all entity-absence conditions match via
	// errors.Is. The concrete NotFoundError carries the entity kind and id.
	ErrNotFound = errors.New("entity not found")

	// ErrScoreOutOfRange is returned when an AdMatch is constructed with a
	// score outside [0, 1]. This is an invariant violation, not a
	// recoverable condition.
	ErrScoreOutOfRange = errors.New("match score must be between 0 and 1")

	// ErrCacheMiss is returned when data is not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidInput is returned when request parameters are invalid.
	ErrInvalidInput = errors.New("invalid input parameters")
)

// NotFoundError reports that a looked-up entity does not exist (or does
// not belong to the requested parent, which callers treat identically).
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError builds a NotFoundError for the given entity kind and id.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Is makes NotFoundError match the ErrNotFound sentinel.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
