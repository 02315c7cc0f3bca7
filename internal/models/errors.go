package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingX      = errors.New("x is required")
	ErrMissingY      = errors.New("y is required")
	ErrMissingSource = errors.New("source is required")
	ErrMissingTarget = errors.New("target is required")
	ErrNegativeID    = errors.New("node ids must not be negative")
	ErrUnknownKind   = errors.New(`kind must be "complete" or "random"`)
)

// Sentinel errors for entity lookups.
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeNotFound = errors.New("edge not found")
)

// ErrInvalidGraph is returned when a replacement graph references nodes it
// does not contain.
var ErrInvalidGraph = errors.New("invalid graph")

// ErrOutOfRange returns an error indicating a value exceeds its allowed magnitude.
func ErrOutOfRange(field string, limit float64) error {
	return fmt.Errorf("%s must be within ±%g", field, limit)
}
