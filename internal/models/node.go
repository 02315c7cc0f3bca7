// Package models defines data types for the graph board.
package models

import (
	"fmt"
	"math"
)

// MaxCoordinate bounds node positions on either axis.
const MaxCoordinate = 1e6

// Node is a vertex placed on the board. Position is the marker's top-left
// corner in surface coordinates.
type Node struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// CreateNodeRequest is the payload for placing a new node.
type CreateNodeRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// Validate checks that both coordinates are present and usable.
func (r *CreateNodeRequest) Validate() error {
	if r.X == nil {
		return ErrMissingX
	}

	if r.Y == nil {
		return ErrMissingY
	}

	return validatePosition(*r.X, *r.Y)
}

// UpdatePositionRequest is the payload for moving an existing node.
type UpdatePositionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// Validate checks that both coordinates are present and usable.
func (r *UpdatePositionRequest) Validate() error {
	if r.X == nil {
		return ErrMissingX
	}

	if r.Y == nil {
		return ErrMissingY
	}

	return validatePosition(*r.X, *r.Y)
}

func validatePosition(x, y float64) error {
	for _, c := range []struct {
		name string
		v    float64
	}{{"x", x}, {"y", y}} {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%s must be a finite number", c.name)
		}

		if math.Abs(c.v) > MaxCoordinate {
			return ErrOutOfRange(c.name, MaxCoordinate)
		}
	}

	return nil
}
