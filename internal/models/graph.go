package models

import "fmt"

// Graph is a complete point-in-time copy of the board.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Normalize replaces nil sequences with empty ones so the board always
// encodes as arrays.
func (g *Graph) Normalize() {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}

	if g.Edges == nil {
		g.Edges = []Edge{}
	}
}

// Stats holds aggregate board counts.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Generator kinds accepted by GenerateRequest.
const (
	GenerateComplete = "complete"
	GenerateRandom   = "random"
)

// MaxGeneratedNodes caps the size of generated boards.
const MaxGeneratedNodes = 200

// GenerateRequest asks the server to replace the board with a generated graph.
type GenerateRequest struct {
	Kind  string `json:"kind"`
	Nodes int    `json:"nodes"`
}

// Validate checks the generator kind and size.
func (r *GenerateRequest) Validate() error {
	if r.Kind != GenerateComplete && r.Kind != GenerateRandom {
		return ErrUnknownKind
	}

	if r.Nodes < 1 || r.Nodes > MaxGeneratedNodes {
		return fmt.Errorf("nodes must be between 1 and %d", MaxGeneratedNodes)
	}

	return nil
}

// Position is a node placement inside a GraphPlan.
type Position struct {
	X float64
	Y float64
}

// Link connects two positions of a GraphPlan by index.
type Link struct {
	Source int
	Target int
}

// GraphPlan describes a board to be written in one step. Node ids are
// assigned from zero in plan order, so Link indexes equal the resulting ids.
type GraphPlan struct {
	Nodes []Position
	Links []Link
}

// Validate checks that every link references a planned node.
func (p *GraphPlan) Validate() error {
	for _, l := range p.Links {
		if l.Source < 0 || l.Source >= len(p.Nodes) || l.Target < 0 || l.Target >= len(p.Nodes) {
			return fmt.Errorf("link %d->%d: %w", l.Source, l.Target, ErrInvalidGraph)
		}
	}

	return nil
}
