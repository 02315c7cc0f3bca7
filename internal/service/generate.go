package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
	"github.com/persistorai/graphboard/internal/ws"
)

// Generator geometry.
const (
	completeSpacing = 50.0
	randomExtent    = 400.0
	randomEdgeP     = 0.5
)

// GeneratedEvent is the payload of a graph.generated change event.
type GeneratedEvent struct {
	Kind  string `json:"kind"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// planComplete lays n nodes out on a diagonal and links every ordered pair
// i<j once.
func planComplete(n int) models.GraphPlan {
	plan := models.GraphPlan{
		Nodes: make([]models.Position, n),
		Links: make([]models.Link, 0, n*(n-1)/2),
	}

	for i := range n {
		plan.Nodes[i] = models.Position{X: float64(i) * completeSpacing, Y: float64(i) * completeSpacing}
		for j := i + 1; j < n; j++ {
			plan.Links = append(plan.Links, models.Link{Source: i, Target: j})
		}
	}

	return plan
}

// planRandom scatters n nodes over a square and keeps each i<j link with
// probability randomEdgeP.
func planRandom(n int, rng *rand.Rand) models.GraphPlan {
	plan := models.GraphPlan{Nodes: make([]models.Position, n)}

	for i := range n {
		plan.Nodes[i] = models.Position{X: rng.Float64() * randomExtent, Y: rng.Float64() * randomExtent}
	}

	for i := range n {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < randomEdgeP {
				plan.Links = append(plan.Links, models.Link{Source: i, Target: j})
			}
		}
	}

	return plan
}

// Generate replaces the board with a generated graph. Ids restart at zero.
func (s *GraphService) Generate(ctx context.Context, req models.GenerateRequest) (*models.Graph, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var plan models.GraphPlan

	switch req.Kind {
	case models.GenerateComplete:
		plan = planComplete(req.Nodes)
	case models.GenerateRandom:
		s.rngMu.Lock()
		plan = planRandom(req.Nodes, s.rng)
		s.rngMu.Unlock()
	default:
		return nil, fmt.Errorf("generate %q: %w", req.Kind, models.ErrUnknownKind)
	}

	g, err := s.store.ReplaceGraph(ctx, plan)
	record("graph.generate", err)
	if err != nil {
		return nil, err
	}

	g.Normalize()
	observeCounts(len(g.Nodes), len(g.Edges))

	s.log.WithFields(logrus.Fields{
		"kind":  req.Kind,
		"nodes": len(g.Nodes),
		"edges": len(g.Edges),
	}).Debug("board generated")

	s.publish(ctx, ws.EventGraphGenerated, GeneratedEvent{Kind: req.Kind, Nodes: len(g.Nodes), Edges: len(g.Edges)})

	return g, nil
}
