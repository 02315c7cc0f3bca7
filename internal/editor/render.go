package editor

import (
	"strconv"

	"github.com/persistorai/graphboard/internal/models"
)

// Binder returns the gesture handlers to register on a node's marker.
type Binder func(n models.Node) map[Gesture]Handler

// Renderer projects snapshots onto a Surface. Render is deterministic: the
// same snapshot always produces the same surface contents.
type Renderer struct {
	surface Surface
	bind    Binder
}

// NewRenderer creates a Renderer drawing on surface. bind may be nil for
// read-only renders such as image export.
func NewRenderer(surface Surface, bind Binder) *Renderer {
	return &Renderer{surface: surface, bind: bind}
}

// Render clears the surface and redraws s from scratch. Edges with a missing
// endpoint are skipped. With duplicate node ids the last node wins.
func (r *Renderer) Render(s Snapshot) {
	r.surface.Clear()

	byID := make(map[int64]models.Node, len(s.Nodes))
	for _, n := range s.Nodes {
		byID[n.ID] = n
	}

	for _, e := range s.Edges {
		src, ok := byID[e.Source]
		if !ok {
			continue
		}

		dst, ok := byID[e.Target]
		if !ok {
			continue
		}

		r.surface.DrawConnector(Connector{
			EdgeID: e.ID,
			Source: e.Source,
			Target: e.Target,
			From:   center(Point{X: src.X, Y: src.Y}),
			To:     center(Point{X: dst.X, Y: dst.Y}),
		})
	}

	for _, n := range s.Nodes {
		var handlers map[Gesture]Handler
		if r.bind != nil {
			handlers = r.bind(n)
		}

		r.surface.DrawMarker(Marker{
			NodeID:   n.ID,
			Pos:      Point{X: n.X, Y: n.Y},
			Label:    strconv.FormatInt(n.ID, 10),
			Handlers: handlers,
		})
	}
}

// RenderFrame renders s onto a fresh Scene and returns the resulting frame.
func RenderFrame(s Snapshot) Frame {
	scene := NewScene()
	NewRenderer(scene, nil).Render(s)

	return scene.Frame()
}
