package editor

import (
	"slices"
	"sync"
)

// MarkerView is the drawn state of one marker.
type MarkerView struct {
	NodeID int64
	X, Y   float64
	Label  string
}

// ConnectorView is the drawn state of one connector.
type ConnectorView struct {
	EdgeID         int64
	Source, Target int64
	X1, Y1, X2, Y2 float64
}

// Frame is everything currently drawn on a Scene, in draw order.
type Frame struct {
	Markers    []MarkerView
	Connectors []ConnectorView
}

// Scene is an in-memory retained Surface. It backs the shell, the image
// exporters and tests. A marker drawn with an id that is already present
// replaces the earlier one.
type Scene struct {
	mu         sync.RWMutex
	order      []int64
	markers    map[int64]*Marker
	connectors []Connector
}

// NewScene returns an empty Scene.
func NewScene() *Scene {
	return &Scene{markers: make(map[int64]*Marker)}
}

// Clear removes every visual element.
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	clear(s.markers)
	s.connectors = s.connectors[:0]
}

// DrawConnector adds a connector.
func (s *Scene) DrawConnector(c Connector) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connectors = append(s.connectors, c)
}

// DrawMarker adds a marker on top of everything drawn so far.
func (s *Scene) DrawMarker(m Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markers[m.NodeID]; ok {
		s.order = slices.DeleteFunc(s.order, func(id int64) bool { return id == m.NodeID })
	}

	s.order = append(s.order, m.NodeID)
	s.markers[m.NodeID] = &m
}

// MarkerAt returns the topmost marker whose box contains p.
func (s *Scene) MarkerAt(p Point) (Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range slices.Backward(s.order) {
		m := s.markers[id]
		if p.X >= m.Pos.X && p.X <= m.Pos.X+MarkerSize && p.Y >= m.Pos.Y && p.Y <= m.Pos.Y+MarkerSize {
			return *m, true
		}
	}

	return Marker{}, false
}

// MarkerPosition returns the top-left corner of the marker for id.
func (s *Scene) MarkerPosition(id int64) (Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markers[id]
	if !ok {
		return Point{}, false
	}

	return m.Pos, true
}

// MoveMarker changes a marker's position and re-anchors its connectors.
func (s *Scene) MoveMarker(id int64, pos Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok {
		return false
	}

	m.Pos = pos
	anchor := center(pos)

	for i := range s.connectors {
		if s.connectors[i].Source == id {
			s.connectors[i].From = anchor
		}
		if s.connectors[i].Target == id {
			s.connectors[i].To = anchor
		}
	}

	return true
}

// Frame returns a copy of what is currently drawn.
func (s *Scene) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := Frame{
		Markers:    make([]MarkerView, 0, len(s.order)),
		Connectors: make([]ConnectorView, 0, len(s.connectors)),
	}

	for _, c := range s.connectors {
		f.Connectors = append(f.Connectors, ConnectorView{
			EdgeID: c.EdgeID, Source: c.Source, Target: c.Target,
			X1: c.From.X, Y1: c.From.Y, X2: c.To.X, Y2: c.To.Y,
		})
	}

	for _, id := range s.order {
		m := s.markers[id]
		f.Markers = append(f.Markers, MarkerView{NodeID: m.NodeID, X: m.Pos.X, Y: m.Pos.Y, Label: m.Label})
	}

	return f
}
