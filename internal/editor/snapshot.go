// Package editor implements the board editor core: a cache of the last
// authoritative graph, a renderer that projects it onto a Surface, and a
// Controller that turns gestures into store mutations followed by a full
// re-fetch.
package editor

import (
	"sync/atomic"

	"github.com/persistorai/graphboard/internal/models"
)

// Snapshot is a complete, point-in-time copy of the authoritative graph.
// Snapshots are replaced wholesale and must be treated as read-only.
type Snapshot struct {
	Nodes []models.Node
	Edges []models.Edge
}

// SnapshotCache holds the most recently fetched Snapshot.
type SnapshotCache struct {
	cur atomic.Pointer[Snapshot]
}

// Replace atomically swaps the held snapshot.
func (c *SnapshotCache) Replace(s Snapshot) {
	c.cur.Store(&s)
}

// Current returns the latest snapshot, or an empty one before the first fetch.
func (c *SnapshotCache) Current() Snapshot {
	if s := c.cur.Load(); s != nil {
		return *s
	}
	return Snapshot{}
}
