package store

import (
	"fmt"

	"github.com/persistorai/graphboard/internal/models"
)

// nodeColumns lists the columns selected for node queries.
const nodeColumns = `id, x, y`

// edgeColumns lists the columns selected for edge queries.
const edgeColumns = `id, source, target`

// rowScanner is satisfied by pgx.Rows, pgx.Row and *sql.Row(s).
type rowScanner interface {
	Scan(dest ...any) error
}

// scanNode scans a single row into a models.Node.
func scanNode(row rowScanner) (models.Node, error) {
	var n models.Node
	if err := row.Scan(&n.ID, &n.X, &n.Y); err != nil {
		return models.Node{}, fmt.Errorf("scanning node: %w", err)
	}

	return n, nil
}

// scanEdge scans a single row into a models.Edge.
func scanEdge(row rowScanner) (models.Edge, error) {
	var e models.Edge
	if err := row.Scan(&e.ID, &e.Source, &e.Target); err != nil {
		return models.Edge{}, fmt.Errorf("scanning edge: %w", err)
	}

	return e, nil
}
