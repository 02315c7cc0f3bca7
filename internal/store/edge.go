package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/graphboard/internal/models"
)

// CreateEdge connects source to target. Both nodes must exist.
func (s *PostgresStore) CreateEdge(ctx context.Context, source, target int64) (*models.Edge, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating edge: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := checkEndpoints(ctx, tx, source, target); err != nil {
		return nil, err
	}

	id, err := nextID(ctx, tx, seqEdge)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO board_edges (id, source, target) VALUES ($1, $2, $3) RETURNING `+edgeColumns,
		id, source, target,
	)

	e, err := scanEdge(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("edge %d->%d: %w", source, target, models.ErrNodeNotFound)
		}

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create edge: %w", err)
	}

	return &e, nil
}

// DeleteEdge removes a single edge.
func (s *PostgresStore) DeleteEdge(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM board_edges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting edge: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrEdgeNotFound
	}

	return nil
}

// checkEndpoints verifies both nodes exist inside tx, naming the missing one.
func checkEndpoints(ctx context.Context, tx pgx.Tx, source, target int64) error {
	for _, ep := range []struct {
		role string
		id   int64
	}{{"source", source}, {"target", target}} {
		var exists bool

		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM board_nodes WHERE id = $1)`, ep.id,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking %s node: %w", ep.role, err)
		}

		if !exists {
			return endpointError(ep.role, ep.id)
		}
	}

	return nil
}
