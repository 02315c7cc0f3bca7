package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/graphboard/internal/models"
)

// CreateNode inserts a node at (x, y) with the next node id.
func (s *PostgresStore) CreateNode(ctx context.Context, x, y float64) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating node: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	id, err := nextID(ctx, tx, seqNode)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO board_nodes (id, x, y) VALUES ($1, $2, $3) RETURNING `+nodeColumns,
		id, x, y,
	)

	n, err := scanNode(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create node: %w", err)
	}

	return &n, nil
}

// UpdateNodePosition moves an existing node.
func (s *PostgresStore) UpdateNodePosition(ctx context.Context, id int64, x, y float64) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx,
		`UPDATE board_nodes SET x = $2, y = $3, updated_at = now() WHERE id = $1 RETURNING `+nodeColumns,
		id, x, y,
	)

	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNodeNotFound
		}

		return nil, fmt.Errorf("updating node position: %w", err)
	}

	return &n, nil
}

// DeleteNode removes a node. Incident edges go with it through the
// ON DELETE CASCADE foreign keys.
func (s *PostgresStore) DeleteNode(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM board_nodes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrNodeNotFound
	}

	return nil
}
