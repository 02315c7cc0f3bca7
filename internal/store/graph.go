package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/graphboard/internal/models"
)

// GetGraph returns every node and edge in id order.
func (s *PostgresStore) GetGraph(ctx context.Context) (*models.Graph, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting graph: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	g := emptyGraph(0, 0)

	nodeRows, err := tx.Query(ctx, `SELECT `+nodeColumns+` FROM board_nodes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}

	g.Nodes, err = collect(nodeRows, scanNode, g.Nodes)
	if err != nil {
		return nil, err
	}

	edgeRows, err := tx.Query(ctx, `SELECT `+edgeColumns+` FROM board_edges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}

	g.Edges, err = collect(edgeRows, scanEdge, g.Edges)
	if err != nil {
		return nil, err
	}

	return g, nil
}

// ClearGraph deletes every node and edge and resets both id sequences.
func (s *PostgresStore) ClearGraph(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := truncateBoard(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing clear graph: %w", err)
	}

	return nil
}

// ReplaceGraph swaps the board for plan in one transaction. Ids restart at
// zero in plan order.
func (s *PostgresStore) ReplaceGraph(ctx context.Context, plan models.GraphPlan) (*models.Graph, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("replacing graph: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := truncateBoard(ctx, tx); err != nil {
		return nil, err
	}

	g := planGraph(plan)

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"board_nodes"}, []string{"id", "x", "y"},
		pgx.CopyFromSlice(len(g.Nodes), func(i int) ([]any, error) {
			n := g.Nodes[i]
			return []any{n.ID, n.X, n.Y}, nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("copying nodes: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"board_edges"}, []string{"id", "source", "target"},
		pgx.CopyFromSlice(len(g.Edges), func(i int) ([]any, error) {
			e := g.Edges[i]
			return []any{e.ID, e.Source, e.Target}, nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("copying edges: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE board_sequences SET next_id = CASE name WHEN 'node' THEN $1::bigint ELSE $2::bigint END`,
		len(g.Nodes), len(g.Edges),
	); err != nil {
		return nil, fmt.Errorf("advancing sequences: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing replace graph: %w", err)
	}

	return g, nil
}

// Stats returns node and edge counts.
func (s *PostgresStore) Stats(ctx context.Context) (*models.Stats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var st models.Stats

	err := s.Pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM board_nodes), (SELECT COUNT(*) FROM board_edges)`,
	).Scan(&st.Nodes, &st.Edges)
	if err != nil {
		return nil, fmt.Errorf("counting board: %w", err)
	}

	return &st, nil
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.Pool.HealthCheck(ctx)
}

func truncateBoard(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `TRUNCATE board_edges, board_nodes`); err != nil {
		return fmt.Errorf("truncating board: %w", err)
	}

	return resetSequences(ctx, tx)
}

// collect scans every row with scan and appends to dst.
func collect[T any](rows pgx.Rows, scan func(rowScanner) (T, error), dst []T) ([]T, error) {
	defer rows.Close()

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}

		dst = append(dst, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return dst, nil
}

// planGraph materialises plan with ids assigned from zero.
func planGraph(plan models.GraphPlan) *models.Graph {
	g := emptyGraph(len(plan.Nodes), len(plan.Links))

	for i, p := range plan.Nodes {
		g.Nodes = append(g.Nodes, models.Node{ID: int64(i), X: p.X, Y: p.Y})
	}

	for i, l := range plan.Links {
		g.Edges = append(g.Edges, models.Edge{ID: int64(i), Source: int64(l.Source), Target: int64(l.Target)})
	}

	return g
}
