package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

type node struct {
	ID int64
	X  float64
	Y  float64
}

type edge struct {
	ID     int64
	Source int64
	Target int64
}

// board is everything read from the source database.
type board struct {
	nodes      []node
	edges      []edge
	nextNodeID int64
	nextEdgeID int64
}

// errTargetNotEmpty is returned when the target already holds a board and
// REPLACE is not set.
var errTargetNotEmpty = errors.New("target board is not empty (set REPLACE=true to overwrite it)")

func readBoard(ctx context.Context, db *sql.DB) (board, error) {
	var b board

	rows, err := db.QueryContext(ctx, `SELECT id, x, y FROM board_nodes ORDER BY id`)
	if err != nil {
		return b, fmt.Errorf("read nodes: %w", err)
	}
	for rows.Next() {
		var n node
		if err := rows.Scan(&n.ID, &n.X, &n.Y); err != nil {
			rows.Close()
			return b, fmt.Errorf("scan node: %w", err)
		}
		b.nodes = append(b.nodes, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return b, fmt.Errorf("read nodes: %w", err)
	}

	rows, err = db.QueryContext(ctx, `SELECT id, source, target FROM board_edges ORDER BY id`)
	if err != nil {
		return b, fmt.Errorf("read edges: %w", err)
	}
	for rows.Next() {
		var e edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target); err != nil {
			rows.Close()
			return b, fmt.Errorf("scan edge: %w", err)
		}
		b.edges = append(b.edges, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return b, fmt.Errorf("read edges: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT
		    (SELECT next_id FROM board_sequences WHERE name = 'node'),
		    (SELECT next_id FROM board_sequences WHERE name = 'edge')`,
	).Scan(&b.nextNodeID, &b.nextEdgeID)
	if err != nil {
		return b, fmt.Errorf("read sequences: %w", err)
	}

	// Sequences never go backwards past an id already handed out.
	for _, n := range b.nodes {
		b.nextNodeID = max(b.nextNodeID, n.ID+1)
	}
	for _, e := range b.edges {
		b.nextEdgeID = max(b.nextEdgeID, e.ID+1)
	}

	return b, nil
}

// prepareTarget refuses to merge into an existing board. With replace set
// the existing board is removed inside the migration transaction.
func prepareTarget(ctx context.Context, tx pgx.Tx, replace bool) error {
	n, err := countRows(ctx, tx, "board_nodes")
	if err != nil {
		return fmt.Errorf("inspect target: %w", err)
	}
	if n == 0 {
		return nil
	}
	if !replace {
		return errTargetNotEmpty
	}

	slog.Warn("replacing existing target board", "nodes", n)
	if _, err := tx.Exec(ctx, `DELETE FROM board_edges`); err != nil {
		return fmt.Errorf("clear target edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM board_nodes`); err != nil {
		return fmt.Errorf("clear target nodes: %w", err)
	}
	return nil
}

// insertNodes batch-inserts nodes into PostgreSQL in groups of 100.
func insertNodes(ctx context.Context, tx pgx.Tx, nodes []node) error {
	const batchSize = 100
	for i := 0; i < len(nodes); i += batchSize {
		end := min(i+batchSize, len(nodes))

		batch := &pgx.Batch{}
		for _, n := range nodes[i:end] {
			batch.Queue(`INSERT INTO board_nodes (id, x, y) VALUES ($1, $2, $3)`, n.ID, n.X, n.Y)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// insertEdges copies edges whose endpoints both exist. Dangling edges are
// reported rather than failing the run.
func insertEdges(ctx context.Context, tx pgx.Tx, edges []edge, nodeSet map[int64]bool) (int, []skippedEdge, error) {
	var skipped []skippedEdge
	inserted := 0

	for _, e := range edges {
		switch {
		case !nodeSet[e.Source]:
			skipped = append(skipped, skippedEdge{ID: e.ID, Source: e.Source, Target: e.Target, Reason: "source node missing"})
			continue
		case !nodeSet[e.Target]:
			skipped = append(skipped, skippedEdge{ID: e.ID, Source: e.Source, Target: e.Target, Reason: "target node missing"})
			continue
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO board_edges (id, source, target) VALUES ($1, $2, $3)`,
			e.ID, e.Source, e.Target,
		); err != nil {
			return inserted, skipped, fmt.Errorf("insert edge %d: %w", e.ID, err)
		}
		inserted++
	}

	return inserted, skipped, nil
}

func writeSequences(ctx context.Context, tx pgx.Tx, nextNode, nextEdge int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE board_sequences SET next_id = CASE name WHEN 'node' THEN $1::bigint ELSE $2::bigint END`,
		nextNode, nextEdge)
	return err
}

// buildNodeSet creates a set of node IDs for fast lookup.
func buildNodeSet(nodes []node) map[int64]bool {
	m := make(map[int64]bool, len(nodes))
	for _, n := range nodes {
		m[n.ID] = true
	}
	return m
}
