package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
)

// SQLiteStore keeps the board in a SQLite database. The schema is created
// by the sqlite migrations in internal/db; foreign keys must be enabled on
// the connection so deleting a node cascades to its edges.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewSQLiteStore creates a SQLiteStore over an open, migrated database.
func NewSQLiteStore(db *sql.DB, log *logrus.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetGraph returns every node and edge in id order.
func (s *SQLiteStore) GetGraph(ctx context.Context) (*models.Graph, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // nothing to commit, rollback is cleanup.

	g := emptyGraph(0, 0)

	nodeRows, err := tx.QueryContext(ctx, `SELECT `+nodeColumns+` FROM board_nodes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}

	if g.Nodes, err = collectSQL(nodeRows, scanNode, g.Nodes); err != nil {
		return nil, err
	}

	edgeRows, err := tx.QueryContext(ctx, `SELECT `+edgeColumns+` FROM board_edges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}

	if g.Edges, err = collectSQL(edgeRows, scanEdge, g.Edges); err != nil {
		return nil, err
	}

	return g, nil
}

// CreateNode inserts a node at (x, y) with the next node id.
func (s *SQLiteStore) CreateNode(ctx context.Context, x, y float64) (*models.Node, error) {
	var n models.Node

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		id, err := sqliteNextID(ctx, tx, seqNode)
		if err != nil {
			return err
		}

		n, err = scanNode(tx.QueryRowContext(ctx,
			`INSERT INTO board_nodes (id, x, y) VALUES (?, ?, ?) RETURNING `+nodeColumns, id, x, y))

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating node: %w", err)
	}

	return &n, nil
}

// CreateEdge connects source to target. Both nodes must exist.
func (s *SQLiteStore) CreateEdge(ctx context.Context, source, target int64) (*models.Edge, error) {
	var e models.Edge

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, ep := range []struct {
			role string
			id   int64
		}{{"source", source}, {"target", target}} {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM board_nodes WHERE id = ?)`, ep.id).Scan(&exists); err != nil {
				return fmt.Errorf("checking %s node: %w", ep.role, err)
			}

			if !exists {
				return endpointError(ep.role, ep.id)
			}
		}

		id, err := sqliteNextID(ctx, tx, seqEdge)
		if err != nil {
			return err
		}

		e, err = scanEdge(tx.QueryRowContext(ctx,
			`INSERT INTO board_edges (id, source, target) VALUES (?, ?, ?) RETURNING `+edgeColumns,
			id, source, target))

		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("creating edge: %w", err)
	}

	return &e, nil
}

// UpdateNodePosition moves an existing node.
func (s *SQLiteStore) UpdateNodePosition(ctx context.Context, id int64, x, y float64) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := scanNode(s.db.QueryRowContext(ctx,
		`UPDATE board_nodes SET x = ?, y = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? RETURNING `+nodeColumns,
		x, y, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNodeNotFound
		}

		return nil, fmt.Errorf("updating node position: %w", err)
	}

	return &n, nil
}

// DeleteNode removes a node and, through the cascading foreign keys, its edges.
func (s *SQLiteStore) DeleteNode(ctx context.Context, id int64) error {
	return s.deleteOne(ctx, `DELETE FROM board_nodes WHERE id = ?`, id, models.ErrNodeNotFound)
}

// DeleteEdge removes a single edge.
func (s *SQLiteStore) DeleteEdge(ctx context.Context, id int64) error {
	return s.deleteOne(ctx, `DELETE FROM board_edges WHERE id = ?`, id, models.ErrEdgeNotFound)
}

// ClearGraph empties the board and resets both id sequences.
func (s *SQLiteStore) ClearGraph(ctx context.Context) error {
	if err := s.inTx(ctx, func(tx *sql.Tx) error { return sqliteTruncate(ctx, tx) }); err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}

	return nil
}

// ReplaceGraph swaps the board for plan. Ids restart at zero in plan order.
func (s *SQLiteStore) ReplaceGraph(ctx context.Context, plan models.GraphPlan) (*models.Graph, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	g := planGraph(plan)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := sqliteTruncate(ctx, tx); err != nil {
			return err
		}

		if err := insertBatch(ctx, tx, "board_nodes (id, x, y)", len(g.Nodes), func(i int) []any {
			return []any{g.Nodes[i].ID, g.Nodes[i].X, g.Nodes[i].Y}
		}); err != nil {
			return err
		}

		if err := insertBatch(ctx, tx, "board_edges (id, source, target)", len(g.Edges), func(i int) []any {
			return []any{g.Edges[i].ID, g.Edges[i].Source, g.Edges[i].Target}
		}); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE board_sequences SET next_id = CASE name WHEN 'node' THEN ? ELSE ? END`,
			len(g.Nodes), len(g.Edges))

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("replacing graph: %w", err)
	}

	return g, nil
}

// Stats returns node and edge counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*models.Stats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var st models.Stats
	if err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM board_nodes), (SELECT COUNT(*) FROM board_edges)`,
	).Scan(&st.Nodes, &st.Edges); err != nil {
		return nil, fmt.Errorf("counting board: %w", err)
	}

	return &st, nil
}

// Ping verifies the database file is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// inTx runs fn inside a read-write transaction, committing on success.
func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort rollback after commit.

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

func (s *SQLiteStore) deleteOne(ctx context.Context, query string, id int64, notFound error) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}

func sqliteNextID(ctx context.Context, tx *sql.Tx, seq string) (int64, error) {
	var id int64
	if err := tx.QueryRowContext(ctx,
		`UPDATE board_sequences SET next_id = next_id + 1 WHERE name = ? RETURNING next_id - 1`, seq,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocating %s id: %w", seq, err)
	}

	return id, nil
}

func sqliteTruncate(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{
		`DELETE FROM board_edges`,
		`DELETE FROM board_nodes`,
		`UPDATE board_sequences SET next_id = 0`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("truncating board: %w", err)
		}
	}

	return nil
}

// sqliteBatchRows keeps multi-row inserts under SQLite's bound-parameter limit.
const sqliteBatchRows = 200

// insertBatch inserts n rows into target using multi-row VALUES lists.
func insertBatch(ctx context.Context, tx *sql.Tx, target string, n int, row func(i int) []any) error {
	for start := 0; start < n; start += sqliteBatchRows {
		end := min(start+sqliteBatchRows, n)

		var b strings.Builder
		b.WriteString("INSERT INTO " + target + " VALUES ")

		args := make([]any, 0, (end-start)*3)
		for i := start; i < end; i++ {
			vals := row(i)
			if i > start {
				b.WriteByte(',')
			}

			b.WriteByte('(')
			b.WriteString(strings.TrimSuffix(strings.Repeat("?,", len(vals)), ","))
			b.WriteByte(')')

			args = append(args, vals...)
		}

		if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", target, err)
		}
	}

	return nil
}

// collectSQL scans every database/sql row with scan and appends to dst.
func collectSQL[T any](rows *sql.Rows, scan func(rowScanner) (T, error), dst []T) ([]T, error) {
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
