// Package store provides the authoritative board stores.
//
// Three backends implement domain.GraphStore: MemoryStore for a single
// process, PostgresStore on a pgx pool and SQLiteStore on a local file.
// All of them assign node and edge ids from per-board sequences that start at
// zero and are reset by ClearGraph and ReplaceGraph.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/dbpool"
	"github.com/persistorai/graphboard/internal/domain"
)

const defaultQueryTimeout = 30 * time.Second

// Sequence names stored in board_sequences.
const (
	seqNode = "node"
	seqEdge = "edge"
)

// Compile-time checks: every backend must satisfy domain.GraphStore.
var (
	_ domain.GraphStore = (*PostgresStore)(nil)
	_ domain.GraphStore = (*SQLiteStore)(nil)
	_ domain.GraphStore = (*MemoryStore)(nil)
)

// Base contains shared dependencies for the PostgreSQL store.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// PostgresStore keeps the board in PostgreSQL.
type PostgresStore struct {
	Base
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(base Base) *PostgresStore {
	return &PostgresStore{Base: base}
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction so nodes and edges are read
// from the same snapshot.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{
		AccessMode: pgx.ReadOnly,
		IsoLevel:   pgx.RepeatableRead,
	})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// nextID allocates the next id from the named sequence inside tx.
func nextID(ctx context.Context, tx pgx.Tx, seq string) (int64, error) {
	var id int64

	err := tx.QueryRow(ctx,
		`UPDATE board_sequences SET next_id = next_id + 1 WHERE name = $1 RETURNING next_id - 1`,
		seq,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("allocating %s id: %w", seq, err)
	}

	return id, nil
}

// resetSequences rewinds both id sequences to zero inside tx.
func resetSequences(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `UPDATE board_sequences SET next_id = 0`); err != nil {
		return fmt.Errorf("resetting sequences: %w", err)
	}

	return nil
}

// isForeignKeyViolation reports whether err is a PostgreSQL FK violation,
// which happens when an endpoint is deleted concurrently with edge creation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
