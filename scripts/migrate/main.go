// Package main provides a standalone script that copies a board from a
// SQLite database into PostgreSQL. Both databases must already carry the
// board schema, which the server applies on startup.
//
// Usage:
//
//	SQLITE_PATH=graphboard.db DATABASE_URL=postgres://... go run ./scripts/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	_ "modernc.org/sqlite"
)

// config holds environment-driven migration settings.
type config struct {
	SQLitePath  string
	DatabaseURL string
	Replace     bool
	DryRun      bool
}

// skippedEdge records an edge that was skipped during migration.
type skippedEdge struct {
	ID     int64
	Source int64
	Target int64
	Reason string
}

// report holds the final migration summary.
type report struct {
	Source        string
	Target        string
	NodesRead     int
	NodesInserted int
	NodesVerified int
	EdgesRead     int
	EdgesInserted int
	EdgesSkipped  int
	EdgesVerified int
	NextNodeID    int64
	NextEdgeID    int64
	SkippedEdges  []skippedEdge
	SpotChecks    []string
	Duration      time.Duration
	DryRun        bool
	Err           error
}

func main() {
	cfg := loadConfig()
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	slog.Info("starting migration",
		"sqlite", cfg.SQLitePath,
		"replace", cfg.Replace,
		"dry_run", cfg.DryRun,
	)

	start := time.Now()
	r, err := runMigration(context.Background(), cfg)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		slog.Error("migration failed", "error", err)
	}
	printReport(os.Stdout, &r)
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration from environment variables.
func loadConfig() config {
	return config{
		SQLitePath:  envOr("SQLITE_PATH", "graphboard.db"),
		DatabaseURL: envOr("DATABASE_URL", ""),
		Replace:     isTrue(os.Getenv("REPLACE")),
		DryRun:      isTrue(os.Getenv("DRY_RUN")),
	}
}

// runMigration executes the full migration pipeline in one PostgreSQL
// transaction, so a failed run leaves the target untouched.
//
//nolint:funlen // Migration pipeline is sequential; splitting would hurt readability.
func runMigration(ctx context.Context, cfg config) (report, error) {
	r := report{
		Source: cfg.SQLitePath,
		Target: sanitizeURL(cfg.DatabaseURL),
		DryRun: cfg.DryRun,
	}

	lite, err := sql.Open("sqlite", "file:"+cfg.SQLitePath+"?mode=ro")
	if err != nil {
		return r, fmt.Errorf("open sqlite: %w", err)
	}
	defer lite.Close()

	b, err := readBoard(ctx, lite)
	if err != nil {
		return r, err
	}
	r.NodesRead = len(b.nodes)
	r.EdgesRead = len(b.edges)
	r.NextNodeID, r.NextEdgeID = b.nextNodeID, b.nextEdgeID
	slog.Info("read board from sqlite", "nodes", r.NodesRead, "edges", r.EdgesRead)

	if cfg.DryRun {
		slog.Info("dry run, skipping PostgreSQL writes")
		r.NodesInserted = r.NodesRead
		r.EdgesInserted = r.EdgesRead
		return r, nil
	}

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return r, fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return r, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := prepareTarget(ctx, tx, cfg.Replace); err != nil {
		return r, err
	}

	if err := insertNodes(ctx, tx, b.nodes); err != nil {
		return r, fmt.Errorf("insert nodes: %w", err)
	}
	r.NodesInserted = len(b.nodes)
	slog.Info("inserted nodes", "count", r.NodesInserted)

	inserted, skipped, err := insertEdges(ctx, tx, b.edges, buildNodeSet(b.nodes))
	if err != nil {
		return r, fmt.Errorf("insert edges: %w", err)
	}
	r.EdgesInserted = inserted
	r.EdgesSkipped = len(skipped)
	r.SkippedEdges = skipped
	slog.Info("inserted edges", "count", r.EdgesInserted, "skipped", r.EdgesSkipped)

	if err := writeSequences(ctx, tx, b.nextNodeID, b.nextEdgeID); err != nil {
		return r, fmt.Errorf("write sequences: %w", err)
	}

	r.NodesVerified, err = countRows(ctx, tx, "board_nodes")
	if err != nil {
		return r, fmt.Errorf("verify node count: %w", err)
	}
	r.EdgesVerified, err = countRows(ctx, tx, "board_edges")
	if err != nil {
		return r, fmt.Errorf("verify edge count: %w", err)
	}

	r.SpotChecks, err = spotCheck(ctx, tx, b.nodes)
	if err != nil {
		return r, fmt.Errorf("spot check: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return r, fmt.Errorf("commit: %w", err)
	}
	slog.Info("transaction committed")
	return r, nil
}
