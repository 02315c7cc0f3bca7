package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
)

// sanitizeURL removes credentials from a database URL for display.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable URL]"
	}
	u.User = nil
	return u.String()
}

// envOr returns the environment variable value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// allowedTables is the set of table names that countRows may query.
var allowedTables = map[string]bool{
	"board_nodes": true,
	"board_edges": true,
}

// countRows counts rows in a board table.
func countRows(ctx context.Context, tx pgx.Tx, table string) (int, error) {
	if !allowedTables[table] {
		return 0, fmt.Errorf("disallowed table name: %s", table)
	}

	var count int
	sanitized := pgx.Identifier{table}.Sanitize()
	err := tx.QueryRow(ctx, "SELECT count(*) FROM "+sanitized).Scan(&count)
	return count, err
}

// spotCheck verifies up to 5 random nodes landed with the same position.
func spotCheck(ctx context.Context, tx pgx.Tx, nodes []node) ([]string, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	count := min(5, len(nodes))
	var checks []string

	for _, idx := range rand.Perm(len(nodes))[:count] {
		n := nodes[idx]
		var x, y float64
		err := tx.QueryRow(ctx, `SELECT x, y FROM board_nodes WHERE id = $1`, n.ID).Scan(&x, &y)
		if err != nil {
			return checks, fmt.Errorf("node %d: %w", n.ID, err)
		}
		if x == n.X && y == n.Y {
			checks = append(checks, fmt.Sprintf("✅ node %d at (%g, %g)", n.ID, x, y))
		} else {
			checks = append(checks, fmt.Sprintf("❌ node %d mismatch: pg(%g, %g) vs sqlite(%g, %g)", n.ID, x, y, n.X, n.Y))
		}
	}
	return checks, nil
}

// printReport outputs the final migration summary.
func printReport(w io.Writer, r *report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Graphboard Migration Report ===")
	if r.DryRun {
		fmt.Fprintln(w, "MODE: DRY RUN (no changes made)")
	}
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	fmt.Fprintf(w, "Target: %s\n", r.Target)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Nodes: %d read → %d inserted → %d verified %s\n",
		r.NodesRead, r.NodesInserted, r.NodesVerified, statusIcon(r.NodesInserted, r.NodesVerified, r.DryRun))
	if r.EdgesSkipped > 0 {
		fmt.Fprintf(w, "Edges: %d read → %d inserted (%d skipped) → %d verified %s\n",
			r.EdgesRead, r.EdgesInserted, r.EdgesSkipped, r.EdgesVerified, statusIcon(r.EdgesInserted, r.EdgesVerified, r.DryRun))
	} else {
		fmt.Fprintf(w, "Edges: %d read → %d inserted → %d verified %s\n",
			r.EdgesRead, r.EdgesInserted, r.EdgesVerified, statusIcon(r.EdgesInserted, r.EdgesVerified, r.DryRun))
	}
	fmt.Fprintf(w, "Next ids: node %d, edge %d\n", r.NextNodeID, r.NextEdgeID)

	if len(r.SkippedEdges) > 0 {
		fmt.Fprintln(w, "\nSkipped edges:")
		for _, s := range r.SkippedEdges {
			fmt.Fprintf(w, "  - edge %d: %d → %d (reason: %s)\n", s.ID, s.Source, s.Target, s.Reason)
		}
	}

	if len(r.SpotChecks) > 0 {
		fmt.Fprintln(w, "\nSpot checks:")
		for _, c := range r.SpotChecks {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}

	fmt.Fprintf(w, "\nDuration: %.1fs\n", r.Duration.Seconds())
	if r.Err != nil {
		fmt.Fprintf(w, "Status: FAILED: %v\n", r.Err)
	} else {
		fmt.Fprintln(w, "Status: SUCCESS")
	}
}

// statusIcon compares what was inserted with what the target now holds.
func statusIcon(inserted, verified int, dryRun bool) string {
	switch {
	case dryRun:
		return "⏳"
	case inserted == verified:
		return "✅"
	default:
		return "❌"
	}
}
