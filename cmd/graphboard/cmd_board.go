package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/persistorai/graphboard/internal/editor"
	"github.com/persistorai/graphboard/internal/models"
)

func parseNodeID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		fatal("parse id", fmt.Errorf("%q is not a node id", s))
	}
	return id
}

func parseCoord(name, s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fatal("parse "+name, fmt.Errorf("%q is not a number", s))
	}
	return v
}

// newNode returns the node in after with the highest id not present in before.
func newNode(before, after editor.Snapshot) (models.Node, bool) {
	seen := make(map[int64]bool, len(before.Nodes))
	for _, n := range before.Nodes {
		seen[n.ID] = true
	}

	var found models.Node
	ok := false
	for _, n := range after.Nodes {
		if !seen[n.ID] && (!ok || n.ID > found.ID) {
			found, ok = n, true
		}
	}
	return found, ok
}

func newEdge(before, after editor.Snapshot) (models.Edge, bool) {
	seen := make(map[int64]bool, len(before.Edges))
	for _, e := range before.Edges {
		seen[e.ID] = true
	}

	var found models.Edge
	ok := false
	for _, e := range after.Edges {
		if !seen[e.ID] && (!ok || e.ID > found.ID) {
			found, ok = e, true
		}
	}
	return found, ok
}

func findNode(s editor.Snapshot, id int64) (models.Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Node{}, false
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctrl, _ := newBoardController(cmd.Context())
			outputBoard(ctrl.Snapshot())
		},
	}
}

func newAddNodeCmd() *cobra.Command {
	var width, height float64
	cmd := &cobra.Command{
		Use:   "add-node",
		Short: "Add a node at a random position",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			ctrl, _ := newBoardController(ctx, editor.WithBounds(width, height))
			before := ctrl.Snapshot()

			if err := ctrl.AddNode(ctx); err != nil {
				os.Exit(1)
			}

			n, ok := newNode(before, ctrl.Snapshot())
			if !ok {
				warn.Fprintln(os.Stderr, "node was added but is no longer on the board")
				return
			}
			output(n, strconv.FormatInt(n.ID, 10))
		},
	}
	cmd.Flags().Float64Var(&width, "width", editor.DefaultWidth, "Placement area width")
	cmd.Flags().Float64Var(&height, "height", editor.DefaultHeight, "Placement area height")
	return cmd
}

func newAddEdgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-edge <source> <target>",
		Short: "Connect two nodes",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			ctrl, _ := newBoardController(ctx)
			before := ctrl.Snapshot()

			ctrl.SetEdgeForm(args[0], args[1])
			if err := ctrl.AddEdge(ctx); err != nil {
				os.Exit(1)
			}

			e, ok := newEdge(before, ctrl.Snapshot())
			if !ok {
				warn.Fprintln(os.Stderr, "edge was added but is no longer on the board")
				return
			}
			output(e, strconv.FormatInt(e.ID, 10))
		},
	}
}

// errNotDraggable marks drag failures detected before any store call.
var errNotDraggable = errors.New("cannot drag")

// dragNode moves id to (x, y) the way a pointer would: press on the
// marker's top-left corner, move, release. With a zero grab offset the
// release lands exactly on to.
func dragNode(ctx context.Context, ctrl *editor.Controller, scene *editor.Scene, id int64, to editor.Point) error {
	pos, ok := scene.MarkerPosition(id)
	if !ok {
		return fmt.Errorf("%w: node %d: %w", errNotDraggable, id, models.ErrNodeNotFound)
	}

	if top, ok := scene.MarkerAt(pos); !ok || top.NodeID != id {
		return fmt.Errorf("%w: node %d is covered by another node", errNotDraggable, id)
	}

	for _, ev := range []editor.Event{
		{Gesture: editor.GesturePress, Point: pos},
		{Gesture: editor.GestureMove, Point: to},
		{Gesture: editor.GestureRelease, Point: to},
	} {
		if err := ctrl.Dispatch(ctx, ev); err != nil {
			return err
		}
	}

	return nil
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Drag a node to a new position",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			id := parseNodeID(args[0])
			to := editor.Point{X: parseCoord("x", args[1]), Y: parseCoord("y", args[2])}

			ctx := cmd.Context()
			ctrl, scene := newBoardController(ctx)

			if err := dragNode(ctx, ctrl, scene, id, to); err != nil {
				if errors.Is(err, errNotDraggable) {
					fatal("move", err)
				}
				os.Exit(1)
			}

			n, ok := findNode(ctrl.Snapshot(), id)
			if !ok {
				warn.Fprintf(os.Stderr, "node %d was moved but is no longer on the board\n", id)
				return
			}
			output(n, strconv.FormatInt(n.ID, 10))
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a node and its edges",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := parseNodeID(args[0])

			ctx := cmd.Context()
			ctrl, _ := newBoardController(ctx)
			if err := ctrl.DeleteNode(ctx, id); err != nil {
				os.Exit(1)
			}
			output(map[string]int64{"deleted": id}, args[0])
		},
	}
}

func newDeleteEdgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-edge <id>",
		Short: "Delete an edge",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := parseNodeID(args[0])
			if err := apiClient.Edges.Delete(cmd.Context(), id); err != nil {
				fatal("delete edge", err)
			}
			output(map[string]int64{"deleted": id}, args[0])
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every node and edge",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			ctrl, _ := newBoardController(ctx)
			if err := ctrl.ClearBoard(ctx); err != nil {
				os.Exit(1)
			}
			outputBoard(ctrl.Snapshot())
		},
	}
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "generate <complete|random> <n>",
		Short:     "Replace the board with a generated graph",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"complete", "random"},
		Run: func(cmd *cobra.Command, args []string) {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				fatal("parse n", fmt.Errorf("%q is not a number", args[1]))
			}
			g, err := apiClient.Graph.Generate(cmd.Context(), args[0], n)
			if err != nil {
				fatal("generate", err)
			}
			outputBoard(editor.SnapshotFromGraph(g))
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show board counts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			stats, err := apiClient.Stats(cmd.Context())
			if err != nil {
				fatal("stats", err)
			}
			switch flagFmt {
			case "table":
				formatTable([]string{"NODES", "EDGES"}, [][]string{{strconv.Itoa(stats.Nodes), strconv.Itoa(stats.Edges)}})
			default:
				output(stats, fmt.Sprintf("%d %d", stats.Nodes, stats.Edges))
			}
		},
	}
}
