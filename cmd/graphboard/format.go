package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/persistorai/graphboard/internal/editor"
	"github.com/persistorai/graphboard/internal/models"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	writeTable(os.Stdout, headers, rows)
}

func writeTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(id string) {
	fmt.Println(id)
}

func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	default:
		formatJSON(v)
	}
}

// boardView is the JSON shape printed for a whole board.
type boardView struct {
	Nodes []models.Node `json:"nodes"`
	Edges []models.Edge `json:"edges"`
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// outputBoard prints a snapshot. Tables list nodes then edges; quiet prints
// node ids one per line.
func outputBoard(s editor.Snapshot) {
	switch flagFmt {
	case "table":
		nodeRows := make([][]string, 0, len(s.Nodes))
		for _, n := range s.Nodes {
			nodeRows = append(nodeRows, []string{strconv.FormatInt(n.ID, 10), formatCoord(n.X), formatCoord(n.Y)})
		}
		formatTable([]string{"NODE", "X", "Y"}, nodeRows)
		fmt.Println()

		edgeRows := make([][]string, 0, len(s.Edges))
		for _, e := range s.Edges {
			edgeRows = append(edgeRows, []string{
				strconv.FormatInt(e.ID, 10), strconv.FormatInt(e.Source, 10), strconv.FormatInt(e.Target, 10),
			})
		}
		formatTable([]string{"EDGE", "SOURCE", "TARGET"}, edgeRows)
	case "quiet":
		for _, n := range s.Nodes {
			formatQuiet(strconv.FormatInt(n.ID, 10))
		}
	default:
		v := boardView{Nodes: s.Nodes, Edges: s.Edges}
		if v.Nodes == nil {
			v.Nodes = []models.Node{}
		}
		if v.Edges == nil {
			v.Edges = []models.Edge{}
		}
		formatJSON(v)
	}
}
