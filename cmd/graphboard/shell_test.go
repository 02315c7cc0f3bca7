package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/persistorai/graphboard/internal/editor"
)

func TestParseShellLine(t *testing.T) {
	tests := []struct {
		line       string
		wantAction shellAction
		wantEvents []editor.Event
		wantErr    bool
	}{
		{line: "", wantAction: actionNone},
		{line: "   ", wantAction: actionNone},
		{line: "add-node", wantAction: actionEvents, wantEvents: []editor.Event{{Gesture: editor.GestureAddNode}}},
		{line: "REFRESH", wantAction: actionEvents, wantEvents: []editor.Event{{Gesture: editor.GestureRefresh}}},
		{line: "clear", wantAction: actionEvents, wantEvents: []editor.Event{{Gesture: editor.GestureClear}}},
		{
			line:       "press 10 20.5",
			wantAction: actionEvents,
			wantEvents: []editor.Event{{Gesture: editor.GesturePress, Point: editor.Point{X: 10, Y: 20.5}}},
		},
		{
			line:       "dblclick -3 4",
			wantAction: actionEvents,
			wantEvents: []editor.Event{{Gesture: editor.GestureDoublePress, Point: editor.Point{X: -3, Y: 4}}},
		},
		{
			line:       "edge 1 x",
			wantAction: actionEvents,
			wantEvents: []editor.Event{
				{Gesture: editor.GestureEditForm, Source: "1", Target: "x"},
				{Gesture: editor.GestureAddEdge},
			},
		},
		{
			line:       "edge 4",
			wantAction: actionEvents,
			wantEvents: []editor.Event{
				{Gesture: editor.GestureEditForm, Source: "4"},
				{Gesture: editor.GestureAddEdge},
			},
		},
		{line: "show", wantAction: actionShow},
		{line: "help", wantAction: actionHelp},
		{line: "quit", wantAction: actionQuit},
		{line: "move 1", wantErr: true},
		{line: "release a 2", wantErr: true},
		{line: "press 1 b", wantErr: true},
		{line: "add-node now", wantErr: true},
		{line: "edge 1 2 3", wantErr: true},
		{line: "paint", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			t.Parallel()

			action, events, err := parseShellLine(tc.line)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v %v", action, events)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if action != tc.wantAction {
				t.Errorf("action = %d, want %d", action, tc.wantAction)
			}
			if diff := cmp.Diff(tc.wantEvents, events); diff != "" {
				t.Errorf("events (-want +got):\n%s", diff)
			}
		})
	}
}

// lockedBuffer lets notices written from round-trip goroutines be read
// safely once the shell has returned.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestShell(t *testing.T, seed ...editor.Point) (*shell, *lockedBuffer, editor.Store) {
	t.Helper()

	board := newLocalBoard()
	for _, p := range seed {
		if _, err := board.AddNode(t.Context(), p.X, p.Y); err != nil {
			t.Fatal(err)
		}
	}

	out := &lockedBuffer{}
	sh := &shell{scene: editor.NewScene(), out: out}
	sh.ctrl = editor.NewController(board, sh.scene, editor.WithNotifier(editor.NotifierFunc(sh.notify)))
	if err := sh.ctrl.Refresh(t.Context()); err != nil {
		t.Fatal(err)
	}
	return sh, out, board
}

func TestShell_DragAndEdge(t *testing.T) {
	sh, out, _ := newTestShell(t, editor.Point{X: 0, Y: 0}, editor.Point{X: 200, Y: 200})

	input := strings.Join([]string{
		"press 10 10",
		"move 60 70",
		"release 60 70",
		"edge 0 1",
		"quit",
		"add-node",
	}, "\n")

	if err := sh.run(t.Context(), strings.NewReader(input), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	snap := sh.ctrl.Snapshot()
	if len(snap.Nodes) != 2 {
		t.Fatalf("nodes = %+v; input after quit must be ignored", snap.Nodes)
	}
	if n, _ := findNode(snap, 0); n.X != 50 || n.Y != 60 {
		t.Errorf("dragged node = %+v, want (50,60)", n)
	}
	if len(snap.Edges) != 1 || snap.Edges[0].Source != 0 || snap.Edges[0].Target != 1 {
		t.Errorf("edges = %+v", snap.Edges)
	}
	if s, tg := sh.ctrl.EdgeForm(); s != "" || tg != "" {
		t.Errorf("edge form not cleared: %q %q", s, tg)
	}
	if strings.Contains(out.String(), "Please") {
		t.Errorf("unexpected notice:\n%s", out)
	}
}

func TestShell_Notices(t *testing.T) {
	sh, out, _ := newTestShell(t, editor.Point{X: 0, Y: 0})

	input := "edge 0\nedge 0 zero\nedge 0 5\nbogus\n"
	if err := sh.run(t.Context(), strings.NewReader(input), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Please enter both source and target node IDs.",
		"Invalid node IDs. Please enter numbers.",
		"target node 5: node not found",
		`unknown command "bogus"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if s, tg := sh.ctrl.EdgeForm(); s != "0" || tg != "5" {
		t.Errorf("rejected edge form = %q %q, want it kept", s, tg)
	}
}

func TestShell_Show(t *testing.T) {
	sh, out, _ := newTestShell(t, editor.Point{X: 15, Y: 25})

	if err := sh.run(t.Context(), strings.NewReader("press 20 30\nshow\n"), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{"NODE", "15", "25", "EDGE", "dragging node 0"} {
		if !strings.Contains(got, want) {
			t.Errorf("show output missing %q:\n%s", want, got)
		}
	}
}

func TestShell_LiveRefresh(t *testing.T) {
	sh, _, board := newTestShell(t)

	// Another client adds a node and the feed reports it once.
	fired := make(chan struct{})
	live := func(ctx context.Context, refresh func()) error {
		if _, err := board.AddNode(ctx, 5, 5); err != nil {
			return err
		}
		refresh()
		close(fired)
		<-ctx.Done()
		return nil
	}

	in, w := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- sh.run(t.Context(), in, live) }()

	<-fired
	w.Close()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := len(sh.ctrl.Snapshot().Nodes); got != 1 {
		t.Errorf("nodes after live refresh = %d, want 1", got)
	}
}
