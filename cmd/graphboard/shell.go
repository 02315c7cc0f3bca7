package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/graphboard/client"
	"github.com/persistorai/graphboard/internal/editor"
)

const shellHelp = `commands:
  add-node            add a node at a random position
  edge <s> <t>        fill the edge form and submit it
  press <x> <y>       press the pointer
  move <x> <y>        move the pointer
  release <x> <y>     release the pointer
  dblclick <x> <y>    double press (deletes the node under the pointer)
  clear               remove every node and edge
  refresh             re-fetch the board
  show                print what is drawn
  help                show this text
  quit                leave the shell`

type shellAction int

const (
	actionNone shellAction = iota
	actionEvents
	actionShow
	actionHelp
	actionQuit
)

var pointerGestures = map[string]editor.Gesture{
	"press":    editor.GesturePress,
	"move":     editor.GestureMove,
	"release":  editor.GestureRelease,
	"dblclick": editor.GestureDoublePress,
}

var controlGestures = map[string]editor.Gesture{
	"add-node": editor.GestureAddNode,
	"clear":    editor.GestureClear,
	"refresh":  editor.GestureRefresh,
}

// parseShellLine turns one line of input into the gestures it stands for.
// Edge ids are passed through as typed so the form validates them.
func parseShellLine(line string) (shellAction, []editor.Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return actionNone, nil, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]

	if g, ok := pointerGestures[name]; ok {
		if len(args) != 2 {
			return actionNone, nil, fmt.Errorf("usage: %s <x> <y>", name)
		}
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return actionNone, nil, fmt.Errorf("x: %q is not a number", args[0])
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return actionNone, nil, fmt.Errorf("y: %q is not a number", args[1])
		}
		return actionEvents, []editor.Event{{Gesture: g, Point: editor.Point{X: x, Y: y}}}, nil
	}

	if g, ok := controlGestures[name]; ok {
		if len(args) != 0 {
			return actionNone, nil, fmt.Errorf("usage: %s", name)
		}
		return actionEvents, []editor.Event{{Gesture: g}}, nil
	}

	switch name {
	case "edge":
		if len(args) > 2 {
			return actionNone, nil, errors.New("usage: edge <source> <target>")
		}
		form := editor.Event{Gesture: editor.GestureEditForm}
		if len(args) > 0 {
			form.Source = args[0]
		}
		if len(args) > 1 {
			form.Target = args[1]
		}
		return actionEvents, []editor.Event{form, {Gesture: editor.GestureAddEdge}}, nil
	case "show":
		return actionShow, nil, nil
	case "help", "?":
		return actionHelp, nil, nil
	case "quit", "exit":
		return actionQuit, nil, nil
	default:
		return actionNone, nil, fmt.Errorf("unknown command %q, try help", name)
	}
}

// shell is an interactive gesture session over one controller. Output from
// the prompt and from asynchronous notices is serialised through mu.
type shell struct {
	ctrl  *editor.Controller
	scene *editor.Scene
	out   io.Writer
	mu    sync.Mutex
}

func (s *shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.out, format, args...)
}

func (s *shell) notify(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	warn.Fprintln(s.out, editor.Notice(err))
}

// show prints the scene as currently drawn, which may include a marker
// mid-drag that the store has not seen yet.
func (s *shell) show() {
	f := s.scene.Frame()

	markers := make([][]string, 0, len(f.Markers))
	for _, m := range f.Markers {
		markers = append(markers, []string{m.Label, formatCoord(m.X), formatCoord(m.Y)})
	}
	connectors := make([][]string, 0, len(f.Connectors))
	for _, c := range f.Connectors {
		connectors = append(connectors, []string{
			strconv.FormatInt(c.EdgeID, 10), strconv.FormatInt(c.Source, 10), strconv.FormatInt(c.Target, 10),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writeTable(s.out, []string{"NODE", "X", "Y"}, markers)
	fmt.Fprintln(s.out)
	writeTable(s.out, []string{"EDGE", "SOURCE", "TARGET"}, connectors)
	if id, ok := s.ctrl.Dragging(); ok {
		subtle.Fprintf(s.out, "dragging node %d\n", id)
	}
}

// run reads commands from in until quit or EOF. Gestures go through an
// editor.Loop, so their store round-trips overlap the prompt. When live is
// set, every change-feed event triggers a refresh.
func (s *shell) run(ctx context.Context, in io.Reader, live func(ctx context.Context, refresh func()) error) error {
	events := make(chan editor.Event)
	loopDone := make(chan error, 1)
	go func() { loopDone <- editor.NewLoop(s.ctrl).Run(ctx, events) }()

	send := func(ev editor.Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	var watchers errgroup.Group
	if live != nil {
		watchers.Go(func() error {
			err := live(watchCtx, func() {
				select {
				case events <- editor.Event{Gesture: editor.GestureRefresh}:
				case <-watchCtx.Done():
				}
			})
			if err != nil {
				s.notify(fmt.Errorf("change feed stopped: %w", err))
			}
			return nil
		})
	}

	scanner := bufio.NewScanner(in)
	s.printf("%s ", brand.Sprint("board>"))
	for scanner.Scan() {
		action, evs, err := parseShellLine(scanner.Text())
		if err != nil {
			s.notify(err)
		}

		quit := false
		switch action {
		case actionEvents:
			for _, ev := range evs {
				if !send(ev) {
					quit = true
					break
				}
			}
		case actionShow:
			s.show()
		case actionHelp:
			s.printf("%s\n", shellHelp)
		case actionQuit:
			quit = true
		}
		if quit {
			break
		}

		s.printf("%s ", brand.Sprint("board>"))
	}

	stopWatch()
	_ = watchers.Wait()
	close(events)
	loopErr := <-loopDone

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return loopErr
}

// watchRefresh calls refresh for every board change on the feed.
func watchRefresh(c *client.Client) func(ctx context.Context, refresh func()) error {
	return func(ctx context.Context, refresh func()) error {
		return c.Watch(ctx, 0, func(evt client.Event) error {
			if evt.Type == "shutdown" {
				return client.ErrStopWatch
			}
			refresh()
			return nil
		})
	}
}

func newShellCmd() *cobra.Command {
	var live bool
	var width, height float64
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Edit the board interactively with pointer gestures",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			sh := &shell{scene: editor.NewScene(), out: os.Stdout}
			sh.ctrl = editor.NewController(editor.NewRemoteStore(apiClient), sh.scene,
				editor.WithNotifier(editor.NotifierFunc(sh.notify)),
				editor.WithBounds(width, height),
			)

			// A failed first load is surfaced and the shell starts empty.
			_ = sh.ctrl.Refresh(ctx)

			var feed func(context.Context, func()) error
			if live {
				feed = watchRefresh(apiClient)
			}
			if err := sh.run(ctx, os.Stdin, feed); err != nil {
				fatal("shell", err)
			}
		},
	}
	cmd.Flags().BoolVar(&live, "live", false, "Refresh on every change from other clients")
	cmd.Flags().Float64Var(&width, "width", editor.DefaultWidth, "Placement area width")
	cmd.Flags().Float64Var(&height, "height", editor.DefaultHeight, "Placement area height")
	return cmd
}
