package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/persistorai/graphboard/client"
)

var eventColors = map[string]*color.Color{
	"node.created":    color.New(color.FgGreen),
	"edge.created":    color.New(color.FgGreen),
	"node.moved":      color.New(color.FgCyan),
	"node.deleted":    color.New(color.FgRed),
	"edge.deleted":    color.New(color.FgRed),
	"graph.cleared":   color.New(color.FgRed, color.Bold),
	"graph.generated": color.New(color.FgMagenta),
	"reset":           color.New(color.FgYellow),
	"shutdown":        color.New(color.FgYellow),
}

// formatEvent renders one change-feed message as a single line.
func formatEvent(evt client.Event) string {
	c, ok := eventColors[evt.Type]
	if !ok {
		c = subtle
	}

	ts := evt.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	line := fmt.Sprintf("%s %s", subtle.Sprint(ts.Format(time.TimeOnly)), c.Sprint(evt.Type))
	if evt.ID != 0 {
		line += subtle.Sprintf(" #%d", evt.ID)
	}
	if len(evt.Data) > 0 {
		line += " " + string(evt.Data)
	}
	if evt.Message != "" {
		line += " " + evt.Message
	}
	return line
}

func newWatchCmd() *cobra.Command {
	var since uint64
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream board changes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			brand.Fprintf(os.Stderr, "watching %s\n", flagURL)
			err := apiClient.Watch(ctx, since, func(evt client.Event) error {
				if flagFmt == "json" {
					formatJSON(evt)
					return nil
				}
				fmt.Println(formatEvent(evt))
				return nil
			})
			if err != nil {
				fatal("watch", err)
			}
		},
	}
	cmd.Flags().Uint64Var(&since, "since", 0, "Replay buffered events after this id")
	return cmd
}
