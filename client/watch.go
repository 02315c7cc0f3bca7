package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
)

// watchReadLimit bounds a single change-feed frame.
const watchReadLimit = 1 << 16

// ErrStopWatch can be returned by a Watch callback to end the watch cleanly.
var ErrStopWatch = errors.New("stop watching")

func (c *Client) wsURL(path string) string {
	switch {
	case strings.HasPrefix(c.baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.baseURL, "https://") + path
	case strings.HasPrefix(c.baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.baseURL, "http://") + path
	default:
		return c.baseURL + path
	}
}

// Watch subscribes to the board change feed and calls fn for every message
// until ctx ends, the connection closes, or fn returns an error. Passing a
// non-zero lastEventID asks the server to replay newer buffered events
// first; if they are gone the server sends a "reset" event instead.
func (c *Client) Watch(ctx context.Context, lastEventID uint64, fn func(Event) error) error {
	header := http.Header{}
	header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}

	conn, _, err := websocket.Dial(ctx, c.wsURL("/api/v1/ws"), &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return fmt.Errorf("dial change feed: %w", err)
	}
	defer conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	conn.SetReadLimit(watchReadLimit)

	if err := wsjson.Write(ctx, conn, map[string]any{"type": "subscribe", "last_event_id": lastEventID}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	for {
		var evt Event
		if err := wsjson.Read(ctx, conn, &evt); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read change feed: %w", err)
		}

		if err := fn(evt); err != nil {
			if errors.Is(err, ErrStopWatch) {
				conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // best-effort
				return nil
			}
			return err
		}
	}
}
