package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Per-connection limits.
const (
	writeTimeout     = 10 * time.Second
	wsReadLimit      = 4096
	clientSendBuffer = 256
	maxConnLifetime  = 4 * time.Hour
	pingInterval     = 30 * time.Second
	pingTimeout      = 10 * time.Second
	maxMissedPongs   = 2
)

// Client is one change feed subscriber. The hub and the client's own read
// pump write encoded frames to send through enqueue; WritePump drains it
// onto the socket.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	log         *logrus.Entry
	connectedAt time.Time

	// mu guards closed and orders every send against the close of send.
	mu     sync.Mutex
	closed bool
}

// NewClient registers nothing; call Hub.Register after creating it.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
		log: hub.log.WithFields(logrus.Fields{
			"ws_client": uuid.NewString()[:8],
			"remote":    remoteAddr,
		}),
		connectedAt: time.Now(),
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// enqueue offers msg without blocking. It reports false when the buffer is
// full or the hub has already dropped the client.
func (c *Client) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// queueControl enqueues a control frame. A full buffer drops it; the
// subscriber is already behind and will be reset.
func (c *Client) queueControl(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		c.log.WithError(err).Error("marshalling control message")
		return
	}

	c.enqueue(msg)
}

// ReadPump consumes subscribe requests until the connection closes, then
// unregisters the client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				c.log.WithField("status", status).Debug("subscriber disconnected")
			}

			return
		}

		c.handleMessage(data)
	}
}

// handleMessage replays buffered events after a subscribe request. When the
// requested id has aged out the client is told to reload the whole board.
func (c *Client) handleMessage(data []byte) {
	var msg SubscribeMsg
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "subscribe" {
		c.log.Debug("ignoring unknown client message")
		return
	}

	if c.hub.ReplayEvents(c, msg.LastEventID) {
		c.log.WithField("last_event_id", msg.LastEventID).Debug("replayed buffered events")
		return
	}

	c.queueControl(ResetMsg{
		Type:   "reset",
		Reason: "requested events no longer available, perform full refresh",
	})
}

// WritePump writes queued frames until the hub closes send, a write or
// keepalive fails, or the connection outlives maxConnLifetime.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	lifetime := time.NewTimer(time.Until(c.connectedAt.Add(maxConnLifetime)))
	defer lifetime.Stop()

	keepalive := time.NewTicker(pingInterval)
	defer keepalive.Stop()

	missed := 0

	for {
		select {
		case <-keepalive.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()

			if err == nil {
				missed = 0
				continue
			}

			if missed++; missed >= maxMissedPongs {
				c.log.WithError(err).Debug("closing subscriber after missed pongs")
				return
			}

		case msg, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // best-effort
				return
			}

			if err := c.write(ctx, msg); err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}

		case <-lifetime.C:
			// Subscribers reconnect and resume from their last event id.
			c.log.Info("closing subscriber: max connection lifetime exceeded")
			c.conn.Close(websocket.StatusGoingAway, "max connection lifetime exceeded") //nolint:errcheck // best-effort

			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return c.conn.Write(ctx, websocket.MessageText, msg)
}
