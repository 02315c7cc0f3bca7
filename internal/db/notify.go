package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/dbpool"
)

// validChannel matches safe PostgreSQL LISTEN channel names.
var validChannel = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const (
	listenChannel     = "board_changes"
	initialBackoff    = 1 * time.Second
	maxBackoff        = 30 * time.Second
	backoffMultiplier = 2
	notifyTimeout     = 5 * time.Second
)

// maxNotifyPayload stays under PostgreSQL's 8000 byte NOTIFY limit.
const maxNotifyPayload = 7900

// Broadcaster sends change events to connected WebSocket clients.
type Broadcaster interface {
	BroadcastEvent(eventType string, data json.RawMessage)
}

// notification is the NOTIFY payload exchanged between server instances.
type notification struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Publisher sends board change events through pg_notify so every server
// sharing the database sees them. It implements domain.EventPublisher.
type Publisher struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

// NewPublisher creates a Publisher on pool.
func NewPublisher(pool *dbpool.Pool, log *logrus.Logger) *Publisher {
	return &Publisher{pool: pool, log: log}
}

// Publish sends a best-effort notification. Failures are logged.
func (p *Publisher) Publish(ctx context.Context, eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		p.log.WithError(err).WithField("type", eventType).Error("marshalling change event")
		return
	}

	payload, err := json.Marshal(notification{Type: eventType, Data: raw})
	if err != nil {
		p.log.WithError(err).Error("marshalling notification")
		return
	}

	if len(payload) > maxNotifyPayload {
		p.log.WithFields(logrus.Fields{"type": eventType, "size": len(payload)}).Warn("dropping oversized notification")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if _, err := p.pool.Exec(ctx, "SELECT pg_notify($1, $2)", listenChannel, string(payload)); err != nil {
		p.log.WithError(err).WithField("type", eventType).Warn("failed to send change notification")
	}
}

// NotifyBridge subscribes to PostgreSQL LISTEN/NOTIFY on the board_changes
// channel and forwards each event to the WebSocket hub.
type NotifyBridge struct {
	log  *logrus.Logger
	pool *dbpool.Pool
	hub  Broadcaster
}

// NewNotifyBridge creates a NotifyBridge wired to the given pool and hub.
func NewNotifyBridge(log *logrus.Logger, pool *dbpool.Pool, hub Broadcaster) *NotifyBridge {
	return &NotifyBridge{
		log:  log,
		pool: pool,
		hub:  hub,
	}
}

// Start verifies the database is reachable and launches the LISTEN loop in
// a background goroutine, which reconnects with backoff until ctx ends.
func (b *NotifyBridge) Start(ctx context.Context) error {
	if !validChannel.MatchString(listenChannel) {
		return fmt.Errorf("notify bridge: invalid channel name %q", listenChannel)
	}

	if err := b.pool.Ping(ctx); err != nil {
		return fmt.Errorf("notify bridge: database not reachable: %w", err)
	}

	go b.listen(ctx)

	return nil
}

func (b *NotifyBridge) listen(ctx context.Context) {
	backoff := initialBackoff

	for {
		if ctx.Err() != nil {
			return
		}

		err := b.subscribeAndForward(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}

		b.log.WithError(err).WithField("retry_in", backoff).
			Warn("notify bridge connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff)
	}
}

// subscribeAndForward holds one connection in LISTEN until it fails or ctx ends.
func (b *NotifyBridge) subscribeAndForward(ctx context.Context) error {
	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	sanitizedChannel := pgx.Identifier{listenChannel}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+sanitizedChannel); err != nil {
		return fmt.Errorf("executing LISTEN: %w", err)
	}

	b.log.WithField("channel", listenChannel).Info("notify bridge listening")

	for {
		// Periodic deadline so a dead socket is noticed.
		if err := conn.Conn().PgConn().Conn().SetReadDeadline(time.Now().Add(2 * time.Minute)); err != nil {
			return fmt.Errorf("setting read deadline: %w", err)
		}

		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return fmt.Errorf("waiting for notification: %w", err)
		}

		b.handleNotification(n)
	}
}

func (b *NotifyBridge) handleNotification(n *pgconn.Notification) {
	var payload notification
	if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil || payload.Type == "" {
		b.log.WithField("pid", n.PID).Warn("dropping malformed notification")
		return
	}

	b.log.WithFields(logrus.Fields{"type": payload.Type, "pid": n.PID}).Debug("notification received")

	b.hub.BroadcastEvent(payload.Type, payload.Data)
}

// nextBackoff doubles the backoff with ±25% jitter, capped at maxBackoff.
func nextBackoff(current time.Duration) time.Duration {
	next := min(current*backoffMultiplier, maxBackoff)

	jitter := float64(next) * (0.75 + rand.Float64()*0.5) //nolint:gosec // jitter doesn't need crypto rand.

	return time.Duration(jitter)
}
