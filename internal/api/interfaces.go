package api

import (
	"context"

	"github.com/persistorai/graphboard/internal/domain"
)

// GraphService is the board API the handlers drive.
type GraphService = domain.GraphService

// Pinger checks that the board store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClientCounter reports connected change-feed clients.
type ClientCounter interface {
	ClientCount() int
}
