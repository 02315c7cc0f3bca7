package client

import (
	"encoding/json"
	"time"
)

// Node is a vertex on the board. X and Y are the marker's top-left corner.
type Node struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     int64 `json:"id"`
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

// Graph is the whole board.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// PositionRequest is the payload for creating or moving a node.
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateEdgeRequest is the payload for connecting two nodes.
type CreateEdgeRequest struct {
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

// Generator kinds for GraphService.Generate.
const (
	GenerateComplete = "complete"
	GenerateRandom   = "random"
)

// GenerateRequest replaces the board with a generated graph.
type GenerateRequest struct {
	Kind  string `json:"kind"`
	Nodes int    `json:"nodes"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Store         string  `json:"store"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// StatsResponse holds aggregate board counts.
type StatsResponse struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Event is a change notification received from the WebSocket feed. Control
// messages ("reset", "shutdown") carry no ID.
type Event struct {
	Type    string          `json:"type"`
	ID      uint64          `json:"id"`
	Data    json.RawMessage `json:"data,omitempty"`
	Time    time.Time       `json:"time"`
	Reason  string          `json:"reason,omitempty"`
	Message string          `json:"message,omitempty"`
}
