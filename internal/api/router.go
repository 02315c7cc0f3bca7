package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/middleware"
	"github.com/persistorai/graphboard/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Graph       GraphService
	Store       Pinger
	Hub         *ws.Hub
	CORSOrigins []string
	Version     string
	Backend     string
	APIKey      string
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst,
		"/api/v1/health", "/api/v1/ready", "/api/v1/ws", "/metrics",
	).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	var clients ClientCounter
	if deps.Hub != nil {
		clients = deps.Hub
	}

	health := NewHealthHandler(deps.Store, clients, log, deps.Version, deps.Backend)
	nodes := NewNodeHandler(deps.Graph, log)
	edges := NewEdgeHandler(deps.Graph, log)
	graph := NewGraphHandler(deps.Graph, log)
	render := NewRenderHandler(deps.Graph, log)
	stats := NewStatsHandler(deps.Graph, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.Use(middleware.APIKeyAuth(deps.APIKey, log))

	// Board.
	api.GET("/graph", graph.Get)
	api.DELETE("/graph", graph.Clear)
	api.POST("/graph/generate", graph.Generate)
	api.GET("/graph/render.svg", render.SVG)
	api.GET("/graph/render.png", render.PNG)

	// Nodes.
	api.POST("/nodes", nodes.Create)
	api.PUT("/nodes/:id/position", nodes.Move)
	api.DELETE("/nodes/:id", nodes.Delete)

	// Edges.
	api.POST("/edges", edges.Create)
	api.DELETE("/edges/:id", edges.Delete)

	api.GET("/stats", stats.GetStats)

	if deps.Hub != nil {
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
