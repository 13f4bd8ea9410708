package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/domain"
	"github.com/latticekb/lattice/internal/middleware"
	"github.com/latticekb/lattice/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Store       domain.Store
	Pinger      Pinger
	Hub         *ws.Hub
	Ingestor    Ingestor
	CORSOrigins []string
	Version     string
	Backend     string
	MaxBodySize int64
}

// defaultMaxBodySize matches the classifier's document ceiling.
const defaultMaxBodySize = 10 << 20

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.

	bodyLimit := deps.MaxBodySize
	if bodyLimit <= 0 {
		bodyLimit = defaultMaxBodySize
	}

	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.MaxBodySize(bodyLimit))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (outside the /api group, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pinger, deps.Hub, log, deps.Version, deps.Backend)
	nodes := NewNodeHandler(deps.Store, log)
	edges := NewEdgeHandler(deps.Store, log)
	graph := NewGraphHandler(deps.Store, log)
	ingest := NewIngestHandler(deps.Ingestor, deps.Hub, log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Ingestion.
	api.POST("/ingest", ingest.Ingest)

	// Nodes.
	api.GET("/nodes", nodes.List)
	api.GET("/nodes/:id", nodes.Get)
	api.DELETE("/nodes/:id", nodes.Delete)

	// Edges.
	api.GET("/edges", edges.List)
	api.DELETE("/edges/:source/:target/:type", edges.Delete)

	// Graph traversal.
	api.GET("/graph/neighbors/:id", graph.Neighbors)

	// WebSocket endpoint.
	if deps.Hub != nil {
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(ctx, r.Group("/api"), deps)

	return r
}
