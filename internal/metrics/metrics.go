// Package metrics defines Prometheus metrics for the lattice server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lattice_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	DocumentsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_documents_ingested_total",
			Help: "Documents ingested successfully, by detected dialect",
		},
		[]string{"dialect"},
	)

	DocumentsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lattice_documents_failed_total",
			Help: "Documents that failed classification or ingestion",
		},
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lattice_ingest_duration_seconds",
			Help:    "Per-document ingestion duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	NodesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lattice_nodes_created_total",
			Help: "Nodes created during ingestion",
		},
	)

	EdgesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lattice_edges_created_total",
			Help: "Edges created during ingestion",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lattice_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		DocumentsIngested, DocumentsFailed, IngestDuration,
		NodesCreated, EdgesCreated,
		WSConnections,
	)
}
