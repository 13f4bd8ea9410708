// Package store provides PostgreSQL-backed persistence for the graph.
//
// Each store owns one concern (nodes, edges, graph reads) and embeds shared
// helpers via the Base struct. Stores never import each other.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/dbpool"
	"github.com/latticekb/lattice/internal/domain"
)

const defaultQueryTimeout = 30 * time.Second

const maxListLimit = 500

// Base contains shared dependencies for all stores. Embed this in each
// store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// notify sends a pg_notify on the graph_changes channel (best-effort,
// post-commit).
func (b *Base) notify(table, op string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"table": table,
		"op":    op,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('graph_changes', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + op + " " + table + " notification")
	}
}

// Store aggregates all concern stores behind the domain contract.
type Store struct {
	*NodeStore
	*EdgeStore
	*GraphStore
}

var _ domain.Store = (*Store)(nil)

// New creates the aggregate store.
func New(base Base) *Store {
	return &Store{
		NodeStore:  NewNodeStore(base),
		EdgeStore:  NewEdgeStore(base),
		GraphStore: NewGraphStore(base),
	}
}
