package store_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/db"
	"github.com/latticekb/lattice/internal/db/migrations"
	"github.com/latticekb/lattice/internal/dbpool"
	"github.com/latticekb/lattice/internal/store"
)

// setupTestStore connects to the database named by TEST_DATABASE_URL,
// applying migrations on first use. Tests are skipped when the variable is
// unset so the suite stays runnable without infrastructure.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}

	t.Cleanup(pool.Close)

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	return store.New(store.Base{Pool: pool, Log: log})
}
