package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/api"
	"github.com/latticekb/lattice/internal/config"
	"github.com/latticekb/lattice/internal/db"
	"github.com/latticekb/lattice/internal/db/migrations"
	"github.com/latticekb/lattice/internal/dbpool"
	"github.com/latticekb/lattice/internal/domain"
	"github.com/latticekb/lattice/internal/sqlitestore"
	"github.com/latticekb/lattice/internal/store"
)

// openStore opens the configured backend, applying migrations for postgres
// and the embedded schema for sqlite. The returned close function releases
// the connection.
func openStore(ctx context.Context, log *logrus.Logger) (domain.Store, func(), error) {
	st, _, closeStore, err := openStoreWithPinger(ctx, log)
	return st, closeStore, err
}

// openStoreWithPinger additionally returns the backend's health checker for
// the API server.
func openStoreWithPinger(ctx context.Context, log *logrus.Logger) (domain.Store, api.Pinger, func(), error) {
	switch flagBackend {
	case config.BackendPostgres:
		if flagDBURL == "" {
			return nil, nil, nil, fmt.Errorf("postgres backend requires --database-url or DATABASE_URL")
		}

		pool, err := dbpool.NewPool(ctx, flagDBURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
			pool.Close()

			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}

		return store.New(store.Base{Pool: pool, Log: log}), pool, pool.Close, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(flagDB), 0o755); err != nil {
			return nil, nil, nil, fmt.Errorf("creating database directory: %w", err)
		}

		st, err := sqlitestore.Open(flagDB, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}

		return st, st, func() { st.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown backend %q (want sqlite or postgres)", flagBackend)
	}
}
