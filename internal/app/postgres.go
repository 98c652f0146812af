package app

import (
	"database/sql"
	"fmt"

	"github.com/guttosm/vitipulse/config"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitPostgres initializes a PostgreSQL connection for the artifact sink.
//
// Behavior:
//   - Builds a DSN from the global config's Postgres settings.
//   - Opens a database handle with sql.Open.
//   - Immediately pings the database to validate connectivity.
//
// Returns:
//   - *sql.DB: an open database connection pool.
//   - error: if opening or pinging the database fails.
func InitPostgres() (*sql.DB, error) {
	cfg := config.AppConfig.Postgres

	db, err := sqlOpener("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// postgresOpener is an indirection used by the sink; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres
