package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// ParseDSN splits a DSN into a driver name and the driver-specific source.
// "sqlite://path", "sqlite::memory:" and "file:..." select SQLite; anything else,
// optionally prefixed with "mysql://", is a MySQL DSN.
func ParseDSN(dsn string) (driver, source string) {
	switch {
	case dsn == "sqlite::memory:":
		return DriverSQLite, ":memory:"
	case strings.HasPrefix(dsn, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "file:"):
		return DriverSQLite, dsn
	default:
		return DriverMySQL, strings.TrimPrefix(dsn, "mysql://")
	}
}

// NewDB opens a connection pool for dsn and returns it with the selected driver name.
func NewDB(dsn string) (*sql.DB, string, error) {
	driver, source := ParseDSN(dsn)

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", err
	}

	if driver == DriverSQLite {
		// A single connection keeps ":memory:" databases shared and serialises writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("pinging %s database: %w", driver, err)
	}

	return db, driver, nil
}

var schema = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS users (
			id         BIGINT AUTO_INCREMENT PRIMARY KEY,
			email      VARCHAR(255) NOT NULL UNIQUE,
			auth_hash  VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS agent_runs (
			id          VARCHAR(36) PRIMARY KEY,
			user_id     BIGINT NOT NULL,
			query       TEXT NOT NULL,
			answer      TEXT NOT NULL,
			steps       JSON NOT NULL,
			error       TEXT NOT NULL,
			started_at  DATETIME(6) NOT NULL,
			finished_at DATETIME(6) NOT NULL,
			INDEX idx_agent_runs_user (user_id, started_at)
		)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email      TEXT NOT NULL UNIQUE,
			auth_hash  TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS agent_runs (
			id          TEXT PRIMARY KEY,
			user_id     INTEGER NOT NULL,
			query       TEXT NOT NULL,
			answer      TEXT NOT NULL,
			steps       TEXT NOT NULL,
			error       TEXT NOT NULL,
			started_at  TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_agent_runs_user ON agent_runs (user_id, started_at)`,
	},
}

// Migrate creates the tables used by the repositories if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, ok := schema[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating %s schema: %w", driver, err)
		}
	}
	slog.Debug("database schema ready", "driver", driver)
	return nil
}
