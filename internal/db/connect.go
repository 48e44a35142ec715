package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:mindengage-rewards.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/mindengage_rewards?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// SQLite should not use many concurrent writers; keep pool small.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS progress_cache (
  key TEXT PRIMARY KEY,
  doc TEXT NOT NULL,               -- JSON Course[]
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reward_log (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,              -- lection|course
  student TEXT NOT NULL,
  course_id INTEGER NOT NULL,
  lection_id INTEGER NOT NULL DEFAULT 0,
  level INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL CHECK (status IN ('ok','failed')),
  tx_hash TEXT NOT NULL DEFAULT '',
  error TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS approved_callers (
  address TEXT PRIMARY KEY,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_grants (
  student TEXT NOT NULL,
  course_id INTEGER NOT NULL,
  lesson_id INTEGER NOT NULL,
  is_lesson INTEGER NOT NULL,
  level INTEGER NOT NULL,
  tx_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  PRIMARY KEY (student, course_id, lesson_id, is_lesson, level)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS progress_cache (
  key TEXT PRIMARY KEY,
  doc TEXT NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS reward_log (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  student TEXT NOT NULL,
  course_id BIGINT NOT NULL,
  lection_id BIGINT NOT NULL DEFAULT 0,
  level INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL CHECK (status IN ('ok','failed')),
  tx_hash TEXT NOT NULL DEFAULT '',
  error TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS approved_callers (
  address TEXT PRIMARY KEY,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_grants (
  student TEXT NOT NULL,
  course_id BIGINT NOT NULL,
  lesson_id BIGINT NOT NULL,
  is_lesson BOOLEAN NOT NULL,
  level INTEGER NOT NULL,
  tx_hash TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  PRIMARY KEY (student, course_id, lesson_id, is_lesson, level)
);
`
