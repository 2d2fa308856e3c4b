package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	// Use WAL mode for better concurrency
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the schema. The raw fund table keeps the upstream locale
// strings verbatim; normalization happens at load time so a parser fix never
// requires re-ingesting the dataset.
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS funds_raw (
		reference_date  TEXT NOT NULL,
		ticker          TEXT NOT NULL,
		sector          TEXT,
		price           TEXT NOT NULL,
		pvp             TEXT NOT NULL,
		pvpa            TEXT,
		dy_3m           TEXT NOT NULL,
		dy_6m           TEXT NOT NULL,
		dy_12m          TEXT NOT NULL,
		last_dividend   TEXT NOT NULL,
		net_assets      TEXT NOT NULL,
		asset_count     INTEGER,
		shareholders    TEXT NOT NULL,
		daily_liquidity TEXT NOT NULL,
		admin_fee       TEXT,
		management_fee  TEXT,
		performance_fee TEXT,
		PRIMARY KEY (reference_date, ticker)
	);

	CREATE INDEX IF NOT EXISTS idx_funds_raw_date ON funds_raw(reference_date);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
