// ABOUTME: Core database store for the WPISH server.
// ABOUTME: Handles backend selection, migrations, and connection management.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Migration version constants
const (
	MigrationV1 = 1 // Initial schema with request_logs table
	MigrationV2 = 2 // Add performance indexes for aggregation and filtering queries
	MigrationV3 = 3 // Plugin directory table
)

// CurrentSchemaVersion is the target version for the database schema
const CurrentSchemaVersion = MigrationV3

const postgresDriver = "pgx"

// Options selects the storage backend. DatabaseURL wins when set.
type Options struct {
	Path        string // SQLite file path (or ":memory:")
	DatabaseURL string // postgres://... DSN
}

type Store struct {
	db      *sql.DB
	dialect dialect
}

// New opens a SQLite-backed store at dbPath.
func New(dbPath string) (*Store, error) {
	return Open(Options{Path: dbPath})
}

// Open connects to the configured backend and applies pending migrations.
func Open(opts Options) (*Store, error) {
	if opts.DatabaseURL != "" {
		if !isPostgresURL(opts.DatabaseURL) {
			return nil, fmt.Errorf("unsupported database url scheme: %q", schemeOf(opts.DatabaseURL))
		}
		return open(postgresDriver, opts.DatabaseURL, dialectPostgres)
	}
	return open(sqliteDriver, opts.Path, dialectSQLite)
}

func open(driver, dsn string, d dialect) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Verify connection works
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pooling
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0) // Connections don't expire
	if d == dialectSQLite && dsn == ":memory:" {
		// every pooled connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	}

	if d == dialectSQLite {
		pragmas := []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
			"PRAGMA busy_timeout = 5000",
		}
		for _, pragma := range pragmas {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, err
			}
		}
	}

	s := &Store{db: db, dialect: d}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Backend names the active database backend ("sqlite" or "postgres").
func (s *Store) Backend() string {
	return s.dialect.String()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs all pending migrations
func (s *Store) migrate() error {
	if err := s.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := s.getCurrentMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	log.Printf("Database schema version: %d, target version: %d (%s)", currentVersion, CurrentSchemaVersion, s.dialect)

	if currentVersion < MigrationV1 {
		if err := s.migrateV1(); err != nil {
			return fmt.Errorf("migration v1 failed: %w", err)
		}
	}

	if currentVersion < MigrationV2 {
		if err := s.migrateV2(); err != nil {
			return fmt.Errorf("migration v2 failed: %w", err)
		}
	}

	if currentVersion < MigrationV3 {
		if err := s.migrateV3(); err != nil {
			return fmt.Errorf("migration v3 failed: %w", err)
		}
	}

	return nil
}

// createMigrationsTable creates the schema_migrations tracking table
func (s *Store) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			description TEXT
		)
	`)
	return err
}

// getCurrentMigrationVersion retrieves the current schema version
func (s *Store) getCurrentMigrationVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`
		SELECT COALESCE(MAX(version), 0) FROM schema_migrations
	`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// recordMigration records a completed migration
func (s *Store) recordMigration(version int, description string) error {
	_, err := s.db.Exec(s.dialect.rebind(`
		INSERT INTO schema_migrations (version, description)
		VALUES (?, ?)
	`), version, description)
	return err
}

func (s *Store) execAll(statements []string) error {
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrateV1 creates the initial request_logs table and indexes
func (s *Store) migrateV1() error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == dialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS request_logs (
			` + idColumn + `,
			request_id TEXT DEFAULT '',
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			api_name TEXT DEFAULT '',
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			query TEXT DEFAULT '',
			status_code INTEGER,
			duration_ms INTEGER,
			client TEXT,
			ip_address TEXT,
			user_agent TEXT,
			request_body TEXT,
			response_body TEXT,
			error TEXT
		)`,
		"CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp ON request_logs(timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_request_logs_path ON request_logs(path)",
		"CREATE INDEX IF NOT EXISTS idx_request_logs_status ON request_logs(status_code)",
		"CREATE INDEX IF NOT EXISTS idx_request_logs_api ON request_logs(api_name)",
	}
	if err := s.execAll(schema); err != nil {
		return err
	}

	if err := s.recordMigration(MigrationV1, "Create request_logs table and indexes"); err != nil {
		return err
	}

	log.Printf("Applied migration v%d: Create request_logs table and indexes", MigrationV1)
	return nil
}

// migrateV2 adds composite indexes for aggregation and filtering queries
func (s *Store) migrateV2() error {
	indexes := []string{
		// GetTopEndpoints groups by path
		"CREATE INDEX IF NOT EXISTS idx_request_logs_path_count ON request_logs(path, status_code)",

		// GetAPIRequestCount and GetAPIErrorRate filter by api_name and time range
		"CREATE INDEX IF NOT EXISTS idx_request_logs_api_timestamp ON request_logs(api_name, timestamp DESC)",

		// GetRequestLogs multi-column filtering
		"CREATE INDEX IF NOT EXISTS idx_request_logs_api_method_status ON request_logs(api_name, method, status_code)",

		// Only identified callers are counted in GetRequestLogStats
		"CREATE INDEX IF NOT EXISTS idx_request_logs_client ON request_logs(client) WHERE client != ''",

		"CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp_status ON request_logs(timestamp DESC, status_code)",
	}

	if err := s.execAll(indexes); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := s.recordMigration(MigrationV2, "Add composite indexes for aggregation and filtering queries"); err != nil {
		return err
	}

	log.Printf("Applied migration v%d: Add composite indexes for query optimization", MigrationV2)
	return nil
}

// migrateV3 creates the plugins table served by the plugin directory API.
// Column order is part of the API output: rows are passed through as-is.
func (s *Store) migrateV3() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS plugins (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			author_profile TEXT NOT NULL DEFAULT '',
			requires TEXT NOT NULL DEFAULT '',
			tested TEXT NOT NULL DEFAULT '',
			requires_php TEXT NOT NULL DEFAULT '',
			rating BIGINT NOT NULL DEFAULT 0,
			num_ratings BIGINT NOT NULL DEFAULT 0,
			active_installs BIGINT NOT NULL DEFAULT 0,
			downloaded BIGINT NOT NULL DEFAULT 0,
			short_description TEXT NOT NULL DEFAULT '',
			homepage TEXT NOT NULL DEFAULT '',
			download_link TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '{}',
			added TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL DEFAULT ''
		)`,
	}
	if err := s.execAll(schema); err != nil {
		return err
	}

	if err := s.recordMigration(MigrationV3, "Create plugins table"); err != nil {
		return err
	}

	log.Printf("Applied migration v%d: Create plugins table", MigrationV3)
	return nil
}

func isPostgresURL(dsn string) bool {
	scheme := schemeOf(dsn)
	return scheme == "postgres" || scheme == "postgresql"
}

func schemeOf(dsn string) string {
	scheme, _, ok := strings.Cut(dsn, "://")
	if !ok {
		return ""
	}
	return strings.ToLower(scheme)
}

// Reset deletes every plugin and request log row, keeping the schema.
// It backs `reset` when the database is not a local file.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"plugins", "request_logs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
