// ABOUTME: Tests for store initialization and schema migrations.
// ABOUTME: Verifies database setup, table creation and backend selection.

package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_wpish.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	tables := []string{"schema_migrations", "request_logs", "plugins"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}

	if s.Backend() != "sqlite" {
		t.Errorf("Backend() = %q, want sqlite", s.Backend())
	}
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_wpish.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Close()

	// Reopening must not re-apply migrations
	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer s.Close()

	var count, version int
	if err := s.db.QueryRow("SELECT COUNT(*), MAX(version) FROM schema_migrations").Scan(&count, &version); err != nil {
		t.Fatalf("query schema_migrations: %v", err)
	}
	if count != CurrentSchemaVersion {
		t.Errorf("migration rows = %d, want %d", count, CurrentSchemaVersion)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, CurrentSchemaVersion)
	}
}

func TestOpen_RejectsUnknownDatabaseURL(t *testing.T) {
	_, err := Open(Options{DatabaseURL: "mysql://localhost/wp"})
	if err == nil {
		t.Fatal("Open() error = nil, want error for mysql url")
	}
	if !strings.Contains(err.Error(), "mysql") {
		t.Errorf("error = %v, want it to name the scheme", err)
	}
}

func TestIsPostgresURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://localhost/wpish?sslmode=disable", true},
		{"postgresql://user:pw@db:5432/wpish", true},
		{"POSTGRES://localhost/wpish", true},
		{"mysql://localhost/wpish", false},
		{"wpish.db", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			if got := isPostgresURL(tt.dsn); got != tt.want {
				t.Errorf("isPostgresURL(%q) = %v, want %v", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestDialectRebind(t *testing.T) {
	query := "SELECT * FROM plugins WHERE id = ? OR slug = ? LIMIT ?"

	if got := dialectSQLite.rebind(query); got != query {
		t.Errorf("sqlite rebind changed query: %q", got)
	}

	want := "SELECT * FROM plugins WHERE id = $1 OR slug = $2 LIMIT $3"
	if got := dialectPostgres.rebind(query); got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}
}

func TestReset_ClearsRows(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()

	seedPlugins(t, s, 3)
	if err := s.LogRequest(&RequestLog{Method: "GET", Path: "/plugins/info/1.2", StatusCode: 200}); err != nil {
		t.Fatalf("LogRequest() error = %v", err)
	}

	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	total, err := s.CountPlugins(context.Background())
	if err != nil {
		t.Fatalf("CountPlugins() error = %v", err)
	}
	stats, err := s.GetRequestLogStats()
	if err != nil {
		t.Fatalf("GetRequestLogStats() error = %v", err)
	}
	if total != 0 || stats.TotalRequests != 0 {
		t.Errorf("after Reset plugins = %d, logs = %d, want 0 and 0", total, stats.TotalRequests)
	}
}
