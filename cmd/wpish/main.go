// ABOUTME: Entry point for the WPISH fake WordPress.org API server.
// ABOUTME: Wires together store, middleware, emulated APIs and admin UI with CLI commands.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/2389/wpish/apis/core"
	"github.com/2389/wpish/apis/wporg"
	"github.com/2389/wpish/internal/admin"
	"github.com/2389/wpish/internal/auth"
	"github.com/2389/wpish/internal/logging"
	"github.com/2389/wpish/internal/metrics"
	"github.com/2389/wpish/internal/seed"
	"github.com/2389/wpish/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

// config is the resolved set of flags shared by every command.
type config struct {
	port              string
	dbPath            string
	databaseURL       string
	enableUpdateCheck bool
	seedSize          string
}

var cfg config

func main() {
	seed.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "wpish",
		Short: "WPISH - fake WordPress.org plugin directory API for testing",
		Long: `WPISH serves the WordPress.org plugins_api info endpoint from a local database,
so WordPress sites and tooling can be tested without talking to api.wordpress.org.

Endpoints:
  • GET /plugins/info/{version}?action=query_plugins&request[per_page]=N&page=P
    version 1.0 answers in PHP serialize() format, every other version in JSON
  • Admin UI at /admin
  • Prometheus metrics at /metrics

Quick Start:
  wpish seed          # Fill the plugin directory
  wpish serve         # Start server on port 9000
  wpish reset         # Wipe and reseed database`,
	}

	defaultDBPath := getDefaultDBPath()

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the WPISH HTTP server on the specified port.

Point WordPress at it by filtering plugins_api requests to
http://localhost:PORT/plugins/info/1.2/.

Environment Variables:
  WPISH_PORT                  Server port (default: 9000)
  WPISH_DB_PATH               SQLite database path
  WPISH_DATABASE_URL          postgres:// DSN, used instead of SQLite when set
  WPISH_ENABLE_UPDATE_CHECK   Serve the query_plugin_updates action (true/false)
  WPISH_DEBUG                 Log the resolved database location`,
		RunE: runServe,
	}
	serveCmd.Flags().StringVarP(&cfg.port, "port", "p", getEnv("WPISH_PORT", "9000"), "Port to listen on")
	serveCmd.Flags().BoolVar(&cfg.enableUpdateCheck, "enable-update-check", getEnvBool("WPISH_ENABLE_UPDATE_CHECK", false), "Serve the query_plugin_updates action")

	seedCmd := &cobra.Command{
		Use:   "seed [api]",
		Short: "Seed the database with test data",
		Long: `Seed the database with plugin directory listings for all APIs or a specific one.

AI-Powered Generation:
  Set OPENAI_API_KEY to generate listings with OpenAI (model from OPENAI_MODEL).
  Falls back to a static catalog of well-known plugins if no key is provided.

Usage:
  wpish seed                 # Seed every API
  wpish seed wporg           # Seed only the plugin directory
  wpish seed --size large    # 120 plugins instead of 30

Seeding again skips plugins whose slug already exists. Use 'wpish reset' to start over.`,
		RunE: runSeed,
		Args: cobra.MaximumNArgs(1),
	}
	seedCmd.Flags().StringVar(&cfg.seedSize, "size", "medium", "Amount of data: small, medium or large")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database (wipe and reseed)",
		Long: `Delete the database and create a fresh one with new test data.

With a SQLite file the file is removed and recreated. With --database-url the
plugin and request log rows are deleted instead.

Warning: This permanently deletes all data in the database!`,
		RunE: runReset,
	}
	resetCmd.Flags().StringVar(&cfg.seedSize, "size", "medium", "Amount of data: small, medium or large")

	for _, cmd := range []*cobra.Command{serveCmd, seedCmd, resetCmd} {
		cmd.Flags().StringVarP(&cfg.dbPath, "db", "d", defaultDBPath, "Database path")
		cmd.Flags().StringVar(&cfg.databaseURL, "database-url", os.Getenv("WPISH_DATABASE_URL"), "Postgres DSN; overrides --db")
	}

	rootCmd.AddCommand(serveCmd, seedCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// validateAndCleanDBPath validates and cleans a database path.
// Handles Unix/Linux, macOS, and Windows paths (including UNC and drive letters).
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}
	cleanPath = filepath.Clean(cleanPath)

	if cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}

	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}

	badPatterns := []string{
		".git",
		".svn",
		"node_modules",
		".env",
		"credentials",
		"secret",
	}
	lowerPath := strings.ToLower(cleanPath)
	for _, pattern := range badPatterns {
		if strings.Contains(lowerPath, pattern) {
			return "", fmt.Errorf("database path cannot contain '%s' directory", pattern)
		}
	}

	return cleanPath, nil
}

// openStore opens the configured backend. The SQLite path is only validated
// when no database URL is set.
func openStore(c config) (*store.Store, error) {
	if c.databaseURL != "" {
		return store.Open(store.Options{DatabaseURL: c.databaseURL})
	}
	path, err := validateAndCleanDBPath(c.dbPath)
	if err != nil {
		return nil, err
	}
	return store.Open(store.Options{Path: path})
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	srv, err := newServer(s, cfg)
	if err != nil {
		return err
	}

	addr := ":" + cfg.port
	log.Printf("WPISH server listening on %s", addr)
	log.Printf("Database: %s (%s)", describeDB(cfg), s.Backend())
	if cfg.enableUpdateCheck {
		log.Printf("query_plugin_updates enabled")
	}
	return http.ListenAndServe(addr, srv)
}

func describeDB(c config) string {
	if c.databaseURL != "" {
		return "database url"
	}
	return c.dbPath
}

func newServer(s *store.Store, c config) (http.Handler, error) {
	feed := logging.NewFeed()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(auth.Middleware)
	r.Use(logging.Middleware(s, feed))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := initAPIs(s, c); err != nil {
		return nil, err
	}
	for _, api := range core.All() {
		api.RegisterRoutes(r)
	}

	admin.NewHandlers(s, feed).RegisterRoutes(r)

	return r, nil
}

// initAPIs hands the store and options to every registered API. It must run
// before RegisterRoutes.
func initAPIs(s *store.Store, c config) error {
	for _, api := range core.All() {
		if dbAPI, ok := api.(core.DatabaseAPI); ok {
			if err := dbAPI.SetStore(s); err != nil {
				return fmt.Errorf("failed to initialize api %s: %w", api.Name(), err)
			}
		}
		if p, ok := api.(*wporg.PluginsAPI); ok {
			p.SetOptions(wporg.Options{EnableUpdateCheck: c.enableUpdateCheck})
		}
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var apiName string
	if len(args) > 0 {
		apiName = args[0]
	}
	return seedData(commandContext(cmd), s, cfg, apiName)
}

func runReset(cmd *cobra.Command, args []string) error {
	if cfg.databaseURL != "" {
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Reset(commandContext(cmd)); err != nil {
			return err
		}
		return seedData(commandContext(cmd), s, cfg, "")
	}

	path, err := validateAndCleanDBPath(cfg.dbPath)
	if err != nil {
		return err
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return seedData(commandContext(cmd), s, cfg, "")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func seedData(ctx context.Context, s *store.Store, c config, apiFilter string) error {
	if _, err := seed.SizeCount(c.seedSize); err != nil {
		return err
	}
	if apiFilter != "" {
		if _, ok := core.Get(apiFilter); !ok {
			log.Printf("API '%s' not found", apiFilter)
			log.Println("Available APIs:")
			for _, name := range core.Names() {
				log.Printf("  - %s", name)
			}
			return fmt.Errorf("api '%s' not found", apiFilter)
		}
		log.Printf("Seeding database with %s data for api: %s", c.seedSize, apiFilter)
	} else {
		log.Printf("Seeding database with %s data...", c.seedSize)
	}

	if err := initAPIs(s, c); err != nil {
		return err
	}

	totalRecords := 0
	for _, api := range core.All() {
		if apiFilter != "" && api.Name() != apiFilter {
			continue
		}

		result, err := api.Seed(ctx, c.seedSize)
		if err != nil {
			log.Printf("Failed to seed %s: %v", api.Name(), err)
			continue
		}

		log.Printf("%s: %s", api.Name(), result.Summary)
		for _, count := range result.Records {
			totalRecords += count
		}
	}

	log.Printf("Seeding complete! Created %d total records", totalRecords)
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("Warning: %s=%q is not a boolean, using %v", key, val, fallback)
		return fallback
	}
	return b
}

// getDefaultDBPath returns the default database path following the XDG Base Directory layout
// Priority: WPISH_DB_PATH env var > ./wpish.db > XDG_DATA_HOME/wpish/wpish.db
func getDefaultDBPath() string {
	if envPath := strings.TrimSpace(os.Getenv("WPISH_DB_PATH")); envPath != "" {
		envPath = filepath.Clean(envPath)
		if envPath == "." {
			log.Printf("Warning: WPISH_DB_PATH is invalid (empty or '.'), using default path")
		} else {
			return envPath
		}
	}

	cwdPath := "./wpish.db"
	if _, err := os.Stat(cwdPath); err == nil {
		return cwdPath
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil || homeDir == "" || homeDir == "/" {
			log.Printf("Warning: Could not determine valid home directory (%q): %v, using ./wpish.db", homeDir, err)
			return cwdPath
		}

		// Windows: %LOCALAPPDATA% or ~/AppData/Local
		// Unix/Linux/macOS: ~/.local/share (XDG)
		if runtime.GOOS == "windows" {
			dataHome = os.Getenv("LOCALAPPDATA")
			if dataHome == "" {
				dataHome = filepath.Join(homeDir, "AppData", "Local")
			}
		} else {
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(dataHome, "wpish")
	xdgDBPath := filepath.Join(dataDir, "wpish.db")

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v, using ./wpish.db", dataDir, err)
		return cwdPath
	}

	testFile := filepath.Join(dataDir, ".write-test")
	f, err := os.Create(testFile)
	if err != nil {
		log.Printf("Warning: Cannot write to data directory %s: %v, using ./wpish.db", dataDir, err)
		return cwdPath
	}
	if err := f.Close(); err != nil {
		log.Printf("Warning: Error closing test file: %v", err)
	}
	if err := os.Remove(testFile); err != nil {
		log.Printf("Warning: Could not remove test file %s: %v", testFile, err)
	}

	// Only log in debug mode to avoid polluting --help output
	if os.Getenv("WPISH_DEBUG") != "" {
		log.Printf("Using database location: %s", xdgDBPath)
	}

	return xdgDBPath
}
