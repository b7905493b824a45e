// ABOUTME: Test helpers for E2E testing.
// ABOUTME: Provides utilities for starting test server, making requests, and assertions.

package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/2389/wpish/apis/core"
	"github.com/2389/wpish/apis/wporg"
	"github.com/2389/wpish/internal/admin"
	"github.com/2389/wpish/internal/auth"
	"github.com/2389/wpish/internal/logging"
	"github.com/2389/wpish/internal/metrics"
	"github.com/2389/wpish/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// TestServer wraps a test HTTP server with a store
type TestServer struct {
	Server *httptest.Server
	Store  *store.Store
	Feed   *logging.Feed
}

// StartTestServer creates and starts a test server with all APIs registered
func StartTestServer(t *testing.T, opts wporg.Options) *TestServer {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "e2e.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	feed := logging.NewFeed()
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(auth.Middleware)
	r.Use(logging.Middleware(s, feed))
	r.Handle("/metrics", metrics.Handler())

	for _, api := range core.All() {
		if dbAPI, ok := api.(core.DatabaseAPI); ok {
			if err := dbAPI.SetStore(s); err != nil {
				t.Fatalf("failed to initialize api %s: %v", api.Name(), err)
			}
		}
		if p, ok := api.(*wporg.PluginsAPI); ok {
			p.SetOptions(opts)
		}
		api.RegisterRoutes(r)
	}

	admin.NewHandlers(s, feed).RegisterRoutes(r)

	ts := &TestServer{Server: httptest.NewServer(r), Store: s, Feed: feed}
	t.Cleanup(ts.Close)
	return ts
}

// Close shuts down the test server and its store
func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Store.Close()
}

// GET makes a GET request identifying as a WordPress site
func (ts *TestServer) GET(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "WordPress/6.5.2; https://e2e.example")

	resp, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// AssertStatusCode checks if response has expected status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(body))
	}
}

// DecodeJSON decodes response body as JSON
func DecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

// ReadBody reads and returns the response body
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(body)
}
