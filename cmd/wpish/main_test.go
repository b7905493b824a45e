// ABOUTME: Tests for CLI commands and server wiring.
// ABOUTME: Verifies health check, plugin info routing, logging, path validation and seeding.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/2389/wpish/internal/store"
)

func newTestServer(t *testing.T, c config) (http.Handler, *store.Store) {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	srv, err := newServer(s, c)
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	return srv, s
}

func seedRows(t *testing.T, s *store.Store, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		p := &store.Plugin{Slug: fmt.Sprintf("plugin-%02d", i), Name: fmt.Sprintf("Plugin %02d", i)}
		if err := s.CreatePlugin(context.Background(), p); err != nil {
			t.Fatalf("CreatePlugin() error = %v", err)
		}
	}
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t, config{})

	rr := get(srv, "/healthz")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, response body: %s", err, rr.Body.String())
	}
	if resp["ok"] != true {
		t.Errorf("ok = %v, want true", resp["ok"])
	}
}

func TestServer_PluginsInfo(t *testing.T) {
	srv, s := newTestServer(t, config{})
	seedRows(t, s, 5)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantPrefix string
	}{
		{
			name:       "json with trailing slash",
			target:     "/plugins/info/1.2/?action=query_plugins&request[per_page]=2&page=2",
			wantStatus: http.StatusOK,
			wantPrefix: `{"kind":"plugins","items":[{"id":`,
		},
		{
			name:       "legacy serialized",
			target:     "/plugins/info/1.0?action=query_plugins&request[per_page]=2",
			wantStatus: http.StatusOK,
			wantPrefix: `O:8:"stdClass":2:{s:4:"info";a:3:{s:4:"page";i:1;s:5:"pages";i:3;s:7:"results";i:5;}`,
		},
		{
			name:       "unknown action",
			target:     "/plugins/info/1.2?action=plugin_information",
			wantStatus: http.StatusNotFound,
			wantPrefix: `{"error":"Action not implemented.`,
		},
		{
			name:       "update check disabled",
			target:     "/plugins/info/1.2?action=query_plugin_updates",
			wantStatus: http.StatusNotFound,
			wantPrefix: `{"error":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(srv, tt.target)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if !strings.HasPrefix(rr.Body.String(), tt.wantPrefix) {
				t.Errorf("body = %s, want prefix %s", rr.Body.String(), tt.wantPrefix)
			}
		})
	}
}

func TestServer_UpdateCheckEnabled(t *testing.T) {
	srv, s := newTestServer(t, config{enableUpdateCheck: true})
	seedRows(t, s, 3)

	rr := get(srv, "/plugins/info/1.2?action=query_plugin_updates&request[per_page]=10")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
}

func TestServer_LogsPluginRequests(t *testing.T) {
	srv, s := newTestServer(t, config{})

	req := httptest.NewRequest(http.MethodGet, "/plugins/info/1.2?action=query_plugins", nil)
	req.Header.Set("User-Agent", "WordPress/6.5; https://blog.example")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	var logs []*store.RequestLog
	deadline := time.Now().Add(2 * time.Second)
	for {
		var err error
		logs, err = s.GetRequestLogs(&store.RequestLogQuery{Limit: 10, APIName: "wporg"})
		if err != nil {
			t.Fatalf("GetRequestLogs() error = %v", err)
		}
		if len(logs) > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(logs) != 1 {
		t.Fatalf("logged %d wporg requests, want 1", len(logs))
	}
	got := logs[0]
	if got.Query != "action=query_plugins" || got.StatusCode != http.StatusOK || got.Client != "https://blog.example" {
		t.Errorf("log = %+v, want query, 200 and client recorded", got)
	}
	if got.RequestID == "" || rr.Header().Get("X-Request-Id") != got.RequestID {
		t.Errorf("request id = %q, header = %q, want matching ids", got.RequestID, rr.Header().Get("X-Request-Id"))
	}
}

func TestServer_MetricsAndAdmin(t *testing.T) {
	srv, _ := newTestServer(t, config{})

	get(srv, "/plugins/info/1.2?action=query_plugins")

	rr := get(srv, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`wpish_http_requests_total{method="GET",route="/plugins/info/{version}",status="200"}`,
		`wpish_plugin_api_actions_total{action="query_plugins",format="json",outcome="ok"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %s", want)
		}
	}

	rr = get(srv, "/admin/")
	if rr.Code != http.StatusOK {
		t.Fatalf("/admin/ status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/admin/apis/wporg/plugins") {
		t.Error("dashboard missing wporg plugins link")
	}
}

func TestSeedData(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	if err := seedData(context.Background(), s, config{seedSize: "small"}, "wporg"); err != nil {
		t.Fatalf("seedData() error = %v", err)
	}
	total, err := s.CountPlugins(context.Background())
	if err != nil {
		t.Fatalf("CountPlugins() error = %v", err)
	}
	if total != 10 {
		t.Errorf("seeded %d plugins, want 10", total)
	}

	if err := seedData(context.Background(), s, config{seedSize: "small"}, "nope"); err == nil {
		t.Error("seedData(unknown api) error = nil, want error")
	}
	if err := seedData(context.Background(), s, config{seedSize: "huge"}, ""); err == nil {
		t.Error("seedData(size huge) error = nil, want error")
	}
}

func TestOpenStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "wpish.db")
	s, err := openStore(config{dbPath: dbPath})
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	s.Close()

	if _, err := openStore(config{dbPath: "../wpish.db"}); err == nil {
		t.Error("openStore(../wpish.db) error = nil, want error")
	}
	if _, err := openStore(config{databaseURL: "mysql://localhost/wp"}); err == nil {
		t.Error("openStore(mysql url) error = nil, want error")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"", false, false},
		{"", true, true},
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"sometimes", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("WPISH_TEST_BOOL", tt.value)
			if got := getEnvBool("WPISH_TEST_BOOL", tt.fallback); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetDefaultDBPath(t *testing.T) {
	t.Run("env var wins", func(t *testing.T) {
		t.Setenv("WPISH_DB_PATH", " /tmp/custom/wpish.db ")
		if got := getDefaultDBPath(); got != filepath.Clean("/tmp/custom/wpish.db") {
			t.Errorf("getDefaultDBPath() = %q, want /tmp/custom/wpish.db", got)
		}
	})

	t.Run("xdg data home", func(t *testing.T) {
		dataHome := t.TempDir()
		t.Setenv("WPISH_DB_PATH", "")
		t.Setenv("XDG_DATA_HOME", dataHome)
		want := filepath.Join(dataHome, "wpish", "wpish.db")
		if got := getDefaultDBPath(); got != want {
			t.Errorf("getDefaultDBPath() = %q, want %q", got, want)
		}
	})
}

func TestValidateAndCleanDBPath_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"simple relative path", "wpish.db"},
		{"path with directory", "./data/wpish.db"},
		{"path with multiple directories", "./path/to/data/wpish.db"},
		{"absolute path on Unix", "/tmp/wpish.db"},
		{"path with whitespace trimmed", "  wpish.db  "},
		{"in-memory database", ":memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validateAndCleanDBPath(tt.input)
			if err != nil {
				t.Errorf("validateAndCleanDBPath(%q) error = %v, want nil", tt.input, err)
			}
			if result == "" {
				t.Errorf("validateAndCleanDBPath(%q) returned empty string", tt.input)
			}
		})
	}
}

func TestValidateAndCleanDBPath_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		shouldContain string
	}{
		{"empty string", "", "cannot be empty"},
		{"whitespace only", "   ", "cannot be empty"},
		{"current directory dot", ".", "cannot be empty, '.', or '/'"},
		{"root directory", "/", "cannot be empty, '.', or '/'"},
		{"path traversal with dotdot", "../../etc/passwd", "cannot contain '..'"},
		{"dotdot in middle", "./data/../../../etc/passwd", "cannot contain '..'"},
		{"git directory blocked", ".git/wpish.db", ".git"},
		{"svn directory blocked", ".svn/wpish.db", ".svn"},
		{"node_modules directory blocked", "node_modules/wpish.db", "node_modules"},
		{"credentials in path blocked", "credentials/wpish.db", "credentials"},
		{"secret in path blocked", "secret/wpish.db", "secret"},
		{".env in path blocked", ".env/wpish.db", ".env"},
		{"case insensitive bad pattern", "CREDENTIALS/wpish.db", "credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateAndCleanDBPath(tt.input)
			if err == nil {
				t.Fatalf("validateAndCleanDBPath(%q) error = nil, want error", tt.input)
			}
			if !strings.Contains(err.Error(), tt.shouldContain) {
				t.Errorf("validateAndCleanDBPath(%q) error = %v, should contain %q", tt.input, err, tt.shouldContain)
			}
		})
	}
}

func TestValidateAndCleanDBPath_Windows(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("Windows-specific test")
	}

	tests := []struct {
		name       string
		input      string
		shouldFail bool
	}{
		{"Windows absolute path", "C:\\data\\wpish.db", false},
		{"Windows absolute path with UNC", "\\\\server\\share\\wpish.db", false},
		{"bare drive letter rejected", "C:", true},
		{"bare D drive rejected", "D:", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateAndCleanDBPath(tt.input)
			if tt.shouldFail && err == nil {
				t.Errorf("validateAndCleanDBPath(%q) error = nil, want error", tt.input)
			}
			if !tt.shouldFail && err != nil {
				t.Errorf("validateAndCleanDBPath(%q) error = %v, want nil", tt.input, err)
			}
		})
	}
}
