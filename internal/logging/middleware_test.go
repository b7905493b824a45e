// ABOUTME: Tests for HTTP request logging middleware.
// ABOUTME: Covers body capture limits, persisted log fields, skipped paths and the live feed.

package logging

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2389/wpish/internal/auth"
	"github.com/2389/wpish/internal/store"
	"github.com/google/uuid"
)

func TestResponseWriter_BuffersResponseBody(t *testing.T) {
	tests := []struct {
		name           string
		responseBody   string
		expectedCapped bool
	}{
		{
			name:           "small response",
			responseBody:   "Hello, World!",
			expectedCapped: false,
		},
		{
			name:           "response at limit",
			responseBody:   strings.Repeat("x", maxBodySize),
			expectedCapped: false,
		},
		{
			name:           "response exceeds limit",
			responseBody:   strings.Repeat("x", maxBodySize+1000),
			expectedCapped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			wrapped := &responseWriter{
				ResponseWriter: rr,
				statusCode:     200,
				body:           &bytes.Buffer{},
			}

			// Write response body
			n, err := wrapped.Write([]byte(tt.responseBody))
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			// Verify all bytes were written to the underlying writer
			if n != len(tt.responseBody) {
				t.Errorf("Write() returned %d, want %d", n, len(tt.responseBody))
			}

			// Verify buffered body respects size limit
			buffered := wrapped.body.String()
			if len(buffered) > maxBodySize {
				t.Errorf("Buffered body size %d exceeds maxBodySize %d", len(buffered), maxBodySize)
			}

			if tt.expectedCapped && len(buffered) != maxBodySize {
				t.Errorf("Expected buffered body to be capped at %d, got %d", maxBodySize, len(buffered))
			}
		})
	}
}

func TestResponseWriter_CapturesStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		explicit bool
		code     int
	}{
		{"explicit status", true, http.StatusCreated},
		{"implicit status", false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			wrapped := &responseWriter{
				ResponseWriter: rr,
				statusCode:     200,
				body:           &bytes.Buffer{},
			}

			if tt.explicit {
				wrapped.WriteHeader(tt.code)
			}

			// Write triggers implicit status if not set
			wrapped.Write([]byte("body"))

			if wrapped.statusCode != tt.code {
				t.Errorf("statusCode = %d, want %d", wrapped.statusCode, tt.code)
			}
		})
	}
}

func TestResponseWriter_PartialBufferOnLargeResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	wrapped := &responseWriter{
		ResponseWriter: rr,
		statusCode:     200,
		body:           &bytes.Buffer{},
	}

	// Write multiple chunks that exceed limit
	chunk1 := strings.Repeat("a", maxBodySize/2)
	chunk2 := strings.Repeat("b", maxBodySize)

	wrapped.Write([]byte(chunk1))
	wrapped.Write([]byte(chunk2))

	buffered := wrapped.body.String()
	if len(buffered) > maxBodySize {
		t.Errorf("Buffered body size %d exceeds maxBodySize %d", len(buffered), maxBodySize)
	}

	// Verify we got the first part of chunk1
	if !strings.HasPrefix(buffered, "a") {
		t.Errorf("Expected buffered body to start with 'a'")
	}
}

func TestResponseWriter_Hijack(t *testing.T) {
	rr := httptest.NewRecorder()
	wrapped := &responseWriter{
		ResponseWriter: rr,
		statusCode:     200,
		body:           &bytes.Buffer{},
	}

	// httptest.ResponseRecorder doesn't implement Hijacker, should return error
	_, _, err := wrapped.Hijack()
	if err != http.ErrNotSupported {
		t.Errorf("Hijack() error = %v, want %v", err, http.ErrNotSupported)
	}
}

func setupLoggedHandler(t *testing.T, h http.HandlerFunc) (*store.Store, *Feed, http.Handler) {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	feed := NewFeed()
	return s, feed, auth.Middleware(Middleware(s, feed)(h))
}

func waitForEntry(t *testing.T, ch <-chan *store.RequestLog) *store.RequestLog {
	t.Helper()
	select {
	case entry := <-ch:
		return entry
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for request log")
		return nil
	}
}

func TestMiddleware_PersistsRequest(t *testing.T) {
	s, feed, handler := setupLoggedHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"nope"}`))
	})
	entries, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	req := httptest.NewRequest("GET", "/plugins/info/1.2/?action=nope&page=2", nil)
	req.Header.Set("User-Agent", "WordPress/6.5.2; https://blog.example")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	requestID := rr.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("%s = %q, want a UUID", RequestIDHeader, requestID)
	}

	entry := waitForEntry(t, entries)
	if entry.RequestID != requestID {
		t.Errorf("published RequestID = %s, want %s", entry.RequestID, requestID)
	}

	logs, err := s.GetRequestLogs(&store.RequestLogQuery{Limit: 10})
	if err != nil {
		t.Fatalf("GetRequestLogs() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("len(logs) = %d, want 1", len(logs))
	}

	got := logs[0]
	checks := []struct {
		field, got, want string
	}{
		{"RequestID", got.RequestID, requestID},
		{"APIName", got.APIName, "wporg"},
		{"Path", got.Path, "/plugins/info/1.2/"},
		{"Query", got.Query, "action=nope&page=2"},
		{"Client", got.Client, "https://blog.example"},
		{"IPAddress", got.IPAddress, "203.0.113.9"},
		{"ResponseBody", got.ResponseBody, `{"error":"nope"}`},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if got.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", got.StatusCode)
	}
}

func TestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	_, feed, handler := setupLoggedHandler(t, func(w http.ResponseWriter, r *http.Request) {})
	entries, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	id := uuid.NewString()
	req := httptest.NewRequest("GET", "/plugins/info/1.0", nil)
	req.Header.Set(RequestIDHeader, id)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get(RequestIDHeader) != id {
		t.Errorf("%s = %q, want %q", RequestIDHeader, rr.Header().Get(RequestIDHeader), id)
	}
	if entry := waitForEntry(t, entries); entry.Client != auth.Anonymous {
		t.Errorf("Client = %q, want %q", entry.Client, auth.Anonymous)
	}
}

func TestMiddleware_RestoresFullRequestBody(t *testing.T) {
	body := strings.Repeat("x", maxBodySize+1000)
	var handlerRead string

	_, feed, handler := setupLoggedHandler(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		handlerRead = string(b)
	})
	entries, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	req := httptest.NewRequest("POST", "/plugins/info/1.2", strings.NewReader(body))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if handlerRead != body {
		t.Errorf("handler read %d bytes, want %d", len(handlerRead), len(body))
	}
	if entry := waitForEntry(t, entries); len(entry.RequestBody) != maxBodySize {
		t.Errorf("captured %d body bytes, want %d", len(entry.RequestBody), maxBodySize)
	}
}

func TestMiddleware_SkipsUnloggedPaths(t *testing.T) {
	for _, path := range []string{"/healthz", "/metrics", "/admin", "/admin/logs"} {
		t.Run(path, func(t *testing.T) {
			s, _, handler := setupLoggedHandler(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))

			if rr.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rr.Code)
			}
			if rr.Header().Get(RequestIDHeader) != "" {
				t.Errorf("%s set on a skipped path", RequestIDHeader)
			}

			time.Sleep(20 * time.Millisecond)
			stats, err := s.GetRequestLogStats()
			if err != nil {
				t.Fatalf("GetRequestLogStats() error = %v", err)
			}
			if stats.TotalRequests != 0 {
				t.Errorf("TotalRequests = %d, want 0", stats.TotalRequests)
			}
		})
	}
}

func TestAPIFromPath(t *testing.T) {
	tests := map[string]string{
		"/plugins/info/1.2/": "wporg",
		"/plugins/info/1.0":  "wporg",
		"/admin":             "admin",
		"/admin/logs":        "admin",
		"/administrator":     "unknown",
		"/themes/info/1.2/":  "unknown",
	}
	for path, want := range tests {
		if got := APIFromPath(path); got != want {
			t.Errorf("APIFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
