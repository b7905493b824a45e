// ABOUTME: Tests for the API resource browser routes.
// ABOUTME: Covers list paging, detail pages and unknown APIs or resources.

package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func browse(path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	(&APIHandlers{}).RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIListView(t *testing.T) {
	setupAPIs()

	tests := []struct {
		name    string
		path    string
		want    []string
		notWant []string
	}{
		{
			name:    "first page",
			path:    "/admin/apis/widgets/widgets",
			want:    []string{"widgets / Widgets", "Widget 01", "Widget 25", `href="/admin/apis/widgets/widgets/w01"`, `href="?page=2"`},
			notWant: []string{"Widget 26", "Previous"},
		},
		{
			name:    "second page",
			path:    "/admin/apis/widgets/widgets?page=2",
			want:    []string{"Page 2", "Widget 26", "Widget 30", `href="?page=1"`},
			notWant: []string{"Widget 25", "Next"},
		},
		{
			name: "invalid page falls back to first",
			path: "/admin/apis/widgets/widgets?page=abc",
			want: []string{"Page 1", "Widget 01"},
		},
		{
			name: "past the end",
			path: "/admin/apis/widgets/widgets?page=9",
			want: []string{"No widgets yet."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := browse(tt.path)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}
			body := w.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("Expected body to contain %q", want)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(body, notWant) {
					t.Errorf("Expected body not to contain %q", notWant)
				}
			}
		})
	}
}

func TestAPIDetailView(t *testing.T) {
	setupAPIs()

	w := browse("/admin/apis/widgets/widgets/w07")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"Widget 07",
		`<a href="https://example.com/w07"`,
		`href="/admin/apis/widgets/widgets"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain %q", want)
		}
	}
}

func TestAPIRoutes_NotFound(t *testing.T) {
	setupAPIs()

	tests := []struct {
		name string
		path string
	}{
		{"unknown api", "/admin/apis/nope/widgets"},
		{"unknown resource", "/admin/apis/widgets/nope"},
		{"api without data provider", "/admin/apis/gadgets/gadgets"},
		{"missing row", "/admin/apis/widgets/widgets/w99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := browse(tt.path); w.Code != http.StatusNotFound {
				t.Errorf("GET %s status = %d, want 404", tt.path, w.Code)
			}
		})
	}
}
