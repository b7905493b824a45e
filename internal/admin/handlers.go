// ABOUTME: HTTP handlers for admin UI pages.
// ABOUTME: Serves the API dashboard and the request log browser.

package admin

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/2389/wpish/apis/core"
	"github.com/2389/wpish/internal/logging"
	"github.com/2389/wpish/internal/store"
	"github.com/go-chi/chi/v5"
)

const (
	logsPageSize      = 100
	topEndpointsLimit = 10
	recentRequests    = 5
)

type Handlers struct {
	store *store.Store
	feed  *logging.Feed
}

// NewHandlers builds the admin handlers. feed may be nil, in which case the
// live log stream is not offered.
func NewHandlers(s *store.Store, feed *logging.Feed) *Handlers {
	return &Handlers{store: s, feed: feed}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/", h.dashboard)
		r.Get("/logs", h.logsList)
		if h.feed != nil {
			r.Get("/logs/stream", h.logsStream)
		}
	})

	apiHandlers := &APIHandlers{}
	apiHandlers.RegisterRoutes(r)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	apis := getAPIDashboardData(h.store)

	w.Header().Set("Content-Type", "text/html")
	if err := renderPage(w, "dashboard", map[string]any{"APIs": apis}); err != nil {
		log.Printf("Failed to render dashboard: %v", err)
	}
}

func (h *Handlers) logsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	apiName := q.Get("api")
	client := q.Get("client")
	pathPrefix := q.Get("path")
	statusCode, _ := strconv.Atoi(q.Get("status"))

	logs, err := h.store.GetRequestLogs(&store.RequestLogQuery{
		Limit:      logsPageSize,
		APIName:    apiName,
		Method:     q.Get("method"),
		PathPrefix: pathPrefix,
		StatusCode: statusCode,
		Client:     client,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for _, entry := range logs {
		entry.RequestBody = prettyJSON(entry.RequestBody)
		entry.ResponseBody = prettyJSON(entry.ResponseBody)
	}

	stats, err := h.store.GetRequestLogStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	topEndpoints, err := h.store.GetTopEndpoints(topEndpointsLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err := renderPage(w, "logs-list", map[string]any{
		"Logs":           logs,
		"Stats":          stats,
		"TopEndpoints":   topEndpoints,
		"APINames":       core.Names(),
		"SelectedAPI":    apiName,
		"SelectedClient": client,
		"PathPrefix":     pathPrefix,
	}); err != nil {
		log.Printf("Failed to render logs-list: %v", err)
	}
}

// prettyJSON formats JSON with indentation, or returns original string if not valid JSON
func prettyJSON(s string) string {
	if s == "" {
		return s
	}
	var obj any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return s
	}
	formatted, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return s
	}
	return string(formatted)
}

// APIDashboardData represents one API's card on the dashboard
type APIDashboardData struct {
	Name           string
	Health         core.HealthStatus
	RequestCount   int
	ErrorRate      float64
	RecentRequests []*store.RequestLog
	Resources      []ResourceLink
}

// ResourceLink is a quick link to an API resource browser
type ResourceLink struct {
	Name string
	Slug string
	URL  string
}

// getAPIDashboardData fetches last-24h dashboard data for every registered API
func getAPIDashboardData(s *store.Store) []APIDashboardData {
	since := time.Now().Add(-24 * time.Hour)
	var data []APIDashboardData

	for _, api := range core.All() {
		name := api.Name()

		requestCount, err := s.GetAPIRequestCount(name, since)
		if err != nil {
			log.Printf("Dashboard request count for %s: %v", name, err)
		}
		errorRate, err := s.GetAPIErrorRate(name, since)
		if err != nil {
			log.Printf("Dashboard error rate for %s: %v", name, err)
		}
		recent, err := s.GetRecentRequests(name, recentRequests)
		if err != nil {
			log.Printf("Dashboard recent requests for %s: %v", name, err)
		}

		var resources []ResourceLink
		for _, res := range api.Schema().Resources {
			resources = append(resources, ResourceLink{
				Name: res.Name,
				Slug: res.Slug,
				URL:  fmt.Sprintf("/admin/apis/%s/%s", name, res.Slug),
			})
		}

		data = append(data, APIDashboardData{
			Name:           name,
			Health:         api.Health(),
			RequestCount:   requestCount,
			ErrorRate:      errorRate,
			RecentRequests: recent,
			Resources:      resources,
		})
	}

	return data
}
