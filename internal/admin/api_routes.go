// ABOUTME: Admin routes that browse each registered API's resources.
// ABOUTME: Wires the schema renderer to the APIs' DataProvider implementations.

package admin

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/2389/wpish/apis/core"
	"github.com/go-chi/chi/v5"
)

const resourcesPerPage = 25

// APIHandlers serves the read-only resource browser.
type APIHandlers struct{}

// RegisterRoutes registers API resource admin routes
func (h *APIHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/admin/apis/{api}/{resource}", func(r chi.Router) {
		r.Get("/", h.ListView)
		r.Get("/{id}", h.DetailView)
	})
}

// lookup resolves the API and resource named in the URL, writing a 404 when
// either is unknown or the API cannot serve data.
func (h *APIHandlers) lookup(w http.ResponseWriter, r *http.Request) (core.DataProvider, core.ResourceSchema, bool) {
	apiName := chi.URLParam(r, "api")
	resourceSlug := chi.URLParam(r, "resource")

	api, ok := core.Get(apiName)
	if !ok {
		http.Error(w, "API not found", http.StatusNotFound)
		return nil, core.ResourceSchema{}, false
	}

	resource, ok := api.Schema().Resource(resourceSlug)
	if !ok {
		http.Error(w, "Resource not found", http.StatusNotFound)
		return nil, core.ResourceSchema{}, false
	}

	provider, ok := api.(core.DataProvider)
	if !ok {
		log.Printf("API %s does not implement DataProvider", apiName)
		http.Error(w, "Resource not browsable", http.StatusNotFound)
		return nil, core.ResourceSchema{}, false
	}
	return provider, resource, true
}

// ListView renders one page of resources using the schema renderer
func (h *APIHandlers) ListView(w http.ResponseWriter, r *http.Request) {
	provider, resource, ok := h.lookup(w, r)
	if !ok {
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	rows, err := provider.ListResources(r.Context(), resource.Slug, core.ListOptions{
		Limit:  resourcesPerPage,
		Offset: (page - 1) * resourcesPerPage,
	})
	if err != nil {
		log.Printf("Error fetching %s data from %s: %v", resource.Slug, provider.Name(), err)
		http.Error(w, "Failed to load resources", http.StatusInternalServerError)
		return
	}

	basePath := fmt.Sprintf("/admin/apis/%s/%s", provider.Name(), resource.Slug)
	w.Header().Set("Content-Type", "text/html")
	if err := renderPage(w, "api-list", map[string]any{
		"APIName":      provider.Name(),
		"ResourceName": resource.Name,
		"ListHTML":     template.HTML(RenderResourceList(resource, basePath, rows)),
		"Page":         page,
		"PrevPage":     page - 1,
		"NextPage":     page + 1,
		"HasNext":      len(rows) == resourcesPerPage,
	}); err != nil {
		log.Printf("Failed to render api-list: %v", err)
	}
}

// DetailView renders a single resource using the schema renderer
func (h *APIHandlers) DetailView(w http.ResponseWriter, r *http.Request) {
	provider, resource, ok := h.lookup(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	data, err := provider.GetResource(r.Context(), resource.Slug, id)
	if err != nil {
		log.Printf("Error fetching %s/%s from %s: %v", resource.Slug, id, provider.Name(), err)
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}

	title := formatValue(data["name"])
	if title == "" {
		title = id
	}

	w.Header().Set("Content-Type", "text/html")
	if err := renderPage(w, "api-detail", map[string]any{
		"APIName":      provider.Name(),
		"ResourceName": resource.Name,
		"Title":        title,
		"BackURL":      fmt.Sprintf("/admin/apis/%s/%s", provider.Name(), resource.Slug),
		"DetailHTML":   template.HTML(RenderResourceDetail(resource, data)),
	}); err != nil {
		log.Printf("Failed to render api-detail: %v", err)
	}
}
