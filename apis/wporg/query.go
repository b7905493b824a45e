// ABOUTME: Paginated plugin queries behind the plugins_api actions.
// ABOUTME: Builds the results envelope from one page read and one count.

package wporg

import (
	"context"
	"math"

	"github.com/2389/wpish/internal/phpserial"
	"github.com/2389/wpish/internal/store"
)

// PluginSource is the slice of the store the query handlers read from.
type PluginSource interface {
	ListPlugins(ctx context.Context, skip, take int) ([]store.PluginRecord, error)
	CountPlugins(ctx context.Context) (int, error)
}

// ResultsResponse is the envelope returned for paginated plugin queries.
type ResultsResponse struct {
	Kind    string               `json:"kind"`
	Items   []store.PluginRecord `json:"items"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"perPage"`
	Total   int                  `json:"total"`
}

// Pages is the number of pages of PerPage rows needed for Total rows.
func (r *ResultsResponse) Pages() int {
	if r.PerPage <= 0 || r.Total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(r.Total) / float64(r.PerPage)))
}

// ToStdClass converts the envelope to the object WordPress core expects
// from the 1.0 API: an info array plus the plugin rows.
func (r *ResultsResponse) ToStdClass() *phpserial.Object {
	plugins := make([]any, 0, len(r.Items))
	for _, item := range r.Items {
		plugins = append(plugins, item.ToStdClass())
	}
	return phpserial.NewStdClass().
		Set("info", map[string]any{
			"page":    r.Page,
			"pages":   r.Pages(),
			"results": r.Total,
		}).
		Set("plugins", plugins)
}

// queryPlugins reads page `page` of per_page rows from the plugins table.
func queryPlugins(ctx context.Context, src PluginSource, page int, request map[string]string) (*ResultsResponse, error) {
	perPage := intval(request["per_page"])
	skip := offset(page, perPage)

	items, err := src.ListPlugins(ctx, skip, perPage)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []store.PluginRecord{}
	}

	total, err := src.CountPlugins(ctx)
	if err != nil {
		return nil, err
	}

	return &ResultsResponse{
		Kind:    "plugins",
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}

// checkPluginUpdates answers query_plugin_updates with the same listing as
// query_plugins. No version comparison is done.
func checkPluginUpdates(ctx context.Context, src PluginSource, page int, request map[string]string) (*ResultsResponse, error) {
	return queryPlugins(ctx, src, page, request)
}
