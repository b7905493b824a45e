// ABOUTME: WordPress.org plugin directory API emulator for WPISH.
// ABOUTME: Serves plugins_api info requests from the plugins table.

package wporg

import (
	"context"
	"net/http"
	"time"

	"github.com/2389/wpish/apis/core"
	"github.com/2389/wpish/internal/store"
	"github.com/go-chi/chi/v5"
)

func init() {
	core.Register(&PluginsAPI{})
}

// Options toggles optional plugins_api behaviour.
type Options struct {
	// EnableUpdateCheck wires the query_plugin_updates action.
	EnableUpdateCheck bool
}

type PluginsAPI struct {
	store *store.Store
	opts  Options
}

func (p *PluginsAPI) Name() string {
	return "wporg"
}

func (p *PluginsAPI) Health() core.HealthStatus {
	if p.store == nil {
		return core.HealthStatus{Status: "unavailable", Message: "No database configured"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.store.Ping(ctx); err != nil {
		return core.HealthStatus{Status: "degraded", Message: "Database unreachable: " + err.Error()}
	}
	return core.HealthStatus{Status: "healthy", Message: "Plugin directory operational"}
}

// SetOptions must be called before RegisterRoutes; the dispatcher is built
// from the options in effect at registration.
func (p *PluginsAPI) SetOptions(opts Options) {
	p.opts = opts
}

func (p *PluginsAPI) SetStore(s *store.Store) error {
	p.store = s
	return nil
}

func (p *PluginsAPI) RegisterRoutes(r chi.Router) {
	info := NewDispatcher(p.store, p.opts)

	// WordPress core requests /plugins/info/1.2/ with a trailing slash
	r.Method(http.MethodGet, "/plugins/info/{version}", info)
	r.Method(http.MethodGet, "/plugins/info/{version}/", info)
}
