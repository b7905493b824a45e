// ABOUTME: Action dispatch for GET /plugins/info/{version}.
// ABOUTME: Resolves the action parameter through a fixed table of handlers.

package wporg

import (
	"context"
	"net/http"

	apierrors "github.com/2389/wpish/internal/errors"
	"github.com/2389/wpish/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Action names a plugins_api operation, passed as ?action=.
type Action string

const (
	ActionQueryPlugins       Action = "query_plugins"
	ActionQueryPluginUpdates Action = "query_plugin_updates"
)

type actionFunc func(ctx context.Context, page int, request map[string]string) (any, error)

// Dispatcher serves the info endpoint. Its action table is fixed at
// construction.
type Dispatcher struct {
	actions map[Action]actionFunc
}

// NewDispatcher builds the action table over src. query_plugin_updates is
// only present when opts.EnableUpdateCheck is set.
func NewDispatcher(src PluginSource, opts Options) *Dispatcher {
	actions := map[Action]actionFunc{
		ActionQueryPlugins: func(ctx context.Context, page int, request map[string]string) (any, error) {
			return queryPlugins(ctx, src, page, request)
		},
	}
	if opts.EnableUpdateCheck {
		actions[ActionQueryPluginUpdates] = func(ctx context.Context, page int, request map[string]string) (any, error) {
			return checkPluginUpdates(ctx, src, page, request)
		}
	}
	return &Dispatcher{actions: actions}
}

// Supports reports whether action is wired.
func (d *Dispatcher) Supports(action Action) bool {
	_, ok := d.actions[action]
	return ok
}

// ServeHTTP handles GET /plugins/info/{version}.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")
	format := formatFor(version)
	q := r.URL.Query()

	name, _ := lastValue(q, "action")
	action := Action(name)
	fn, ok := d.actions[action]
	if !ok {
		metrics.ObserveAction(name, format, metrics.OutcomeUnsupported)
		sendResponse(w, version, notImplemented(), http.StatusNotFound)
		return
	}

	result, err := fn(r.Context(), pageParam(q), nestedParams(q, "request"))
	if err != nil {
		metrics.ObserveAction(name, format, metrics.OutcomeError)
		apierrors.WriteDatabaseError(w, "Failed to query plugins", err)
		return
	}

	metrics.ObserveAction(name, format, metrics.OutcomeOK)
	sendResponse(w, version, result, http.StatusOK)
}
