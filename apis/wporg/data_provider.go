// ABOUTME: Admin UI access to the plugins table.
// ABOUTME: Implements core.DataProvider over the shared store.

package wporg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/2389/wpish/apis/core"
)

const resourcePlugins = "plugins"

func (p *PluginsAPI) ListResources(ctx context.Context, resourceSlug string, opts core.ListOptions) ([]map[string]any, error) {
	if resourceSlug != resourcePlugins {
		return nil, fmt.Errorf("unknown resource: %s", resourceSlug)
	}
	if p.store == nil {
		return nil, fmt.Errorf("wporg: no database configured")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	records, err := p.store.ListPlugins(ctx, opts.Offset, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Map())
	}
	return rows, nil
}

func (p *PluginsAPI) GetResource(ctx context.Context, resourceSlug string, id string) (map[string]any, error) {
	if resourceSlug != resourcePlugins {
		return nil, fmt.Errorf("unknown resource: %s", resourceSlug)
	}
	if p.store == nil {
		return nil, fmt.Errorf("wporg: no database configured")
	}

	rec, err := p.store.GetPlugin(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plugin not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return rec.Map(), nil
}
