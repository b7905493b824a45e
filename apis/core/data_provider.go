// ABOUTME: Optional interface for exposing API data to the admin UI.
// ABOUTME: Resources are returned as plain maps keyed by field name.

package core

import "context"

// DataProvider is implemented by APIs whose rows can be browsed in the admin UI
type DataProvider interface {
	API
	ListResources(ctx context.Context, resourceSlug string, opts ListOptions) ([]map[string]any, error)
	GetResource(ctx context.Context, resourceSlug string, id string) (map[string]any, error)
}

// ListOptions provides pagination for listing resources
type ListOptions struct {
	Limit  int
	Offset int
}
