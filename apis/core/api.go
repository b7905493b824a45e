// ABOUTME: Contract every emulated API implements.
// ABOUTME: The server mounts each registered API's routes and admin schema.

package core

import (
	"context"

	"github.com/2389/wpish/internal/store"
	"github.com/go-chi/chi/v5"
)

// API is one emulated upstream service mounted by the server.
type API interface {
	Name() string
	Health() HealthStatus

	RegisterRoutes(r chi.Router)

	// Admin UI
	Schema() APISchema

	// Seed fills the API's tables. size is one of small, medium, large.
	Seed(ctx context.Context, size string) (SeedData, error)
}

// DatabaseAPI is implemented by APIs that read or write the shared store.
type DatabaseAPI interface {
	API
	SetStore(s *store.Store) error
}

// HealthStatus represents API health
type HealthStatus struct {
	Status  string // "healthy", "degraded", "unavailable"
	Message string
}

// SeedData summarises what a Seed call created
type SeedData struct {
	Summary string
	Records map[string]int // {"plugins": 30}
}
