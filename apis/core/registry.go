// ABOUTME: Registry of emulated APIs.
// ABOUTME: APIs register themselves from init() in their own packages.

package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]API)
	mu       sync.RWMutex
)

// Register adds an API to the registry. Registering a name twice panics.
func Register(a API) {
	mu.Lock()
	defer mu.Unlock()

	name := a.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("api %q already registered", name))
	}
	registry[name] = a
}

// Get retrieves an API by name
func Get(name string) (API, bool) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := registry[name]
	return a, ok
}

// All returns the registered APIs ordered by name.
func All() []API {
	mu.RLock()
	defer mu.RUnlock()

	apis := make([]API, 0, len(registry))
	for _, a := range registry {
		apis = append(apis, a)
	}
	sort.Slice(apis, func(i, j int) bool { return apis[i].Name() < apis[j].Name() })
	return apis
}

// Names returns the registered API names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
