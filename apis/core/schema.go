// ABOUTME: Schema definitions for admin UI generation.
// ABOUTME: APIs describe their resources, the admin package renders them.

package core

// APISchema lists the resources an API exposes in the admin UI
type APISchema struct {
	Resources []ResourceSchema
}

// ResourceSchema describes one browsable resource
type ResourceSchema struct {
	Name        string // "Plugins"
	Slug        string // "plugins" (URL path)
	Fields      []FieldSchema
	ListColumns []string // fields shown in the list view
}

// FieldSchema describes a single field of a resource
type FieldSchema struct {
	Name    string // column name, e.g. "active_installs"
	Type    string // "string", "number", "url", "text", "json"
	Display string // "Active installs"
}

// Resource returns the resource with the given slug.
func (s APISchema) Resource(slug string) (ResourceSchema, bool) {
	for _, r := range s.Resources {
		if r.Slug == slug {
			return r, true
		}
	}
	return ResourceSchema{}, false
}
