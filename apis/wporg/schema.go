package wporg

import "github.com/2389/wpish/apis/core"

func (p *PluginsAPI) Schema() core.APISchema {
	return core.APISchema{
		Resources: []core.ResourceSchema{
			{
				Name: "Plugins",
				Slug: "plugins",
				Fields: []core.FieldSchema{
					{Name: "id", Type: "string", Display: "ID"},
					{Name: "slug", Type: "string", Display: "Slug"},
					{Name: "name", Type: "string", Display: "Name"},
					{Name: "version", Type: "string", Display: "Version"},
					{Name: "author", Type: "string", Display: "Author"},
					{Name: "author_profile", Type: "url", Display: "Author profile"},
					{Name: "requires", Type: "string", Display: "Requires WP"},
					{Name: "tested", Type: "string", Display: "Tested up to"},
					{Name: "requires_php", Type: "string", Display: "Requires PHP"},
					{Name: "rating", Type: "number", Display: "Rating"},
					{Name: "num_ratings", Type: "number", Display: "Ratings"},
					{Name: "active_installs", Type: "number", Display: "Active installs"},
					{Name: "downloaded", Type: "number", Display: "Downloads"},
					{Name: "short_description", Type: "text", Display: "Description"},
					{Name: "homepage", Type: "url", Display: "Homepage"},
					{Name: "download_link", Type: "url", Display: "Download"},
					{Name: "tags", Type: "json", Display: "Tags"},
					{Name: "added", Type: "string", Display: "Added"},
					{Name: "last_updated", Type: "string", Display: "Last updated"},
				},
				ListColumns: []string{"slug", "name", "version", "active_installs", "rating"},
			},
		},
	}
}
