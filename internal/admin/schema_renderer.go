// ABOUTME: Schema-based HTML renderer for API resource pages.
// ABOUTME: Generates semantic HTML with Tailwind CSS from resource schemas.

package admin

import (
	"fmt"
	"html"
	"strings"

	"github.com/2389/wpish/apis/core"
)

// RenderResourceList generates a table list view from a ResourceSchema.
// Rows link to basePath/{id} when they carry an id.
func RenderResourceList(schema core.ResourceSchema, basePath string, resources []map[string]any) string {
	var sb strings.Builder

	sb.WriteString(`<table class="min-w-full divide-y divide-gray-200">`)
	sb.WriteString(`<thead class="bg-gray-50"><tr>`)

	for _, colName := range schema.ListColumns {
		field := findField(schema.Fields, colName)
		if field != nil {
			sb.WriteString(fmt.Sprintf(`<th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">%s</th>`,
				html.EscapeString(field.Display)))
		}
	}

	sb.WriteString(`</tr></thead>`)
	sb.WriteString(`<tbody class="bg-white divide-y divide-gray-200">`)

	if len(resources) == 0 {
		sb.WriteString(fmt.Sprintf(`<tr><td colspan="%d" class="px-6 py-4 text-center text-sm text-gray-500">No %s yet.</td></tr>`,
			len(schema.ListColumns), html.EscapeString(strings.ToLower(schema.Name))))
	}

	for _, resource := range resources {
		sb.WriteString(`<tr>`)

		id := formatValue(resource["id"])
		for i, colName := range schema.ListColumns {
			cell := html.EscapeString(formatValue(resource[colName]))
			if i == 0 && id != "" {
				cell = fmt.Sprintf(`<a href="%s/%s" class="text-blue-600 hover:text-blue-900">%s</a>`,
					html.EscapeString(basePath), html.EscapeString(id), cell)
			}
			sb.WriteString(fmt.Sprintf(`<td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">%s</td>`, cell))
		}

		sb.WriteString(`</tr>`)
	}

	sb.WriteString(`</tbody></table>`)
	return sb.String()
}

// RenderResourceDetail generates a detail view from a ResourceSchema
func RenderResourceDetail(schema core.ResourceSchema, data map[string]any) string {
	var sb strings.Builder

	sb.WriteString(`<div class="bg-white rounded-lg shadow overflow-hidden">`)
	sb.WriteString(`<dl class="divide-y divide-gray-200">`)

	for _, field := range schema.Fields {
		sb.WriteString(`<div class="px-6 py-4 grid grid-cols-3 gap-4">`)
		sb.WriteString(fmt.Sprintf(`<dt class="text-sm font-medium text-gray-500">%s</dt>`,
			html.EscapeString(field.Display)))
		sb.WriteString(fmt.Sprintf(`<dd class="text-sm text-gray-900 col-span-2">%s</dd>`,
			formatDetailValue(field.Type, data[field.Name])))
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</dl></div>`)
	return sb.String()
}

// Helper functions

func findField(fields []core.FieldSchema, name string) *core.FieldSchema {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

func formatValue(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

const noValue = `<span class="text-gray-400">No value</span>`

// formatDetailValue returns escaped HTML for one field value.
func formatDetailValue(fieldType string, value any) string {
	strValue := formatValue(value)
	if strValue == "" {
		return noValue
	}

	switch fieldType {
	case "url":
		escaped := html.EscapeString(strValue)
		if !strings.HasPrefix(strValue, "http://") && !strings.HasPrefix(strValue, "https://") {
			return escaped
		}
		return fmt.Sprintf(`<a href="%s" class="text-blue-600 hover:text-blue-900" rel="noopener">%s</a>`, escaped, escaped)
	case "json":
		return `<pre class="text-xs whitespace-pre-wrap">` + html.EscapeString(prettyJSON(strValue)) + `</pre>`
	case "text":
		return `<p class="whitespace-pre-line">` + html.EscapeString(strValue) + `</p>`
	}
	return html.EscapeString(strValue)
}
