// ABOUTME: Seeding for the plugin directory.
// ABOUTME: Converts generated listings into plugins table rows.

package wporg

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/2389/wpish/apis/core"
	"github.com/2389/wpish/internal/seed"
	"github.com/2389/wpish/internal/store"
)

// newGenerator is replaced in tests.
var newGenerator = seed.NewGenerator

func (p *PluginsAPI) Seed(ctx context.Context, size string) (core.SeedData, error) {
	if p.store == nil {
		return core.SeedData{}, fmt.Errorf("wporg: no database configured")
	}

	count, err := seed.SizeCount(size)
	if err != nil {
		return core.SeedData{}, err
	}

	listings, err := newGenerator().Generate(ctx, count)
	if err != nil {
		return core.SeedData{}, fmt.Errorf("generate plugins: %w", err)
	}

	now := time.Now().UTC()
	created, skipped := 0, 0
	for i, l := range listings {
		row := pluginRow(l, now.AddDate(0, 0, -i))
		if err := p.store.CreatePlugin(ctx, row); err != nil {
			// slugs are unique; reseeding skips listings that already exist
			log.Printf("Skipping plugin %s: %v", l.Slug, err)
			skipped++
			continue
		}
		created++
	}

	summary := fmt.Sprintf("Created %d plugins", created)
	if skipped > 0 {
		summary += fmt.Sprintf(" (%d skipped)", skipped)
	}
	return core.SeedData{
		Summary: summary,
		Records: map[string]int{"plugins": created},
	}, nil
}

// pluginRow fills in the directory URLs and dates WordPress.org derives
// from the slug and author.
func pluginRow(l seed.PluginData, updated time.Time) *store.Plugin {
	homepage := l.Homepage
	if homepage == "" {
		homepage = "https://wordpress.org/plugins/" + l.Slug + "/"
	}
	version := l.Version
	if version == "" {
		version = "1.0.0"
	}

	return &store.Plugin{
		Slug:             l.Slug,
		Name:             l.Name,
		Version:          version,
		Author:           l.Author,
		AuthorProfile:    "https://profiles.wordpress.org/" + profileSlug(l.Author) + "/",
		Requires:         l.Requires,
		Tested:           l.Tested,
		RequiresPHP:      l.RequiresPHP,
		Rating:           l.Rating,
		NumRatings:       l.NumRatings,
		ActiveInstalls:   l.ActiveInstalls,
		Downloaded:       l.Downloaded,
		ShortDescription: l.ShortDescription,
		Homepage:         homepage,
		DownloadLink:     "https://downloads.wordpress.org/plugin/" + l.Slug + "." + version + ".zip",
		Tags:             l.Tags,
		Added:            updated.AddDate(-3, 0, 0).Format("2006-01-02"),
		LastUpdated:      updated.Format("2006-01-02 3:04pm") + " GMT",
	}
}

func profileSlug(author string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(author) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "wordpressdotorg"
	}
	return s
}
