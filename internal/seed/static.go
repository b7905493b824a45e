// ABOUTME: Static plugin catalog used when OpenAI is not available.
// ABOUTME: Well-known directory plugins followed by generated filler listings.

package seed

import "fmt"

var staticCatalog = []PluginData{
	{Slug: "akismet", Name: "Akismet Anti-spam: Spam Protection", Version: "5.3.3", Author: "Automattic", Requires: "5.8", Tested: "6.6", RequiresPHP: "5.6.20", Rating: 94, NumRatings: 1021, ActiveInstalls: 6000000, Downloaded: 346000000, ShortDescription: "The best anti-spam protection to block spam comments and spam in a contact form.", Tags: map[string]string{"anti-spam": "anti-spam", "comments": "comments", "spam": "spam"}},
	{Slug: "contact-form-7", Name: "Contact Form 7", Version: "5.9.8", Author: "Takayuki Miyoshi", Requires: "6.3", Tested: "6.6", RequiresPHP: "7.4", Rating: 80, NumRatings: 2071, ActiveInstalls: 10000000, Downloaded: 330000000, ShortDescription: "Just another contact form plugin. Simple but flexible.", Tags: map[string]string{"contact": "contact", "contact-form": "contact form", "email": "email"}},
	{Slug: "wordpress-seo", Name: "Yoast SEO", Version: "23.5", Author: "Team Yoast", Requires: "6.5", Tested: "6.6", RequiresPHP: "7.2.5", Rating: 96, NumRatings: 27800, ActiveInstalls: 10000000, Downloaded: 480000000, ShortDescription: "Improve your WordPress SEO: Write better content and have a fully optimized WordPress site using the Yoast SEO plugin.", Tags: map[string]string{"seo": "SEO", "xml-sitemap": "XML sitemap", "schema": "schema"}},
	{Slug: "woocommerce", Name: "WooCommerce", Version: "9.3.3", Author: "Automattic", Requires: "6.5", Tested: "6.6", RequiresPHP: "7.4", Rating: 88, NumRatings: 4400, ActiveInstalls: 7000000, Downloaded: 250000000, ShortDescription: "Everything you need to launch an online store in days and keep it growing for years.", Tags: map[string]string{"ecommerce": "ecommerce", "online-store": "online store", "shop": "shop"}},
	{Slug: "elementor", Name: "Elementor Website Builder", Version: "3.24.5", Author: "Elementor.com", Requires: "6.3", Tested: "6.6", RequiresPHP: "7.4", Rating: 92, NumRatings: 7000, ActiveInstalls: 10000000, Downloaded: 190000000, ShortDescription: "The Elementor Website Builder has it all: drag and drop page builder, pixel perfect design, mobile responsive editing, and more.", Tags: map[string]string{"page-builder": "page builder", "editor": "editor", "landing-page": "landing page"}},
	{Slug: "classic-editor", Name: "Classic Editor", Version: "1.6.5", Author: "WordPress Contributors", Requires: "4.9", Tested: "6.6", RequiresPHP: "5.2.4", Rating: 98, NumRatings: 1150, ActiveInstalls: 9000000, Downloaded: 95000000, ShortDescription: "Enables the previous \"classic\" editor and the old-style Edit Post screen.", Tags: map[string]string{"classic-editor": "classic editor", "editor": "editor", "gutenberg": "gutenberg"}},
	{Slug: "jetpack", Name: "Jetpack", Version: "13.9", Author: "Automattic", Requires: "6.5", Tested: "6.6", RequiresPHP: "7.2", Rating: 76, NumRatings: 1990, ActiveInstalls: 4000000, Downloaded: 290000000, ShortDescription: "Improve your WP security with powerful one-click tools like backup, WAF, and malware scan.", Tags: map[string]string{"backup": "backup", "security": "security", "performance": "performance"}},
	{Slug: "wordfence", Name: "Wordfence Security", Version: "7.11.7", Author: "Wordfence", Requires: "3.9", Tested: "6.6", RequiresPHP: "5.5", Rating: 94, NumRatings: 4300, ActiveInstalls: 5000000, Downloaded: 270000000, ShortDescription: "Firewall, malware scanner, two factor auth and comprehensive security features.", Tags: map[string]string{"security": "security", "firewall": "firewall", "malware-scanner": "malware scanner"}},
	{Slug: "litespeed-cache", Name: "LiteSpeed Cache", Version: "6.5.1", Author: "LiteSpeed Technologies", Requires: "4.9", Tested: "6.6", RequiresPHP: "7.2", Rating: 98, NumRatings: 2500, ActiveInstalls: 6000000, Downloaded: 60000000, ShortDescription: "All-in-one unbeatable acceleration and PageSpeed improvement.", Tags: map[string]string{"caching": "caching", "optimize": "optimize", "performance": "performance"}},
	{Slug: "updraftplus", Name: "UpdraftPlus: WP Backup & Migration Plugin", Version: "1.24.6", Author: "TeamUpdraft", Requires: "3.2", Tested: "6.6", RequiresPHP: "5.6", Rating: 96, NumRatings: 6300, ActiveInstalls: 3000000, Downloaded: 120000000, ShortDescription: "Back up, restore and migrate your WordPress website with UpdraftPlus.", Tags: map[string]string{"backup": "backup", "migration": "migration", "restore": "restore"}},
	{Slug: "really-simple-ssl", Name: "Really Simple Security", Version: "9.0.2", Author: "Really Simple Plugins", Requires: "6.2", Tested: "6.6", RequiresPHP: "7.4", Rating: 96, NumRatings: 4000, ActiveInstalls: 4000000, Downloaded: 80000000, ShortDescription: "Easily improve site security with WordPress Hardening, Two-Factor Authentication and SSL certificate generation.", Tags: map[string]string{"ssl": "SSL", "https": "https", "security": "security"}},
	{Slug: "all-in-one-wp-migration", Name: "All-in-One WP Migration and Backup", Version: "7.86", Author: "ServMask", Requires: "3.3", Tested: "6.6", RequiresPHP: "5.3", Rating: 88, NumRatings: 8100, ActiveInstalls: 5000000, Downloaded: 110000000, ShortDescription: "Move, transfer, copy, migrate, and backup a site with 1-click.", Tags: map[string]string{"migration": "migration", "backup": "backup", "transfer": "transfer"}},
	{Slug: "wpforms-lite", Name: "WPForms Lite", Version: "1.9.1.4", Author: "WPForms", Requires: "5.5", Tested: "6.6", RequiresPHP: "7.0", Rating: 98, NumRatings: 13500, ActiveInstalls: 6000000, Downloaded: 75000000, ShortDescription: "The best drag and drop WordPress form builder.", Tags: map[string]string{"contact-form": "contact form", "forms": "forms", "form-builder": "form builder"}},
	{Slug: "google-site-kit", Name: "Site Kit by Google", Version: "1.137.0", Author: "Google", Requires: "5.2", Tested: "6.6", RequiresPHP: "7.4", Rating: 82, NumRatings: 600, ActiveInstalls: 4000000, Downloaded: 70000000, ShortDescription: "Site Kit is a one-stop solution for WordPress users to use everything Google has to offer.", Tags: map[string]string{"analytics": "analytics", "google": "google", "search-console": "search console"}},
	{Slug: "advanced-custom-fields", Name: "Advanced Custom Fields (ACF)", Version: "6.3.8", Author: "WP Engine", Requires: "6.0", Tested: "6.6", RequiresPHP: "7.4", Rating: 96, NumRatings: 1350, ActiveInstalls: 2000000, Downloaded: 180000000, ShortDescription: "Customize WordPress with powerful, professional and intuitive fields.", Tags: map[string]string{"acf": "acf", "fields": "fields", "custom-fields": "custom fields"}},
	{Slug: "redirection", Name: "Redirection", Version: "5.5.0", Author: "John Godley", Requires: "5.9", Tested: "6.6", RequiresPHP: "7.0", Rating: 88, NumRatings: 650, ActiveInstalls: 2000000, Downloaded: 50000000, ShortDescription: "Manage 301 redirects, track 404 errors, and improve your site. No knowledge of Apache or Nginx required.", Tags: map[string]string{"redirect": "redirect", "404": "404", "301": "301"}},
	{Slug: "wp-super-cache", Name: "WP Super Cache", Version: "1.12.4", Author: "Automattic", Requires: "6.5", Tested: "6.6", RequiresPHP: "7.0", Rating: 84, NumRatings: 1500, ActiveInstalls: 1000000, Downloaded: 40000000, ShortDescription: "A very fast caching engine for WordPress that produces static html files.", Tags: map[string]string{"cache": "cache", "performance": "performance", "static": "static"}},
	{Slug: "duplicate-post", Name: "Yoast Duplicate Post", Version: "4.5", Author: "Enrico Battocchi & Team Yoast", Requires: "6.3", Tested: "6.6", RequiresPHP: "7.2.5", Rating: 96, NumRatings: 700, ActiveInstalls: 4000000, Downloaded: 50000000, ShortDescription: "The go-to tool for cloning posts and pages, including the powerful Rewrite & Republish feature.", Tags: map[string]string{"duplicate": "duplicate", "clone": "clone", "republish": "republish"}},
	{Slug: "w3-total-cache", Name: "W3 Total Cache", Version: "2.7.6", Author: "BoldGrid", Requires: "5.3", Tested: "6.6", RequiresPHP: "7.2.5", Rating: 86, NumRatings: 5000, ActiveInstalls: 1000000, Downloaded: 60000000, ShortDescription: "Search Engine (SEO) & Performance Optimization (WPO) via caching.", Tags: map[string]string{"cache": "cache", "cdn": "CDN", "minify": "minify"}},
	{Slug: "hello-dolly", Name: "Hello Dolly", Version: "1.7.2", Author: "Matt Mullenweg", Requires: "4.6", Tested: "6.6", RequiresPHP: "", Rating: 60, NumRatings: 300, ActiveInstalls: 300000, Downloaded: 3500000, ShortDescription: "This is not just a plugin, it symbolizes the hope and enthusiasm of an entire generation summed up in two words.", Tags: map[string]string{}},
}

var fillerTopics = []struct {
	word, tag string
}{
	{"Cache", "performance"},
	{"Forms", "forms"},
	{"Gallery", "images"},
	{"Backup", "backup"},
	{"Security", "security"},
	{"Sitemap", "seo"},
	{"Slider", "slider"},
	{"Events", "calendar"},
}

// generateStatic returns the catalog in order, then numbered filler listings.
func generateStatic(count int) []PluginData {
	plugins := make([]PluginData, 0, count)
	for i := 0; i < count && i < len(staticCatalog); i++ {
		p := staticCatalog[i]
		p.Tags = copyTags(p.Tags)
		plugins = append(plugins, p)
	}

	for i := len(plugins); i < count; i++ {
		n := i - len(staticCatalog) + 1
		topic := fillerTopics[n%len(fillerTopics)]
		plugins = append(plugins, PluginData{
			Slug:             fmt.Sprintf("sample-%s-%d", topic.tag, n),
			Name:             fmt.Sprintf("Sample %s %d", topic.word, n),
			Version:          fmt.Sprintf("1.%d.%d", n%10, n%4),
			Author:           "WPISH Sample Co",
			Requires:         "6.0",
			Tested:           "6.6",
			RequiresPHP:      "7.4",
			Rating:           60 + (n*7)%41,
			NumRatings:       n * 3,
			ActiveInstalls:   int64(100 * (1 + n%50)),
			Downloaded:       int64(2500 * n),
			ShortDescription: fmt.Sprintf("A sample %s plugin generated for local testing.", topic.tag),
			Tags:             map[string]string{topic.tag: topic.tag},
		})
	}
	return plugins
}

func copyTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}
