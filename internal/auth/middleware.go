// ABOUTME: Caller identification middleware for plugin directory requests.
// ABOUTME: Derives a site identity from a Bearer token or a WordPress User-Agent.

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const clientContextKey contextKey = "client"

// Anonymous is the identity of callers that neither send a site token nor
// identify themselves as a WordPress install.
const Anonymous = "anonymous"

// Middleware stores the caller identity in the request context. Nothing is
// rejected; the identity is only recorded in request logs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := identify(r.Header.Get("Authorization"), r.Header.Get("User-Agent"))
		ctx := context.WithValue(r.Context(), clientContextKey, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientFromContext returns the identity stored by Middleware.
func ClientFromContext(ctx context.Context) string {
	client, ok := ctx.Value(clientContextKey).(string)
	if !ok || client == "" {
		return Anonymous
	}
	return client
}

func identify(authHeader, userAgent string) string {
	if site := siteFromToken(authHeader); site != "" {
		return site
	}
	if site := siteFromUserAgent(userAgent); site != "" {
		return site
	}
	return Anonymous
}

// siteFromToken accepts "Bearer site:<url>".
func siteFromToken(authHeader string) string {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return ""
	}
	site, ok := strings.CutPrefix(strings.TrimSpace(token), "site:")
	if !ok {
		return ""
	}
	return strings.TrimSpace(site)
}

// siteFromUserAgent parses the agent WordPress core sends from wp_remote_get:
// "WordPress/6.5.2; https://example.org".
func siteFromUserAgent(ua string) string {
	if !strings.HasPrefix(ua, "WordPress/") {
		return ""
	}
	_, site, ok := strings.Cut(ua, ";")
	if !ok {
		return ""
	}
	return strings.TrimSpace(site)
}
