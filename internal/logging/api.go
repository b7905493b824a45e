// ABOUTME: Maps request paths to the emulated API that serves them.
// ABOUTME: Used to tag request logs with an api_name.

package logging

import "strings"

// APIFromPath determines which API handles a given path
func APIFromPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/plugins/info/"):
		return "wporg"
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return "admin"
	}
	return "unknown"
}
