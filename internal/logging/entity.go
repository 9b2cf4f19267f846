// ABOUTME: Entity detection for request logging.
// ABOUTME: Determines which shop entity a request touches based on its URL path.

package logging

import "strings"

const apiPrefix = "/api/"

// EntityFromPath returns the entity segment of an /api/<entity>/... path, or "".
func EntityFromPath(path string) string {
	if !strings.HasPrefix(path, apiPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(path, apiPrefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
