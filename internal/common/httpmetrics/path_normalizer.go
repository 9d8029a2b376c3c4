package httpmetrics

import "strings"

// UnmatchedPath labels every request outside the route table.
const UnmatchedPath = "unmatched"

var knownPaths = map[string]struct{}{
	"/api/auth/register": {},
	"/api/auth/login":    {},
	"/api/user/profile":  {},
	"/health":            {},
	"/metrics":           {},
}

// NormalizePath maps a request path onto the label used for HTTP metrics.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return UnmatchedPath
}
