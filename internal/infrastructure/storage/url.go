// Package storage provides object storage implementations for uploaded files.
package storage

import (
	"net/url"
	"strings"
)

// joinURL appends key to base with exactly one slash between them
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// trimBaseURL strips base from rawURL and returns the remaining key.
// Absolute URLs match a path-only base by their path.
func trimBaseURL(base, rawURL string) (string, bool) {
	base = strings.TrimRight(base, "/")
	if key, ok := strings.CutPrefix(rawURL, base+"/"); ok && key != "" {
		return key, true
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "", false
	}
	basePath := base
	if b, err := url.Parse(base); err == nil && b.Host != "" {
		if u.Host != "" && u.Host != b.Host {
			return "", false
		}
		basePath = strings.TrimRight(b.Path, "/")
	}
	key, ok := strings.CutPrefix(u.Path, basePath+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
