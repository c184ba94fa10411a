// Package slug derives URL-safe identifiers from resource names. Uniqueness
// is not decided here; the storage-level unique index is authoritative, and
// callers retry with WithSuffix when an insert collides.
package slug

import (
	"strings"

	"github.com/gofrs/uuid"
)

const fallback = "untitled"

// Make lowercases the input and maps every run of non-alphanumeric
// characters to a single hyphen.
func Make(s string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")

	if out == "" {
		return fallback
	}

	return out
}

// WithSuffix appends a short random suffix for collision retries.
func WithSuffix(base string) string {
	suffix := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")[:8]
	return base + "-" + suffix
}
