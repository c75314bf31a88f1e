package keys

import (
	"strings"
)

// Normalize produces the canonical form of a content key: trimmed,
// lower-cased, with inner runs of spaces and dashes replaced by a single
// underscore. "Coffee Break" and "coffee-break" both become "coffee_break".
func Normalize(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(s)), func(r rune) bool {
		return r == ' ' || r == '-' || r == '\t'
	})
	return strings.Join(fields, "_")
}

// Query builds a stable cache key from a name and its arguments.
func Query(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + ":" + strings.Join(args, ",")
}
