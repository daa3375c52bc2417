// Package names parses the free-form roster input.
package names

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoNames is returned when the input holds no usable name.
var ErrNoNames = errors.New("at least one player name is required")

// Separator splits names in the roster input.
const Separator = ","

// Parse splits input on commas, trims each name and drops empty ones.
// Order is preserved.
func Parse(input string) ([]string, error) {
	parts := strings.Split(input, Separator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoNames
	}
	return out, nil
}

// Join returns the canonical input form of a name list.
func Join(names []string) string {
	return strings.Join(names, Separator)
}
