// Package strings normalizes free-form labels attached to tasks and cards.
package strings

import (
	"strings"
)

// Tags trims each label, drops blanks, and removes repeats compared without
// regard to case. The first spelling seen wins. The result is never nil so it
// encodes as an empty JSON array.
func Tags(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		tag := strings.TrimSpace(v)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
