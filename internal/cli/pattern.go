// Package cli provides shared helpers for passguard commands.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ExpandTagPattern resolves a tag filter against the tags actually stored.
// A filter containing glob metacharacters (filepath.Match syntax) selects
// every tag it matches; a plain filter selects that one tag. An empty
// result is an error either way, so a typo'd filter surfaces instead of
// silently listing nothing.
func ExpandTagPattern(pattern string, tags []string) ([]string, error) {
	if !strings.ContainsAny(pattern, `*?[\`) {
		for _, tag := range tags {
			if tag == pattern {
				return []string{tag}, nil
			}
		}
		return nil, fmt.Errorf("no item tagged %q", pattern)
	}

	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad tag pattern %q: %w", pattern, err)
	}

	var matched []string
	for _, tag := range tags {
		// Pattern syntax was checked above, Match cannot fail here.
		if ok, _ := filepath.Match(pattern, tag); ok {
			matched = append(matched, tag)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("no tags matching %q", pattern)
	}
	return matched, nil
}
