package pipeline

import (
	"path/filepath"
	"strings"
)

// ShouldIgnore reports whether any element of path matches a pattern in
// ignoreList. Patterns use filepath.Match syntax.
func ShouldIgnore(path string, ignoreList []string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")

	for _, part := range parts {
		if part == "" {
			continue
		}
		for _, pattern := range ignoreList {
			matched, err := filepath.Match(pattern, part)
			if err == nil && matched {
				return true
			}
		}
	}

	return false
}

// Folders keeps the names that pass the ignore list, preserving order.
func Folders(names []string, ignoreList []string) []string {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if ShouldIgnore(name, ignoreList) {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}
