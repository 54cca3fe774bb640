package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters test files by name pattern using wildcard matching.
// Supports patterns like "test_math*.f90" or "*math*"; a pattern without
// wildcards is treated as a substring match.
func (f *Filter) FilterByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	var filtered []string
	for _, test := range tests {
		testName := filepath.Base(test)

		if matched, err := filepath.Match(pattern, testName); err == nil && matched {
			filtered = append(filtered, test)
			continue
		}

		if strings.ContainsAny(pattern, "*?") {
			// Fall back to a looser substring match for patterns like "*math*"
			if allPartsContained(testName, pattern) {
				filtered = append(filtered, test)
			}
			continue
		}

		if strings.Contains(testName, pattern) {
			filtered = append(filtered, test)
		}
	}

	return filtered
}

// allPartsContained reports whether every non-wildcard segment of pattern
// appears in name, with at least one non-empty segment present.
func allPartsContained(name, pattern string) bool {
	parts := strings.FieldsFunc(pattern, func(r rune) bool {
		return r == '*' || r == '?'
	})
	if len(parts) == 0 {
		return false
	}
	for _, part := range parts {
		if !strings.Contains(name, part) {
			return false
		}
	}
	return true
}
