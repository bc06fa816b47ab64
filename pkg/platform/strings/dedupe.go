// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}

// SplitList splits a comma separated setting such as a broker list. Blank
// and repeated entries are dropped; an empty input yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	out := DedupeAndTrim(strings.Split(s, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}
