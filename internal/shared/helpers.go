// Package shared provides common utility functions used across multiple
// packages in the rosiface codebase.
package shared

import (
	"path/filepath"
	"strings"
)

var descriptorExtensions = map[string]struct{}{
	".yaml": {},
	".yml":  {},
	".json": {},
}

// IsDescriptorFile reports whether path has a descriptor document
// extension (.yaml, .yml or .json).
func IsDescriptorFile(path string) bool {
	_, ok := descriptorExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// CleanStrings trims every value, splits comma-separated lists and drops
// empty items. Order is preserved.
func CleanStrings(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// Plural returns singular when count is one and singular+"s" otherwise.
func Plural(count int, singular string) string {
	if count == 1 {
		return singular
	}
	return singular + "s"
}
