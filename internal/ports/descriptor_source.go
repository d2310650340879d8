package ports

import "rosiface/internal/types"

// DescriptorSourcePort discovers and parses descriptor documents.
type DescriptorSourcePort interface {
	// Discover expands files and directories into descriptor file paths.
	Discover(paths []string) ([]string, error)
	LoadDocument(path string) (types.RawDocument, error)
}
