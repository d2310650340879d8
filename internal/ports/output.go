package ports

import "rosiface/internal/types"

// RecordWriterPort renders query results as line-oriented records.
type RecordWriterPort interface {
	WriteEntries(component string, track string, category types.Category, entries []types.InterfaceEntry) error
	WriteDiff(diff types.DiffResult) error
	WriteReport(report types.ComponentReport) error
	WriteComponents(components []string) error
	WriteTracks(component string, tracks []string) error
	WriteNames(names []types.ResolvedName) error
	WriteMatches(matches []types.EntryMatch) error
}

// ExportPort renders a resolved descriptor back into the document schema.
type ExportPort interface {
	Export(resolved types.ResolvedDescriptor, format types.OutputFormat) ([]byte, error)
}

// TextDiffPort renders a line diff between two documents.
type TextDiffPort interface {
	Unified(labelA string, a string, labelB string, b string) string
}
