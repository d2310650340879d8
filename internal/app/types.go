package app

import (
	"time"

	"rosiface/internal/types"
)

type LoadRequest struct {
	Paths   []string
	Workers int
}

type LoadResult struct {
	Files      []string
	Registered []string
	Failures   []error
}

type GetInterfaceRequest struct {
	Component string
	Track     string
	Category  string
}

type GetInterfaceResult struct {
	Component string
	Track     string
	Category  types.Category
	Entries   []types.InterfaceEntry
}

type DiffRequest struct {
	Component string
	TrackA    string
	TrackB    string
	Unified   bool
}

type DiffResult struct {
	Diff    types.DiffResult
	Unified string
}

type ValidateRequest struct {
	Component string
	All       bool
}

type ValidateResult struct {
	Reports      []types.ComponentReport
	LoadFailures []types.ComponentReport
}

type ListRequest struct {
	Component string
}

type ListResult struct {
	Components []string
	Component  string
	Tracks     []string
}

type ExportRequest struct {
	Component string
	Track     string
	Format    types.OutputFormat
}

type ExportResult struct {
	Data []byte
}

type NamesRequest struct {
	Component string
	Track     string
	Node      string
}

type NamesResult struct {
	Names []types.ResolvedName
}

type FindRequest struct {
	Name  string
	Track string
}

type FindResult struct {
	Matches []types.EntryMatch
}

type ServeRequest struct {
	Addr     string
	Paths    []string
	Watch    bool
	Debounce time.Duration
}
