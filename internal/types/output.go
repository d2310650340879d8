package types

// TrackReport is the outcome of resolving and validating one track.
type TrackReport struct {
	Track  string `json:"track" yaml:"track"`
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`
	Err    error  `json:"-" yaml:"-"`
}

func (r TrackReport) OK() bool {
	return r.Err == nil
}

// ComponentReport collects the per-track outcomes of validating a component.
type ComponentReport struct {
	Component string        `json:"component" yaml:"component"`
	Tracks    []TrackReport `json:"tracks" yaml:"tracks"`
}

func (r ComponentReport) Failures() []TrackReport {
	var failed []TrackReport
	for _, track := range r.Tracks {
		if !track.OK() {
			failed = append(failed, track)
		}
	}
	return failed
}

// ResolvedName is an entry together with its fully qualified graph name for
// a given node.
type ResolvedName struct {
	Category Category       `json:"category" yaml:"category"`
	FullName string         `json:"full_name" yaml:"full_name"`
	Entry    InterfaceEntry `json:"entry" yaml:"entry"`
}

// EntryMatch locates an entry in the registry.
type EntryMatch struct {
	Component string         `json:"component" yaml:"component"`
	Track     string         `json:"track" yaml:"track"`
	Category  Category       `json:"category" yaml:"category"`
	Entry     InterfaceEntry `json:"entry" yaml:"entry"`
}

// LoadReport summarizes loading a set of descriptor documents.
type LoadReport struct {
	Registered []string
	Failures   []error
}
