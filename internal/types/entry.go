package types

// InterfaceEntry is one published/subscribed topic, offered/called service
// or read/written parameter of a component.
type InterfaceEntry struct {
	Name          string   `yaml:"name" json:"name" validate:"required"`
	TypeName      string   `yaml:"type" json:"type"`
	NamespaceHint string   `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	QueueOrDepth  int      `yaml:"queue,omitempty" json:"queue,omitempty" validate:"gte=0"`
	Location      *string  `yaml:"location,omitempty" json:"location,omitempty"`
	Repeats       bool     `yaml:"repeats,omitempty" json:"repeats,omitempty"`
	Conditions    []string `yaml:"conditions,omitempty" json:"conditions,omitempty" validate:"dive,required"`
}

func (e InterfaceEntry) Clone() InterfaceEntry {
	out := e
	if e.Location != nil {
		location := *e.Location
		out.Location = &location
	}
	if e.Conditions != nil {
		out.Conditions = append(make([]string, 0, len(e.Conditions)), e.Conditions...)
	}
	return out
}

// LocationOrEmpty returns the location or "" when it is unset.
func (e InterfaceEntry) LocationOrEmpty() string {
	if e.Location == nil {
		return ""
	}
	return *e.Location
}

// InterfaceSet holds the entry sequences of a track keyed by category.
// Missing categories are equivalent to empty sequences.
type InterfaceSet map[Category][]InterfaceEntry

// Entries returns a copy of the entries for category.
func (s InterfaceSet) Entries(category Category) []InterfaceEntry {
	entries := s[category]
	out := make([]InterfaceEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Clone())
	}
	return out
}

func (s InterfaceSet) Clone() InterfaceSet {
	out := make(InterfaceSet, len(Categories))
	for _, category := range Categories {
		out[category] = s.Entries(category)
	}
	for category := range s {
		if _, ok := out[category]; !ok {
			out[category] = s.Entries(category)
		}
	}
	return out
}

// Count returns the number of entries across all categories.
func (s InterfaceSet) Count() int {
	total := 0
	for _, entries := range s {
		total += len(entries)
	}
	return total
}
