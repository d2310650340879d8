package types

// FieldChange is one differing field of an entry present in both tracks.
type FieldChange struct {
	Field  string `json:"field" yaml:"field"`
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
}

type EntryChange struct {
	Name   string         `json:"name" yaml:"name"`
	Before InterfaceEntry `json:"before" yaml:"before"`
	After  InterfaceEntry `json:"after" yaml:"after"`
	Fields []FieldChange  `json:"fields" yaml:"fields"`
}

type CategoryDiff struct {
	Category Category         `json:"category" yaml:"category"`
	Added    []InterfaceEntry `json:"added" yaml:"added"`
	Removed  []InterfaceEntry `json:"removed" yaml:"removed"`
	Changed  []EntryChange    `json:"changed" yaml:"changed"`
}

func (d CategoryDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// DiffResult compares the resolved interfaces of two tracks of a component.
type DiffResult struct {
	Component  string         `json:"component" yaml:"component"`
	TrackA     string         `json:"track_a" yaml:"track_a"`
	TrackB     string         `json:"track_b" yaml:"track_b"`
	Categories []CategoryDiff `json:"categories" yaml:"categories"`
}

func (d DiffResult) Empty() bool {
	for _, category := range d.Categories {
		if !category.Empty() {
			return false
		}
	}
	return true
}

func (d DiffResult) Category(category Category) CategoryDiff {
	for _, diff := range d.Categories {
		if diff.Category == category {
			return diff
		}
	}
	return CategoryDiff{Category: category}
}
