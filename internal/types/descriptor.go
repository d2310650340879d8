package types

// TrackDescriptor describes one track of a component. It is either concrete
// (an InterfaceSet) or inherited (a reference to another track), never both.
type TrackDescriptor struct {
	Name string

	form  TrackForm
	base  string
	iface InterfaceSet
}

func NewConcreteTrack(name string, iface InterfaceSet) TrackDescriptor {
	if iface == nil {
		iface = InterfaceSet{}
	}
	return TrackDescriptor{Name: name, form: TrackFormConcrete, iface: iface}
}

func NewInheritedTrack(name string, base string) TrackDescriptor {
	return TrackDescriptor{Name: name, form: TrackFormInherited, base: base}
}

func (t TrackDescriptor) Form() TrackForm {
	return t.form
}

// BaseTrack returns the referenced track for inherited descriptors.
func (t TrackDescriptor) BaseTrack() (string, bool) {
	if t.form != TrackFormInherited {
		return "", false
	}
	return t.base, true
}

// Interface returns a copy of the entries of a concrete descriptor.
func (t TrackDescriptor) Interface() (InterfaceSet, bool) {
	if t.form != TrackFormConcrete {
		return nil, false
	}
	return t.iface.Clone(), true
}

// ComponentDescriptor maps track names to descriptors for one component.
// Track order is the order in which the tracks were declared.
type ComponentDescriptor struct {
	Name   string
	Source string

	tracks []TrackDescriptor
	index  map[string]int
}

// NewComponentDescriptor builds a descriptor; a repeated track name replaces
// the earlier declaration in place.
func NewComponentDescriptor(name string, tracks ...TrackDescriptor) ComponentDescriptor {
	component := ComponentDescriptor{
		Name:  name,
		index: make(map[string]int, len(tracks)),
	}
	for _, track := range tracks {
		if idx, ok := component.index[track.Name]; ok {
			component.tracks[idx] = track
			continue
		}
		component.index[track.Name] = len(component.tracks)
		component.tracks = append(component.tracks, track)
	}
	return component
}

func (c ComponentDescriptor) Track(name string) (TrackDescriptor, bool) {
	idx, ok := c.index[name]
	if !ok {
		return TrackDescriptor{}, false
	}
	return c.tracks[idx], true
}

func (c ComponentDescriptor) TrackNames() []string {
	names := make([]string, 0, len(c.tracks))
	for _, track := range c.tracks {
		names = append(names, track.Name)
	}
	return names
}

func (c ComponentDescriptor) Len() int {
	return len(c.tracks)
}

// HasConcrete reports whether at least one track is concrete.
func (c ComponentDescriptor) HasConcrete() bool {
	for _, track := range c.tracks {
		if track.form == TrackFormConcrete {
			return true
		}
	}
	return false
}

// ResolvedDescriptor is the inheritance-free interface of one track.
type ResolvedDescriptor struct {
	Component string       `yaml:"component" json:"component"`
	Track     string       `yaml:"track" json:"track"`
	Origin    string       `yaml:"origin" json:"origin"`
	Chain     []string     `yaml:"chain" json:"chain"`
	Interface InterfaceSet `yaml:"interface" json:"interface"`
}

func (r ResolvedDescriptor) Entries(category Category) []InterfaceEntry {
	return r.Interface.Entries(category)
}

func (r ResolvedDescriptor) Clone() ResolvedDescriptor {
	out := r
	out.Chain = append([]string(nil), r.Chain...)
	out.Interface = r.Interface.Clone()
	return out
}
