package types

// RawMap is an ordered generic mapping produced by a markup parser. Values
// are RawMap, []any, string, int, float64, bool or nil.
type RawMap []RawField

type RawField struct {
	Key   string
	Value any
}

func (m RawMap) Get(key string) (any, bool) {
	for _, field := range m {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

func (m RawMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, field := range m {
		keys = append(keys, field.Key)
	}
	return keys
}

// RawDocument is one parsed descriptor document and where it came from.
type RawDocument struct {
	Source string
	Root   RawMap
}
