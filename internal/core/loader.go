package core

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"rosiface/internal/types"
)

const (
	keyBase       = "base"
	keyName       = "name"
	keyType       = "type"
	keyNamespace  = "namespace"
	keyQueue      = "queue"
	keyDepth      = "depth"
	keyLocation   = "location"
	keyRepeats    = "repeats"
	keyConditions = "conditions"
)

var entryKeys = map[string]struct{}{
	keyName:       {},
	keyType:       {},
	keyNamespace:  {},
	keyQueue:      {},
	keyDepth:      {},
	keyLocation:   {},
	keyRepeats:    {},
	keyConditions: {},
}

// Loader converts raw nested mappings into component descriptors.
type Loader struct{}

type LoadResult struct {
	Components []types.ComponentDescriptor
	Failures   []error
}

func NewLoader() Loader {
	return Loader{}
}

// Load converts every component of a document. A malformed component is
// reported in Failures and does not prevent the others from loading.
func (l Loader) Load(ctx context.Context, doc types.RawMap) LoadResult {
	result := LoadResult{}
	declared := make(map[string]int, len(doc))
	for _, field := range doc {
		declared[field.Key]++
	}
	rejected := map[string]struct{}{}
	for _, field := range doc {
		if declared[field.Key] > 1 {
			if _, done := rejected[field.Key]; !done {
				rejected[field.Key] = struct{}{}
				err := parseError(field.Key, "", "", fmt.Sprintf("component declared %d times", declared[field.Key]))
				log.Ctx(ctx).Debug().Str("component", field.Key).Err(err).Msg("component rejected")
				result.Failures = append(result.Failures, err)
			}
			continue
		}
		component, err := l.LoadComponent(field.Key, field.Value)
		if err != nil {
			log.Ctx(ctx).Debug().Str("component", field.Key).Err(err).Msg("component rejected")
			result.Failures = append(result.Failures, err)
			continue
		}
		result.Components = append(result.Components, component)
	}
	log.Ctx(ctx).Debug().
		Int("components", len(result.Components)).
		Int("failures", len(result.Failures)).
		Msg("document loaded")
	return result
}

func (l Loader) LoadComponent(name string, raw any) (types.ComponentDescriptor, error) {
	if strings.TrimSpace(name) == "" {
		return types.ComponentDescriptor{}, parseError(name, "", "", "component name must not be empty")
	}
	tracksRaw, ok := ToRawMap(raw)
	if !ok {
		return types.ComponentDescriptor{}, parseError(name, "", "", fmt.Sprintf("component must be a mapping of tracks, got %s", shapeOf(raw)))
	}
	if len(tracksRaw) == 0 {
		return types.ComponentDescriptor{}, parseError(name, "", "", "component declares no tracks")
	}
	if track, repeated := duplicateKey(tracksRaw); repeated {
		return types.ComponentDescriptor{}, parseError(name, track, "", "track declared more than once")
	}
	tracks := make([]types.TrackDescriptor, 0, len(tracksRaw))
	for _, field := range tracksRaw {
		track, err := loadTrack(name, field.Key, field.Value)
		if err != nil {
			return types.ComponentDescriptor{}, err
		}
		tracks = append(tracks, track)
	}
	component := types.NewComponentDescriptor(name, tracks...)
	if !component.HasConcrete() {
		return types.ComponentDescriptor{}, parseError(name, "", "", "component has no concrete track")
	}
	return component, nil
}

func loadTrack(component string, track string, raw any) (types.TrackDescriptor, error) {
	if strings.TrimSpace(track) == "" {
		return types.TrackDescriptor{}, parseError(component, track, "", "track name must not be empty")
	}
	fields, ok := ToRawMap(raw)
	if !ok {
		return types.TrackDescriptor{}, parseError(component, track, "", fmt.Sprintf("track must be a mapping, got %s", shapeOf(raw)))
	}

	if key, repeated := duplicateKey(fields); repeated {
		return types.TrackDescriptor{}, parseError(component, track, key, "key declared more than once")
	}

	if baseRaw, hasBase := fields.Get(keyBase); hasBase {
		if len(fields) > 1 {
			others := make([]string, 0, len(fields)-1)
			for _, key := range fields.Keys() {
				if key != keyBase {
					others = append(others, key)
				}
			}
			return types.TrackDescriptor{}, parseError(component, track, keyBase,
				fmt.Sprintf("track declares base together with %s", strings.Join(others, ", ")))
		}
		base, ok := baseRaw.(string)
		if !ok || strings.TrimSpace(base) == "" {
			return types.TrackDescriptor{}, parseError(component, track, keyBase, "base must be a non-empty string")
		}
		return types.NewInheritedTrack(track, strings.TrimSpace(base)), nil
	}

	iface := types.InterfaceSet{}
	for _, field := range fields {
		category := types.Category(field.Key)
		if !category.Valid() {
			return types.TrackDescriptor{}, parseError(component, track, field.Key, "unknown interface category")
		}
		entries, err := loadEntries(component, track, category, field.Value)
		if err != nil {
			return types.TrackDescriptor{}, err
		}
		iface[category] = entries
	}
	for _, category := range types.Categories {
		if _, ok := iface[category]; !ok {
			iface[category] = []types.InterfaceEntry{}
		}
	}
	return types.NewConcreteTrack(track, iface), nil
}

func loadEntries(component string, track string, category types.Category, raw any) ([]types.InterfaceEntry, error) {
	if raw == nil {
		return []types.InterfaceEntry{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, parseError(component, track, string(category), fmt.Sprintf("category must be a sequence, got %s", shapeOf(raw)))
	}
	entries := make([]types.InterfaceEntry, 0, len(items))
	for idx, item := range items {
		field := fmt.Sprintf("%s[%d]", category, idx)
		entry, err := loadEntry(component, track, field, item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func loadEntry(component string, track string, field string, raw any) (types.InterfaceEntry, error) {
	fields, ok := ToRawMap(raw)
	if !ok {
		return types.InterfaceEntry{}, parseError(component, track, field, fmt.Sprintf("entry must be a mapping, got %s", shapeOf(raw)))
	}
	if key, repeated := duplicateKey(fields); repeated {
		return types.InterfaceEntry{}, parseError(component, track, field+"."+key, "key declared more than once")
	}
	for _, key := range fields.Keys() {
		if _, known := entryKeys[key]; !known {
			return types.InterfaceEntry{}, parseError(component, track, field+"."+key, "unknown entry key")
		}
	}

	entry := types.InterfaceEntry{}
	var err error
	if entry.Name, err = requiredString(fields, keyName); err != nil {
		return types.InterfaceEntry{}, parseError(component, track, field+"."+keyName, err.Error())
	}
	if entry.TypeName, err = requiredString(fields, keyType); err != nil {
		return types.InterfaceEntry{}, parseError(component, track, field+"."+keyType, err.Error())
	}
	if entry.NamespaceHint, err = optionalString(fields, keyNamespace); err != nil {
		return types.InterfaceEntry{}, parseError(component, track, field+"."+keyNamespace, err.Error())
	}

	queue, hasQueue, err := optionalInt(fields, keyQueue)
	if err != nil {
		return types.InterfaceEntry{}, parseError(component, track, field+"."+keyQueue, err.Error())
	}
	depth, hasDepth, err := optionalInt(fields, keyDepth)
	if err != nil {
		return types.InterfaceEntry{}, parseError(component, track, field+"."+keyDepth, err.Error())
	}
	switch {
	case hasQueue && hasDepth && queue != depth:
		return types.InterfaceEntry{}, parseError(component, track, field,
			fmt.Sprintf("queue (%d) and depth (%d) disagree", queue, depth))
	case hasQueue:
		entry.QueueOrDepth = queue
	case hasDepth:
		entry.QueueOrDepth = depth
	}

	if locationRaw, ok := fields.Get(keyLocation); ok && locationRaw != nil {
		location, isString := locationRaw.(string)
		if !isString {
			return types.InterfaceEntry{}, parseError(component, track, field+"."+keyLocation,
				fmt.Sprintf("expected string or null, got %s", shapeOf(locationRaw)))
		}
		entry.Location = &location
	}

	if repeatsRaw, ok := fields.Get(keyRepeats); ok && repeatsRaw != nil {
		repeats, isBool := repeatsRaw.(bool)
		if !isBool {
			return types.InterfaceEntry{}, parseError(component, track, field+"."+keyRepeats,
				fmt.Sprintf("expected bool, got %s", shapeOf(repeatsRaw)))
		}
		entry.Repeats = repeats
	}

	entry.Conditions = []string{}
	if conditionsRaw, ok := fields.Get(keyConditions); ok && conditionsRaw != nil {
		items, isSeq := conditionsRaw.([]any)
		if !isSeq {
			return types.InterfaceEntry{}, parseError(component, track, field+"."+keyConditions,
				fmt.Sprintf("expected sequence, got %s", shapeOf(conditionsRaw)))
		}
		for idx, item := range items {
			condition, isString := item.(string)
			if !isString {
				return types.InterfaceEntry{}, parseError(component, track,
					fmt.Sprintf("%s.%s[%d]", field, keyConditions, idx),
					fmt.Sprintf("expected string, got %s", shapeOf(item)))
			}
			entry.Conditions = append(entry.Conditions, condition)
		}
	}
	return entry, nil
}

func requiredString(fields types.RawMap, key string) (string, error) {
	raw, ok := fields.Get(key)
	if !ok {
		return "", fmt.Errorf("required key %q missing", key)
	}
	value, isString := raw.(string)
	if !isString {
		return "", fmt.Errorf("expected string, got %s", shapeOf(raw))
	}
	return value, nil
}

func optionalString(fields types.RawMap, key string) (string, error) {
	raw, ok := fields.Get(key)
	if !ok || raw == nil {
		return "", nil
	}
	value, isString := raw.(string)
	if !isString {
		return "", fmt.Errorf("expected string, got %s", shapeOf(raw))
	}
	return value, nil
}

func optionalInt(fields types.RawMap, key string) (int, bool, error) {
	raw, ok := fields.Get(key)
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch value := raw.(type) {
	case int:
		return value, true, nil
	case int64:
		return int(value), true, nil
	case float64:
		if value == math.Trunc(value) && !math.IsInf(value, 0) {
			return int(value), true, nil
		}
	}
	return 0, false, fmt.Errorf("expected integer, got %s", shapeOf(raw))
}

// duplicateKey returns the first key that appears more than once.
func duplicateKey(fields types.RawMap) (string, bool) {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, ok := seen[field.Key]; ok {
			return field.Key, true
		}
		seen[field.Key] = struct{}{}
	}
	return "", false
}

// ToRawMap accepts either an ordered RawMap or a plain map. Plain maps are
// converted recursively with their keys sorted.
func ToRawMap(value any) (types.RawMap, bool) {
	switch typed := value.(type) {
	case types.RawMap:
		return typed, true
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make(types.RawMap, 0, len(keys))
		for _, key := range keys {
			out = append(out, types.RawField{Key: key, Value: normalizeRaw(typed[key])})
		}
		return out, true
	default:
		return nil, false
	}
}

func normalizeRaw(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out, _ := ToRawMap(typed)
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, normalizeRaw(item))
		}
		return out
	case []string:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, item)
		}
		return out
	default:
		return value
	}
}

func shapeOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case types.RawMap, map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func parseError(component string, track string, field string, msg string) error {
	return &types.DescriptorError{
		Kind:      types.ErrorKindParse,
		Component: component,
		Track:     track,
		Field:     field,
		Msg:       msg,
	}
}
