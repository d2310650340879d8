package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"rosiface/internal/types"
)

var entryEquality = cmp.Options{cmpopts.EquateEmpty()}

// DiffInterfaces compares two interface sets category by category. Entries
// are keyed by name; repeated names are paired by order of occurrence.
func DiffInterfaces(a types.InterfaceSet, b types.InterfaceSet) []types.CategoryDiff {
	diffs := make([]types.CategoryDiff, 0, len(types.Categories))
	for _, category := range types.Categories {
		diffs = append(diffs, diffCategory(category, a[category], b[category]))
	}
	return diffs
}

func diffCategory(category types.Category, before []types.InterfaceEntry, after []types.InterfaceEntry) types.CategoryDiff {
	diff := types.CategoryDiff{
		Category: category,
		Added:    []types.InterfaceEntry{},
		Removed:  []types.InterfaceEntry{},
		Changed:  []types.EntryChange{},
	}
	beforeKeys, beforeByKey := keyEntries(before)
	afterKeys, afterByKey := keyEntries(after)

	for _, key := range beforeKeys {
		old := beforeByKey[key]
		current, ok := afterByKey[key]
		if !ok {
			diff.Removed = append(diff.Removed, old.Clone())
			continue
		}
		if cmp.Equal(old, current, entryEquality) {
			continue
		}
		diff.Changed = append(diff.Changed, types.EntryChange{
			Name:   old.Name,
			Before: old.Clone(),
			After:  current.Clone(),
			Fields: fieldChanges(old, current),
		})
	}
	for _, key := range afterKeys {
		if _, ok := beforeByKey[key]; !ok {
			diff.Added = append(diff.Added, afterByKey[key].Clone())
		}
	}
	return diff
}

func keyEntries(entries []types.InterfaceEntry) ([]string, map[string]types.InterfaceEntry) {
	keys := make([]string, 0, len(entries))
	byKey := make(map[string]types.InterfaceEntry, len(entries))
	occurrences := map[string]int{}
	for _, entry := range entries {
		key := fmt.Sprintf("%s#%d", entry.Name, occurrences[entry.Name])
		occurrences[entry.Name]++
		keys = append(keys, key)
		byKey[key] = entry
	}
	return keys, byKey
}

func fieldChanges(before types.InterfaceEntry, after types.InterfaceEntry) []types.FieldChange {
	var changes []types.FieldChange
	add := func(field string, a string, b string) {
		if a != b {
			changes = append(changes, types.FieldChange{Field: field, Before: a, After: b})
		}
	}
	add("type", before.TypeName, after.TypeName)
	add("namespace", before.NamespaceHint, after.NamespaceHint)
	add("queue", strconv.Itoa(before.QueueOrDepth), strconv.Itoa(after.QueueOrDepth))
	add("location", formatLocation(before.Location), formatLocation(after.Location))
	add("repeats", strconv.FormatBool(before.Repeats), strconv.FormatBool(after.Repeats))
	if !cmp.Equal(before.Conditions, after.Conditions, entryEquality) {
		changes = append(changes, types.FieldChange{
			Field:  "conditions",
			Before: "[" + strings.Join(before.Conditions, ", ") + "]",
			After:  "[" + strings.Join(after.Conditions, ", ") + "]",
		})
	}
	return changes
}

func formatLocation(location *string) string {
	if location == nil {
		return "null"
	}
	return strconv.Quote(*location)
}
