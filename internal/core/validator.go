package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"rosiface/internal/types"
)

// Validator checks resolved descriptors for internal consistency. Every
// check runs; all violations are reported together.
type Validator struct {
	structs *validator.Validate
}

func NewValidator() Validator {
	return Validator{structs: validator.New()}
}

func (v Validator) Validate(ctx context.Context, resolved types.ResolvedDescriptor) error {
	var violations []types.Violation
	for _, category := range orderedCategories(resolved.Interface) {
		entries := resolved.Interface[category]
		if !category.Valid() {
			violations = append(violations, types.Violation{
				Category: category,
				Index:    -1,
				Rule:     "category",
				Message:  fmt.Sprintf("unknown interface category %q", category),
			})
		}
		violations = append(violations, v.checkEntries(category, entries)...)
		violations = append(violations, checkDuplicates(category, entries)...)
	}
	if len(violations) > 0 {
		log.Ctx(ctx).Debug().
			Str("component", resolved.Component).
			Str("track", resolved.Track).
			Int("violations", len(violations)).
			Msg("resolved descriptor rejected")
		return &types.DescriptorError{
			Kind:       types.ErrorKindValidation,
			Component:  resolved.Component,
			Track:      resolved.Track,
			Msg:        fmt.Sprintf("%d violation(s)", len(violations)),
			Violations: violations,
		}
	}
	return nil
}

func (v Validator) checkEntries(category types.Category, entries []types.InterfaceEntry) []types.Violation {
	var violations []types.Violation
	for idx, entry := range entries {
		err := v.structs.Struct(entry)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			violations = append(violations, types.Violation{
				Category: category, Entry: entry.Name, Index: idx, Rule: "entry", Message: err.Error(),
			})
			continue
		}
		for _, fieldErr := range fieldErrs {
			violations = append(violations, fieldViolation(category, idx, entry, fieldErr))
		}
	}
	return violations
}

func fieldViolation(category types.Category, idx int, entry types.InterfaceEntry, fieldErr validator.FieldError) types.Violation {
	violation := types.Violation{Category: category, Entry: entry.Name, Index: idx}
	field := fieldErr.StructField()
	switch {
	case field == "Name":
		violation.Rule = "name"
		violation.Message = "name must not be empty"
	case field == "QueueOrDepth":
		violation.Rule = "queue"
		violation.Message = fmt.Sprintf("queue/depth must be >= 0, got %d", entry.QueueOrDepth)
	case strings.HasPrefix(field, "Conditions"):
		violation.Rule = "condition"
		violation.Message = fmt.Sprintf("%s must be a non-empty string", strings.ToLower(field[:1])+field[1:])
	default:
		violation.Rule = fieldErr.Tag()
		violation.Message = fmt.Sprintf("%s failed %s", field, fieldErr.Tag())
	}
	return violation
}

func checkDuplicates(category types.Category, entries []types.InterfaceEntry) []types.Violation {
	var violations []types.Violation
	seen := map[string][]types.InterfaceEntry{}
	for idx, entry := range entries {
		for _, prior := range seen[entry.Name] {
			if prior.Repeats && entry.Repeats {
				continue
			}
			violations = append(violations, types.Violation{
				Category: category,
				Entry:    entry.Name,
				Index:    idx,
				Rule:     "duplicate",
				Message:  "duplicate name without repeats",
			})
			break
		}
		seen[entry.Name] = append(seen[entry.Name], entry)
	}
	return violations
}

// orderedCategories lists the known categories present in set in display
// order, followed by any unknown keys sorted by name.
func orderedCategories(set types.InterfaceSet) []types.Category {
	out := make([]types.Category, 0, len(set))
	for _, category := range types.Categories {
		if _, ok := set[category]; ok {
			out = append(out, category)
		}
	}
	var unknown []types.Category
	for category := range set {
		if !category.Valid() {
			unknown = append(unknown, category)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(out, unknown...)
}
