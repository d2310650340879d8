package adapters

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"rosiface/internal/ports"
)

// UnifiedDiffAdapter renders a line diff of two documents with full context.
type UnifiedDiffAdapter struct{}

func NewUnifiedDiffAdapter() UnifiedDiffAdapter {
	return UnifiedDiffAdapter{}
}

// Unified returns "" when a and b are equal.
func (u UnifiedDiffAdapter) Unified(labelA string, a string, labelB string, b string) string {
	if a == b {
		return ""
	}
	dmp := diffmatchpatch.New()
	charsA, charsB, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lines)

	var out strings.Builder
	out.WriteString("--- " + labelA + "\n")
	out.WriteString("+++ " + labelB + "\n")
	for _, diff := range diffs {
		prefix := " "
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(diff.Text) {
			out.WriteString(prefix + line + "\n")
		}
	}
	return out.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

var _ ports.TextDiffPort = UnifiedDiffAdapter{}
