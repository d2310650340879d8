package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

type ErrorKind string

const (
	ErrorKindParse            ErrorKind = "parse error"
	ErrorKindUnknownComponent ErrorKind = "unknown component"
	ErrorKindUnknownTrack     ErrorKind = "unknown track"
	ErrorKindUnknownBase      ErrorKind = "unknown base"
	ErrorKindCycleDetected    ErrorKind = "cycle detected"
	ErrorKindValidation       ErrorKind = "validation failed"
)

// Violation is a single validator finding.
type Violation struct {
	Category Category `json:"category"`
	Entry    string   `json:"entry,omitempty"`
	Index    int      `json:"index"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
}

func (v Violation) String() string {
	if v.Entry == "" {
		return fmt.Sprintf("%s[%d]: %s", v.Category, v.Index, v.Message)
	}
	return fmt.Sprintf("%s[%d] %s: %s", v.Category, v.Index, v.Entry, v.Message)
}

// DescriptorError reports a load, resolution or validation failure together
// with the component and track it concerns.
type DescriptorError struct {
	Kind       ErrorKind
	Component  string
	Track      string
	Field      string
	Path       []string
	Violations []Violation
	Msg        string
	Cause      error
}

func (e *DescriptorError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Component != "" {
		b.WriteString(" component=")
		b.WriteString(e.Component)
	}
	if e.Track != "" {
		b.WriteString(" track=")
		b.WriteString(e.Track)
	}
	if e.Field != "" {
		b.WriteString(" field=")
		b.WriteString(e.Field)
	}
	if len(e.Path) > 0 {
		b.WriteString(" path=")
		b.WriteString(strings.Join(e.Path, " -> "))
	}
	for _, violation := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(violation.String())
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *DescriptorError) Unwrap() error {
	return e.Cause
}

func (e *DescriptorError) Code() errbuilder.ErrCode {
	switch e.Kind {
	case ErrorKindParse, ErrorKindValidation:
		return errbuilder.CodeInvalidArgument
	case ErrorKindUnknownComponent, ErrorKindUnknownTrack:
		return errbuilder.CodeNotFound
	case ErrorKindUnknownBase, ErrorKindCycleDetected:
		return errbuilder.CodeFailedPrecondition
	default:
		return errbuilder.CodeInternal
	}
}

// KindOf returns the descriptor error kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var descErr *DescriptorError
	if errors.As(err, &descErr) {
		return descErr.Kind, true
	}
	return "", false
}

func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
