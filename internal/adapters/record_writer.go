package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rosiface/internal/ports"
	"rosiface/internal/types"
)

// RecordWriter renders query results one record per line, either as
// tab-separated text or as one JSON object per line.
type RecordWriter struct {
	Out    io.Writer
	Format types.OutputFormat
}

func NewRecordWriter(out io.Writer, format types.OutputFormat) (RecordWriter, error) {
	switch format {
	case "":
		format = types.OutputFormatText
	case types.OutputFormatText, types.OutputFormatJSON:
	default:
		return RecordWriter{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported record format: %s", format))
	}
	return RecordWriter{Out: out, Format: format}, nil
}

type entryRecord struct {
	Component string         `json:"component"`
	Track     string         `json:"track"`
	Category  types.Category `json:"category"`
	types.InterfaceEntry
}

func (w RecordWriter) WriteEntries(component string, track string, category types.Category, entries []types.InterfaceEntry) error {
	for _, entry := range entries {
		if w.Format == types.OutputFormatJSON {
			if err := w.json(entryRecord{Component: component, Track: track, Category: category, InterfaceEntry: entry}); err != nil {
				return err
			}
			continue
		}
		if err := w.line(entryLine(category, entry)...); err != nil {
			return err
		}
	}
	return nil
}

type changeRecord struct {
	Component string                `json:"component"`
	TrackA    string                `json:"track_a"`
	TrackB    string                `json:"track_b"`
	Category  types.Category        `json:"category"`
	Change    types.ChangeKind      `json:"change"`
	Name      string                `json:"name"`
	Entry     *types.InterfaceEntry `json:"entry,omitempty"`
	Fields    []types.FieldChange   `json:"fields,omitempty"`
}

func (w RecordWriter) WriteDiff(diff types.DiffResult) error {
	if diff.Empty() && w.Format == types.OutputFormatText {
		return w.line("identical", diff.Component, diff.TrackA, diff.TrackB)
	}
	for _, category := range diff.Categories {
		for _, entry := range category.Removed {
			if err := w.change(diff, category.Category, types.ChangeRemoved, entry, nil); err != nil {
				return err
			}
		}
		for _, entry := range category.Added {
			if err := w.change(diff, category.Category, types.ChangeAdded, entry, nil); err != nil {
				return err
			}
		}
		for _, change := range category.Changed {
			if err := w.change(diff, category.Category, types.ChangeChanged, change.After, change.Fields); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w RecordWriter) change(diff types.DiffResult, category types.Category, kind types.ChangeKind, entry types.InterfaceEntry, fields []types.FieldChange) error {
	if w.Format == types.OutputFormatJSON {
		record := changeRecord{
			Component: diff.Component,
			TrackA:    diff.TrackA,
			TrackB:    diff.TrackB,
			Category:  category,
			Change:    kind,
			Name:      entry.Name,
			Fields:    fields,
		}
		if kind != types.ChangeChanged {
			record.Entry = &entry
		}
		return w.json(record)
	}
	switch kind {
	case types.ChangeAdded:
		return w.line(append([]string{"+"}, entryLine(category, entry)...)...)
	case types.ChangeRemoved:
		return w.line(append([]string{"-"}, entryLine(category, entry)...)...)
	default:
		for _, field := range fields {
			if err := w.line("~", string(category), entry.Name, field.Field, field.Before+" -> "+field.After); err != nil {
				return err
			}
		}
		return nil
	}
}

type trackRecord struct {
	Component  string            `json:"component"`
	Track      string            `json:"track"`
	OK         bool              `json:"ok"`
	Origin     string            `json:"origin,omitempty"`
	Kind       string            `json:"kind,omitempty"`
	Error      string            `json:"error,omitempty"`
	Path       []string          `json:"path,omitempty"`
	Violations []types.Violation `json:"violations,omitempty"`
}

func newTrackRecord(component string, track types.TrackReport) trackRecord {
	record := trackRecord{Component: component, Track: track.Track, OK: track.OK(), Origin: track.Origin}
	if track.Err == nil {
		return record
	}
	record.Error = track.Err.Error()
	var descErr *types.DescriptorError
	if errors.As(track.Err, &descErr) {
		record.Kind = string(descErr.Kind)
		record.Path = descErr.Path
		record.Violations = descErr.Violations
	}
	return record
}

// WriteReport writes one record per track. In text mode a track that failed
// validation gets one fail record per violation.
func (w RecordWriter) WriteReport(report types.ComponentReport) error {
	for _, track := range report.Tracks {
		record := newTrackRecord(report.Component, track)
		if w.Format == types.OutputFormatJSON {
			if err := w.json(record); err != nil {
				return err
			}
			continue
		}
		if record.OK {
			if err := w.line("ok", record.Component, record.Track, "origin="+record.Origin); err != nil {
				return err
			}
			continue
		}
		if len(record.Violations) == 0 {
			if err := w.line("fail", record.Component, record.Track, firstLine(record.Error)); err != nil {
				return err
			}
			continue
		}
		for _, violation := range record.Violations {
			if err := w.line("fail", record.Component, record.Track, violation.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w RecordWriter) WriteComponents(components []string) error {
	for _, component := range components {
		var err error
		if w.Format == types.OutputFormatJSON {
			err = w.json(map[string]string{"component": component})
		} else {
			err = w.line(component)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w RecordWriter) WriteTracks(component string, tracks []string) error {
	for _, track := range tracks {
		var err error
		if w.Format == types.OutputFormatJSON {
			err = w.json(map[string]string{"component": component, "track": track})
		} else {
			err = w.line(component, track)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w RecordWriter) WriteNames(names []types.ResolvedName) error {
	for _, name := range names {
		var err error
		if w.Format == types.OutputFormatJSON {
			err = w.json(name)
		} else {
			err = w.line(string(name.Category), name.FullName, name.Entry.Name, name.Entry.TypeName)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w RecordWriter) WriteMatches(matches []types.EntryMatch) error {
	for _, match := range matches {
		var err error
		if w.Format == types.OutputFormatJSON {
			err = w.json(match)
		} else {
			err = w.line(match.Component, match.Track, string(match.Category), match.Entry.Name, match.Entry.TypeName)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w RecordWriter) line(fields ...string) error {
	if _, err := fmt.Fprintln(w.Out, strings.Join(fields, "\t")); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write record").
			WithCause(err)
	}
	return nil
}

func (w RecordWriter) json(record any) error {
	if err := json.NewEncoder(w.Out).Encode(record); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write record").
			WithCause(err)
	}
	return nil
}

// entryLine renders category, name and type followed by the non-default
// optional fields as key=value. Conditions are quoted one by one.
func entryLine(category types.Category, entry types.InterfaceEntry) []string {
	fields := []string{string(category), entry.Name, entry.TypeName}
	if entry.NamespaceHint != "" {
		fields = append(fields, "namespace="+entry.NamespaceHint)
	}
	if entry.QueueOrDepth != 0 {
		fields = append(fields, "queue="+strconv.Itoa(entry.QueueOrDepth))
	}
	if entry.Location != nil {
		fields = append(fields, "location="+entry.LocationOrEmpty())
	}
	if entry.Repeats {
		fields = append(fields, "repeats=true")
	}
	if len(entry.Conditions) > 0 {
		quoted := make([]string, 0, len(entry.Conditions))
		for _, condition := range entry.Conditions {
			quoted = append(quoted, strconv.Quote(condition))
		}
		fields = append(fields, "conditions="+strings.Join(quoted, ","))
	}
	return fields
}

func firstLine(value string) string {
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		return value[:idx]
	}
	return value
}

var _ ports.RecordWriterPort = RecordWriter{}
