package adapters

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"rosiface/internal/ports"
	"rosiface/internal/shared"
	"rosiface/internal/types"
)

// DescriptorFileAdapter reads descriptor documents from YAML or JSON files.
type DescriptorFileAdapter struct{}

func NewDescriptorFileAdapter() DescriptorFileAdapter {
	return DescriptorFileAdapter{}
}

// Discover expands directories into the descriptor files below them. Files
// named explicitly are kept whatever their extension. The result is sorted
// and free of duplicates.
func (a DescriptorFileAdapter) Discover(paths []string) ([]string, error) {
	if len(shared.CleanStrings(paths)) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no descriptor paths given")
	}
	seen := map[string]struct{}{}
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	for _, root := range shared.CleanStrings(paths) {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("descriptor path not found: " + root).
				WithCause(err)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && shouldSkipDescriptorDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if shared.IsDescriptorFile(path) {
				add(filepath.Clean(path))
			}
			return nil
		})
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to scan descriptor directory").
				WithCause(err)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (a DescriptorFileAdapter) LoadDocument(path string) (types.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RawDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("descriptor file not found").
			WithCause(err)
	}
	root, err := ParseDocument(data)
	if err != nil {
		return types.RawDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse descriptor " + path).
			WithCause(err)
	}
	return types.RawDocument{Source: path, Root: root}, nil
}

// ParseDocument decodes a YAML or JSON document into an ordered raw
// mapping. An empty document yields an empty mapping. Repeated keys in any
// mapping are rejected.
func ParseDocument(data []byte) (types.RawMap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return types.RawMap{}, nil
	}
	decoder := rawDecoder{anchors: map[*yaml.Node]any{}, active: map[*yaml.Node]bool{}}
	value, err := decoder.value(doc.Content[0])
	if err != nil {
		return nil, err
	}
	if value == nil {
		return types.RawMap{}, nil
	}
	root, ok := value.(types.RawMap)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("descriptor document must be a mapping of components")
	}
	return root, nil
}

// rawDecoder converts yaml nodes into raw values. Anchored nodes are
// converted once and shared by every alias that refers to them.
type rawDecoder struct {
	anchors map[*yaml.Node]any
	active  map[*yaml.Node]bool
}

func (d rawDecoder) value(node *yaml.Node) (any, error) {
	if node.Kind == yaml.AliasNode {
		return d.value(node.Alias)
	}
	if node.Anchor != "" {
		if value, ok := d.anchors[node]; ok {
			return value, nil
		}
		if d.active[node] {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("line %d: anchor %q value contains itself", node.Line, node.Anchor))
		}
		d.active[node] = true
		defer delete(d.active, node)
	}
	value, err := d.convert(node)
	if err != nil {
		return nil, err
	}
	if node.Anchor != "" {
		d.anchors[node] = value
	}
	return value, nil
}

func (d rawDecoder) convert(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		fields := make(types.RawMap, 0, len(node.Content)/2)
		lines := make(map[string]int, len(node.Content)/2)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			key := node.Content[idx]
			if key.Kind != yaml.ScalarNode {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("line %d: mapping keys must be scalars", key.Line))
			}
			if first, seen := lines[key.Value]; seen {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("line %d: mapping key %q already defined at line %d", key.Line, key.Value, first))
			}
			lines[key.Value] = key.Line
			value, err := d.value(node.Content[idx+1])
			if err != nil {
				return nil, err
			}
			fields = append(fields, types.RawField{Key: key.Value, Value: value})
		}
		return fields, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := d.value(child)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return nil, nil
	}
}

func scalarValue(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var value bool
		err := node.Decode(&value)
		return value, err
	case "!!int":
		var value int
		err := node.Decode(&value)
		return value, err
	case "!!float":
		var value float64
		err := node.Decode(&value)
		return value, err
	default:
		return node.Value, nil
	}
}

func shouldSkipDescriptorDir(name string) bool {
	return strings.HasPrefix(name, ".")
}

var _ ports.DescriptorSourcePort = DescriptorFileAdapter{}
