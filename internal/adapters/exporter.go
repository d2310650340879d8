package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"rosiface/internal/ports"
	"rosiface/internal/types"
)

// DocumentExporter renders resolved descriptors in the descriptor document
// schema, always in concrete form.
type DocumentExporter struct{}

func NewDocumentExporter() DocumentExporter {
	return DocumentExporter{}
}

type exportedInterface struct {
	Advertise  []types.InterfaceEntry `yaml:"advertise" json:"advertise"`
	Subscribe  []types.InterfaceEntry `yaml:"subscribe" json:"subscribe"`
	Service    []types.InterfaceEntry `yaml:"service" json:"service"`
	Client     []types.InterfaceEntry `yaml:"client" json:"client"`
	ReadParam  []types.InterfaceEntry `yaml:"readParam" json:"readParam"`
	WriteParam []types.InterfaceEntry `yaml:"writeParam" json:"writeParam"`
}

// Export renders resolved as {component: {track: interface}}. The text
// format is rendered as YAML.
func (e DocumentExporter) Export(resolved types.ResolvedDescriptor, format types.OutputFormat) ([]byte, error) {
	iface := exportedInterface{
		Advertise:  resolved.Entries(types.CategoryAdvertise),
		Subscribe:  resolved.Entries(types.CategorySubscribe),
		Service:    resolved.Entries(types.CategoryService),
		Client:     resolved.Entries(types.CategoryClient),
		ReadParam:  resolved.Entries(types.CategoryReadParam),
		WriteParam: resolved.Entries(types.CategoryWriteParam),
	}
	doc := map[string]map[string]exportedInterface{
		resolved.Component: {resolved.Track: iface},
	}

	switch format {
	case types.OutputFormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, exportError(err)
		}
		return append(data, '\n'), nil
	case types.OutputFormatYAML, types.OutputFormatText, "":
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, exportError(err)
		}
		if err := encoder.Close(); err != nil {
			return nil, exportError(err)
		}
		return buf.Bytes(), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported export format: %s", format))
	}
}

func exportError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to export descriptor").
		WithCause(err)
}

var _ ports.ExportPort = DocumentExporter{}
