package output

import (
	"io"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/application/ports"
)

// YAMLFormatter formats results as YAML.
type YAMLFormatter struct {
	writer      io.Writer
	showLattice bool
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer, options ports.FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{writer: w, showLattice: options.ShowLattice}
}

// Format writes the build result as YAML.
func (f *YAMLFormatter) Format(resp *dto.BuildModelResponse) error {
	return f.encode(NewModelDocument(resp, f.showLattice))
}

// FormatSelection writes the selected placements as YAML.
func (f *YAMLFormatter) FormatSelection(resp *dto.SelectPlacementsResponse) error {
	return f.encode(NewSelectionDocument(resp))
}

func (f *YAMLFormatter) encode(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
