package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/application/ports"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	writer      io.Writer
	indent      bool
	showLattice bool
}

// NewJSONFormatter creates a new JSON formatter.
// If options.Indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, options ports.FormatterOptions) *JSONFormatter {
	return &JSONFormatter{
		writer:      w,
		indent:      options.Indent,
		showLattice: options.ShowLattice,
	}
}

// Format writes the build result as JSON.
func (f *JSONFormatter) Format(resp *dto.BuildModelResponse) error {
	return f.write(NewModelDocument(resp, f.showLattice))
}

// FormatSelection writes the selected placements as JSON.
func (f *JSONFormatter) FormatSelection(resp *dto.SelectPlacementsResponse) error {
	return f.write(NewSelectionDocument(resp))
}

func (f *JSONFormatter) write(v any) error {
	var data []byte
	var err error

	if f.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	if _, err := f.writer.Write(data); err != nil {
		return err
	}
	_, err = f.writer.Write([]byte("\n"))
	return err
}
