package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/application/ports"
	"github.com/reglet-dev/lattice/internal/domain/services"
)

const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// TableFormatter formats results as human-readable text.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
	ShowLattice bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer, options ports.FormatterOptions) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: options.Color,
		ShowLattice: options.ShowLattice,
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// Format writes the model statistics, then the lattice and the diagnostics
// when there are any.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(resp *dto.BuildModelResponse) error {
	fmt.Fprintf(f.writer, "Model: %s (%s)\n", f.colorize(resp.Model.Name(), colorBold), resp.Model.ID())
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))

	if err := services.WriteStatistics(f.writer, resp.Statistics); err != nil {
		return err
	}

	if f.ShowLattice {
		fmt.Fprintln(f.writer, f.colorize("Lattice:", colorBold))
		f.writeRows(latticeRows(resp.Model))
		fmt.Fprintln(f.writer)
	}

	if len(resp.Diagnostics) > 0 {
		fmt.Fprintln(f.writer, f.colorize(fmt.Sprintf("Diagnostics (%d):", len(resp.Diagnostics)), colorYellow))
		for _, d := range resp.Diagnostics {
			fmt.Fprintf(f.writer, "  ⚠ %s\n", d.String())
		}
		fmt.Fprintln(f.writer)
	}
	return nil
}

// FormatSelection writes the selected placements as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) FormatSelection(resp *dto.SelectPlacementsResponse) error {
	doc := NewSelectionDocument(resp)

	fmt.Fprintf(f.writer, "Model: %s (%s)\n", f.colorize(doc.Model, colorBold), doc.ModelID)
	fmt.Fprintf(f.writer, "Selected placements: %d\n", doc.Count)
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))

	if doc.Count == 0 {
		fmt.Fprintln(f.writer, "No placements matched.")
		return nil
	}
	f.writeRows(doc.Placements)
	return nil
}

//nolint:errcheck // best-effort terminal output
func (f *TableFormatter) writeRows(rows []PlacementRow) {
	fmt.Fprintf(f.writer, "%6s  %-16s %-12s %12s %10s  %s\n", "INDEX", "NAME", "TYPE", "S [m]", "L [m]", "GROUPING")
	for _, r := range rows {
		fmt.Fprintf(f.writer, "%6d  %-16s %-12s %12.6f %10.6f  %s\n",
			r.Index, r.Name, r.Type, r.S, r.Length, strings.Join(r.Path, "/"))
	}
}
