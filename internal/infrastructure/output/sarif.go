package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/application/ports"
)

// SARIFFormatter formats construction diagnostics as SARIF 2.1.0 JSON.
// Each diagnostic code becomes a rule and each diagnostic a result located
// in the description files the model was built from.
//
// Usage:
//
//	formatter := output.NewSARIFFormatter(os.Stdout, ports.FormatterOptions{DescriptionPaths: paths})
//	if err := formatter.Format(resp); err != nil {
//	    log.Fatal(err)
//	}
type SARIFFormatter struct {
	writer       io.Writer
	descriptions []string
	version      string
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(writer io.Writer, options ports.FormatterOptions) *SARIFFormatter {
	return &SARIFFormatter{
		writer:       writer,
		descriptions: options.DescriptionPaths,
		version:      options.ToolVersion,
	}
}

// Format writes the diagnostics of the build result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(resp *dto.BuildModelResponse) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("lattice", "https://github.com/reglet-dev/lattice")
	if f.version != "" {
		run.Tool.Driver.Version = ptrString(f.version)
	}

	mapper := newSARIFMapper(resp, f.descriptions)
	mapper.mapToRun(run)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

// FormatSelection is not supported: SARIF carries diagnostics only.
func (f *SARIFFormatter) FormatSelection(*dto.SelectPlacementsResponse) error {
	return errors.New("sarif output is only available for build results")
}

func ptrString(s string) *string {
	return &s
}
