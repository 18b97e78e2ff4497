package output

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/domain/entities"
)

// ruleDescriptions explains each diagnostic code.
var ruleDescriptions = map[entities.DiagnosticCode]string{
	entities.CodeMissingComponent: "A placement frame carries no component and was left out of the lattice.",
	entities.CodeUnknownFrame:     "A frame of an unsupported kind was met and left out of the lattice.",
}

type sarifMapper struct {
	resp         *dto.BuildModelResponse
	descriptions []string
	cwd          string
}

func newSARIFMapper(resp *dto.BuildModelResponse, descriptions []string) *sarifMapper {
	cwd, _ := os.Getwd() // Best effort, ignore error
	return &sarifMapper{
		resp:         resp,
		descriptions: descriptions,
		cwd:          cwd,
	}
}

// mapToRun populates the SARIF run with rules, results, artifacts and invocation.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addArtifacts(run)
	m.addInvocation(run)
	m.addProperties(run)
}

// addRules declares one rule per diagnostic code in use.
func (m *sarifMapper) addRules(run *sarif.Run) {
	codes := make(map[entities.DiagnosticCode]bool)
	for _, d := range m.resp.Diagnostics {
		codes[d.Code] = true
	}

	sorted := make([]string, 0, len(codes))
	for c := range codes {
		sorted = append(sorted, string(c))
	}
	sort.Strings(sorted)

	for _, code := range sorted {
		desc, ok := ruleDescriptions[entities.DiagnosticCode(code)]
		if !ok {
			desc = code
		}

		rule := sarif.NewReportingDescriptor().WithID(code)
		rule.WithName(code)
		rule.WithShortDescription(&sarif.MultiformatMessageString{Text: ptrString(desc)})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})
		run.Tool.Driver.AddRule(rule)
	}
}

// addResults converts diagnostics to SARIF results.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, d := range m.resp.Diagnostics {
		result := sarif.NewRuleResult(string(d.Code))
		result.Level = "warning"
		result.Kind = "fail"
		result.Message = sarif.NewTextMessage(d.Message)

		if loc := m.location(d); loc != nil {
			result.Locations = []*sarif.Location{loc}
		}

		props := sarif.NewPropertyBag()
		props.Add("frame", d.Frame)
		props.Add("path", strings.Join(d.Path, "/"))
		props.Add("fullyQualifiedName", strings.Join(append(slices.Clone(d.Path), d.Frame), "/"))
		result.WithProperties(props)

		run.AddResult(result)
	}
}

// location points at the first description file. The grouping path is
// carried in the result properties.
func (m *sarifMapper) location(entities.Diagnostic) *sarif.Location {
	if len(m.descriptions) == 0 {
		return nil
	}
	pLoc := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.descriptions[0])))
	return sarif.NewLocation().WithPhysicalLocation(pLoc)
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path) // Fallback to original
	}

	// Try to make relative to CWD
	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	return "file://" + filepath.ToSlash(abs)
}

// addArtifacts lists the description files.
func (m *sarifMapper) addArtifacts(run *sarif.Run) {
	for _, p := range m.descriptions {
		artifact := sarif.NewArtifact().
			WithLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(p)))
		run.AddArtifact(artifact)
	}
}

// addInvocation records the build metadata.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()
	invocation.ExecutionSuccessful = ptrBool(true)

	end := m.resp.Metadata.ProcessedAt.UTC()
	start := end.Add(-m.resp.Metadata.Duration)
	startTime := start.Format("2006-01-02T15:04:05.000Z")
	endTime := end.Format("2006-01-02T15:04:05.000Z")
	invocation.StartTimeUtc = &startTime
	invocation.EndTimeUtc = &endTime

	if m.cwd != "" {
		cwd := "file://" + filepath.ToSlash(m.cwd)
		invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI(cwd)
	}

	props := sarif.NewPropertyBag()
	props.Add("modelName", m.resp.Model.Name())
	props.Add("modelId", m.resp.Model.ID().String())
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

// addProperties adds the model statistics to the run properties.
func (m *sarifMapper) addProperties(run *sarif.Run) {
	props := sarif.NewPropertyBag()
	props.Add("statistics", m.resp.Statistics)
	run.WithProperties(props)
}

func ptrBool(b bool) *bool {
	return &b
}
