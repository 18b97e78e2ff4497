package entities

import (
	"fmt"
	"strings"
)

// DiagnosticCode classifies a recoverable construction anomaly.
type DiagnosticCode string

const (
	// CodeMissingComponent marks a placement frame that yields no element.
	CodeMissingComponent DiagnosticCode = "missing-component"
	// CodeUnknownFrame marks a frame of a kind the traversal cannot handle.
	CodeUnknownFrame DiagnosticCode = "unknown-frame"
)

// Diagnostic records a recoverable anomaly met while building a model.
// The offending frame is skipped; construction carries on.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
	Frame   string         `json:"frame" yaml:"frame"`
	Path    []string       `json:"path,omitempty" yaml:"path,omitempty"`
}

func (d Diagnostic) String() string {
	if len(d.Path) == 0 {
		return fmt.Sprintf("%s: %s: %s", d.Code, d.Frame, d.Message)
	}
	return fmt.Sprintf("%s: %s/%s: %s", d.Code, strings.Join(d.Path, "/"), d.Frame, d.Message)
}
