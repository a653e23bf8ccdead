package types

import "fmt"

// Severity of a diagnostic.
type Severity string

const (
	SeverityDebug   Severity = "debug"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DiagnosticCode identifies a recovered condition.
type DiagnosticCode string

const (
	CodeMalformedLayerMarker  DiagnosticCode = "MalformedLayerMarker"
	CodeMissingZComponent     DiagnosticCode = "MissingZComponent"
	CodeLayerNotFound         DiagnosticCode = "LayerNotFound"
	CodeNothingRemoved        DiagnosticCode = "NothingRemoved"
	CodeUnresolvedPlaceholder DiagnosticCode = "UnresolvedPlaceholder"
)

// Diagnostic is a non-fatal event raised while transforming a stream.
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     DiagnosticCode `json:"code"`
	Line     int            `json:"line,omitempty"` // 1-indexed line in the flattened stream, 0 if not tied to a line
	Message  string         `json:"message"`
}

// String formats the diagnostic for logs.
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", d.Code, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Warning builds a warning diagnostic.
func Warning(code DiagnosticCode, line int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Line: line, Message: fmt.Sprintf(format, args...)}
}

// Error builds an error diagnostic. Errors in diagnostics are recovered locally.
func Error(code DiagnosticCode, line int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Line: line, Message: fmt.Sprintf(format, args...)}
}

// Info builds an informational diagnostic.
func Info(code DiagnosticCode, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityInfo, Code: code, Message: fmt.Sprintf(format, args...)}
}
