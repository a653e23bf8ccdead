// Package sarif renders run diagnostics as a SARIF 2.1.0 log for CI annotation.
package sarif

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/printkit/gpost/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "gpost"
)

// RuleScriptFailed is the rule ID reported for scripts that returned an error.
const RuleScriptFailed = "ScriptFailed"

// descriptions of the rules gpost can report.
var descriptions = map[string]string{
	string(types.CodeMalformedLayerMarker):  "A ;LAYER: or ;LAYER_COUNT: value is not an integer",
	string(types.CodeMissingZComponent):     "A motion command has a Z word without a value",
	string(types.CodeLayerNotFound):         "The stream ends before the requested layer",
	string(types.CodeNothingRemoved):        "The stream already stops at the requested layer",
	string(types.CodeUnresolvedPlaceholder): "A macro placeholder has no value",
	RuleScriptFailed:                        "A script could not be applied",
}

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one diagnostic code
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result is one reported diagnostic
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region points at a line of the stream as the script saw it
type Region struct {
	StartLine int `json:"startLine"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport(toolVersion string) *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: toolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddRule registers a rule once; later calls with the same ID are ignored.
func (r *Report) AddRule(id string) {
	driver := &r.Runs[0].Tool.Driver
	for _, existing := range driver.Rules {
		if existing.ID == id {
			return
		}
	}
	driver.Rules = append(driver.Rules, Rule{
		ID:               id,
		Name:             id,
		ShortDescription: ShortDescription{Text: descriptions[id]},
	})
}

// AddDiagnostic reports d, raised by scriptID while processing filePath.
func (r *Report) AddDiagnostic(filePath, scriptID string, d types.Diagnostic) {
	r.add(string(d.Code), level(d.Severity), filePath, scriptID+": "+d.Message, d.Line)
}

// AddFailure reports a script that could not be applied.
func (r *Report) AddFailure(filePath, scriptID, message string) {
	r.add(RuleScriptFailed, "error", filePath, scriptID+": "+message, 0)
}

func (r *Report) add(ruleID, lvl, filePath, message string, line int) {
	r.AddRule(ruleID)

	loc := PhysicalLocation{
		ArtifactLocation: ArtifactLocation{URI: formatFileURI(filePath)},
	}
	if line > 0 {
		loc.Region = &Region{StartLine: line}
	}

	r.Runs[0].Results = append(r.Runs[0].Results, Result{
		RuleID:    ruleID,
		Level:     lvl,
		Message:   Message{Text: message},
		Locations: []Location{{PhysicalLocation: loc}},
	})
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func level(s types.Severity) string {
	switch s {
	case types.SeverityError:
		return "error"
	case types.SeverityWarning:
		return "warning"
	}
	return "note"
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		// Normalize path separators for URI format
		path = filepath.ToSlash(path)
		// Ensure path starts with /
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	// Relative paths stay as-is
	return filepath.ToSlash(path)
}
