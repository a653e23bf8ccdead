package processor

import "github.com/printkit/gpost/pkg/types"

// Status is the outcome of one pipeline step.
type Status string

const (
	StatusApplied   Status = "applied"   // the stream changed
	StatusUnchanged Status = "unchanged" // the script ran but nothing matched
	StatusSkipped   Status = "skipped"   // the script is disabled
	StatusFailed    Status = "failed"    // hard failure, input passed through
)

// StepResult reports what one script did.
type StepResult struct {
	ScriptID    string             `json:"script_id"`
	Kind        types.ScriptKind   `json:"kind"`
	Status      Status             `json:"status"`
	Changes     int                `json:"changes"` // blocks inserted, layers removed or tokens replaced
	Diagnostics []types.Diagnostic `json:"diagnostics,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// RunResult is the outcome of a whole pipeline.
type RunResult struct {
	Chunks   []string        `json:"chunks"`
	Steps    []StepResult    `json:"steps"`
	InputID  types.ContentID `json:"input_id"`
	OutputID types.ContentID `json:"output_id"`
}

// Changed reports whether the pipeline altered the stream.
func (r *RunResult) Changed() bool {
	return r.InputID != r.OutputID
}

// Diagnostics returns the diagnostics of every step in order.
func (r *RunResult) Diagnostics() []types.Diagnostic {
	var all []types.Diagnostic
	for _, s := range r.Steps {
		all = append(all, s.Diagnostics...)
	}
	return all
}
