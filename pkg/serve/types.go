package serve

import (
	"encoding/json"

	"github.com/printkit/gpost/pkg/processor"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "process" | "process_batch" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ProcessPayload is the payload for "process" requests.
// The stream is given either as chunks or as raw file content. Scripts use the
// same fields as the YAML script format; presets name builtin scripts by ID.
type ProcessPayload struct {
	Source          string            `json:"source,omitempty"`
	Chunks          []string          `json:"chunks,omitempty"`
	Content         string            `json:"content,omitempty"`
	Scripts         json.RawMessage   `json:"scripts,omitempty"`
	Presets         []string          `json:"presets,omitempty"`
	Placeholders    map[string]string `json:"placeholders,omitempty"`
	ContinueOnError bool              `json:"continue_on_error,omitempty"`
}

// ProcessBatchPayload is the payload for "process_batch" requests
type ProcessBatchPayload struct {
	Items []ProcessPayload `json:"items"`
}

// ProcessResult is the data of a "process" response and one entry of a batch.
type ProcessResult struct {
	Source  string                 `json:"source"`
	Chunks  []string               `json:"chunks,omitempty"`
	Content string                 `json:"content,omitempty"` // set when the request sent content
	Steps   []processor.StepResult `json:"steps"`
	Changed bool                   `json:"changed"`
	Error   string                 `json:"error,omitempty"`
}

// BatchResult is the data of a "process_batch" response
type BatchResult struct {
	Results []ProcessResult `json:"results"`
	Failed  int             `json:"failed"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "process" | "process_batch" | "decode" | "unknown"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string   `json:"version"`
	Presets []string `json:"presets"`
}
