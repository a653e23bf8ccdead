// Package gpost post-processes sliced G-code: it inserts command blocks at chosen
// layers or heights, cuts a print short after a given layer, and fills in
// print-size placeholders.
//
// # Basic Usage
//
// Build an editor from a pipeline file and run it over a sliced file:
//
//	scripts, err := gpost.LoadPipelineFile("pipeline.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	editor, err := gpost.NewEditor(scripts, gpost.WithEndGCode("M104 S0\nM84"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, result, err := editor.ProcessFile("benchy.gcode")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, step := range result.Steps {
//	    fmt.Printf("%s: %s (%d changes)\n", step.ScriptID, step.Status, step.Changes)
//	}
//
// # Chunk Streams
//
// Hosts that already hold the stream as slicer chunks, one per layer, use
// ProcessChunks; the chunk layout is kept wherever the edit allows it.
package gpost

import (
	"fmt"
	"os"

	"github.com/printkit/gpost/pkg/chunk"
	"github.com/printkit/gpost/pkg/macro"
	"github.com/printkit/gpost/pkg/processor"
	"github.com/printkit/gpost/pkg/script"
	"github.com/printkit/gpost/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/printkit/gpost" without subpackages.
type (
	// Script is one configured post-processing step.
	Script = types.Script

	// ScriptSettings holds the option values of a script.
	ScriptSettings = types.ScriptSettings

	// ScriptKind names the operation a script runs.
	ScriptKind = types.ScriptKind

	// Diagnostic is a recovered, non-fatal event.
	Diagnostic = types.Diagnostic

	// Logger receives leveled diagnostic output.
	Logger = types.Logger

	// StepResult reports what one script did.
	StepResult = processor.StepResult

	// RunResult is the outcome of a pipeline run.
	RunResult = processor.RunResult
)

// Re-export script kinds.
const (
	KindInsertGCode        = types.KindInsertGCode
	KindInsertGCodeAtLayer = types.KindInsertGCodeAtLayer
	KindStopAfterLayer     = types.KindStopAfterLayer
	KindMeshPrintSize      = types.KindMeshPrintSize
)

// Editor runs a fixed pipeline of scripts over G-code streams.
// An Editor holds no per-stream state and is safe for concurrent use.
type Editor struct {
	scripts   []*types.Script
	processor *processor.Processor
}

// editorConfig holds editor configuration.
type editorConfig struct {
	logger          types.Logger
	placeholders    map[string]string
	continueOnError bool
}

// Option configures an Editor.
type Option func(*editorConfig)

// WithLogger sends diagnostics and progress to l.
func WithLogger(l Logger) Option {
	return func(c *editorConfig) {
		c.logger = l
	}
}

// WithPlaceholders sets values for {name} tokens in macros.
// Later calls add to earlier ones.
func WithPlaceholders(values map[string]string) Option {
	return func(c *editorConfig) {
		for k, v := range values {
			c.placeholders[k] = v
		}
	}
}

// WithEndGCode sets the machine end G-code, the {machine_end_gcode} placeholder.
func WithEndGCode(gcode string) Option {
	return func(c *editorConfig) {
		c.placeholders[macro.PlaceholderMachineEndGCode] = gcode
	}
}

// WithContinueOnError keeps running the pipeline after a script fails.
// The failed script leaves the stream as it was.
func WithContinueOnError() Option {
	return func(c *editorConfig) {
		c.continueOnError = true
	}
}

// NewEditor validates scripts and creates an Editor that runs them in order.
//
// Example:
//
//	editor, err := gpost.NewEditor([]*gpost.Script{{
//	    ID:      "pause",
//	    Name:    "Pause at 10 mm",
//	    Kind:    gpost.KindInsertGCode,
//	    Enabled: true,
//	    Settings: gpost.ScriptSettings{
//	        Location:       "heights",
//	        HeightNums:     "10-10.3",
//	        InsertLocation: "before",
//	        Macro:          "M0",
//	    },
//	}})
func NewEditor(scripts []*Script, opts ...Option) (*Editor, error) {
	config := &editorConfig{
		placeholders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := script.ValidatePipeline(scripts); err != nil {
		return nil, fmt.Errorf("invalid pipeline: %w", err)
	}

	return &Editor{
		scripts: scripts,
		processor: processor.New(processor.Config{
			Logger:          config.logger,
			Placeholders:    config.placeholders,
			ContinueOnError: config.continueOnError,
		}),
	}, nil
}

// ProcessChunks runs the pipeline over a chunk stream.
func (e *Editor) ProcessChunks(chunks []string) (*RunResult, error) {
	return e.processor.Run(chunks, e.scripts)
}

// ProcessString runs the pipeline over the content of a G-code file.
func (e *Editor) ProcessString(content string) (string, *RunResult, error) {
	result, err := e.ProcessChunks(chunk.Split(content))
	if err != nil {
		return content, result, err
	}
	return chunk.Join(result.Chunks), result, nil
}

// ProcessFile reads a G-code file and runs the pipeline over it.
// The file itself is not modified.
func (e *Editor) ProcessFile(path string) (string, *RunResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading file: %w", err)
	}
	return e.ProcessString(string(content))
}

// Scripts returns a copy of the pipeline.
func (e *Editor) Scripts() []*Script {
	scripts := make([]*Script, len(e.scripts))
	copy(scripts, e.scripts)
	return scripts
}

// LoadPipelineFile loads an ordered list of scripts from a YAML file.
func LoadPipelineFile(path string) ([]*Script, error) {
	return script.NewLoader().LoadPipelineFile(path)
}

// LoadBuiltinScripts returns all builtin preset scripts.
//
// Example:
//
//	presets, err := gpost.LoadBuiltinScripts()
//	if err != nil {
//	    return err
//	}
//	editor, err := gpost.NewEditor(presets[:1])
func LoadBuiltinScripts() ([]*Script, error) {
	return script.NewLoader().LoadBuiltinScripts()
}
