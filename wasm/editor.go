//go:build wasm

package main

import (
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/printkit/gpost"
	"github.com/printkit/gpost/pkg/processor"
	"github.com/printkit/gpost/pkg/script"
)

var (
	editors   = make(map[int]*gpost.Editor)
	editorsMu sync.RWMutex
	nextID    int
)

// ProcessResult is returned by GPostProcess and GPostProcessChunks.
type ProcessResult struct {
	Content string                 `json:"content,omitempty"`
	Chunks  []string               `json:"chunks,omitempty"`
	Steps   []processor.StepResult `json:"steps"`
	Changed bool                   `json:"changed"`
}

// newEditor creates an editor from a pipeline and optional placeholder values.
// The pipeline is YAML or JSON in the script file format.
// JS: GPostNewEditor(pipeline, placeholdersJSON?) -> {handle} or {error}
func newEditor(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "pipeline argument required"}
	}

	scripts, err := script.NewLoader().LoadPipeline([]byte(args[0].String()))
	if err != nil {
		return map[string]interface{}{"error": "failed to load pipeline: " + err.Error()}
	}

	var opts []gpost.Option
	if len(args) > 1 && args[1].Type() == js.TypeString && args[1].String() != "" {
		var values map[string]string
		if err := json.Unmarshal([]byte(args[1].String()), &values); err != nil {
			return map[string]interface{}{"error": "failed to parse placeholders JSON: " + err.Error()}
		}
		opts = append(opts, gpost.WithPlaceholders(values))
	}

	editor, err := gpost.NewEditor(scripts, opts...)
	if err != nil {
		return map[string]interface{}{"error": "failed to create editor: " + err.Error()}
	}

	// Register editor
	editorsMu.Lock()
	id := nextID
	nextID++
	editors[id] = editor
	editorsMu.Unlock()

	return map[string]interface{}{"handle": id}
}

// process runs the pipeline over the content of a G-code file.
// JS: GPostProcess(handle, content) -> JSON ProcessResult or {error}
func process(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and content arguments required"}
	}

	editor, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid editor handle"}
	}

	out, result, err := editor.ProcessString(args[1].String())
	if err != nil {
		return map[string]interface{}{"error": "process failed: " + err.Error()}
	}

	return marshal(ProcessResult{Content: out, Steps: result.Steps, Changed: result.Changed()})
}

// processChunks runs the pipeline over a chunk stream.
// JS: GPostProcessChunks(handle, chunksJSON) -> JSON ProcessResult or {error}
func processChunks(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and chunksJSON arguments required"}
	}

	editor, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid editor handle"}
	}

	var chunks []string
	if err := json.Unmarshal([]byte(args[1].String()), &chunks); err != nil {
		return map[string]interface{}{"error": "failed to parse chunks JSON: " + err.Error()}
	}

	result, err := editor.ProcessChunks(chunks)
	if err != nil {
		return map[string]interface{}{"error": "process failed: " + err.Error()}
	}

	return marshal(ProcessResult{Chunks: result.Chunks, Steps: result.Steps, Changed: result.Changed()})
}

// closeEditor releases an editor handle.
// JS: GPostCloseEditor(handle)
func closeEditor(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	editorsMu.Lock()
	_, ok := editors[handle]
	if ok {
		delete(editors, handle)
	}
	editorsMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid editor handle"}
	}
	return nil
}

// getBuiltinScripts returns the builtin presets as JSON.
// JS: GPostGetBuiltinScripts() -> JSON scripts array
func getBuiltinScripts(this js.Value, args []js.Value) interface{} {
	scripts, err := gpost.LoadBuiltinScripts()
	if err != nil {
		return map[string]interface{}{"error": "failed to load builtin scripts: " + err.Error()}
	}
	return marshal(scripts)
}

func lookup(handle int) (*gpost.Editor, bool) {
	editorsMu.RLock()
	defer editorsMu.RUnlock()
	editor, ok := editors[handle]
	return editor, ok
}

func marshal(v interface{}) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal results: " + err.Error()}
	}
	return string(jsonBytes)
}
