package script

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/printkit/gpost/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScript_Valid(t *testing.T) {
	loader := NewLoader()

	validYAML := `scripts:
  - id: test.insert
    name: Insert Beep
    kind: insert_gcode
    description: beep after layers
    settings:
      location: layers
      layer_nums: "2, 4-6"
      insert_location: before
      macro: M300 S440 P200
`

	s, err := loader.LoadScript([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "test.insert", s.ID)
	assert.Equal(t, "Insert Beep", s.Name)
	assert.Equal(t, types.KindInsertGCode, s.Kind)
	assert.True(t, s.Enabled)
	assert.Equal(t, "beep after layers", s.Description)
	assert.Equal(t, "layers", s.Settings.Location)
	assert.Equal(t, "2, 4-6", s.Settings.LayerNums)
	assert.Equal(t, "before", s.Settings.InsertLocation)
	assert.Equal(t, "M300 S440 P200", s.Settings.Macro)
	// Unset settings keep their kind default.
	assert.Equal(t, DefaultHeightNums, s.Settings.HeightNums)
}

func TestLoadScript_Defaults(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		name     string
		kind     types.ScriptKind
		expected types.ScriptSettings
	}{
		{
			name: "insert_gcode",
			kind: types.KindInsertGCode,
			expected: types.ScriptSettings{
				Location:       "layers",
				LayerNums:      "10-",
				HeightNums:     "5-10",
				InsertLocation: "after",
				Macro:          "M300 S1000 P10000",
			},
		},
		{
			name: "insert_gcode_at_layer",
			kind: types.KindInsertGCodeAtLayer,
			expected: types.ScriptSettings{
				LayerNumber: "1",
				Macro:       "M300 S1000 P10000",
			},
		},
		{
			name: "stop_after_layer",
			kind: types.KindStopAfterLayer,
			expected: types.ScriptSettings{
				LayerNumber: "1",
				Macro:       "{machine_end_gcode}",
			},
		},
		{
			name:     "mesh_print_size",
			kind:     types.KindMeshPrintSize,
			expected: types.ScriptSettings{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "scripts:\n  - id: x\n    name: X\n    kind: " + string(tt.kind) + "\n"
			s, err := loader.LoadScript([]byte(data))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Settings)
		})
	}
}

func TestLoadScript_ExplicitEmptyMacroKept(t *testing.T) {
	loader := NewLoader()

	data := `scripts:
  - id: stop
    name: Stop
    kind: stop_after_layer
    enabled: false
    settings:
      layer_number: "3"
      comment_out: true
      macro: ""
`
	s, err := loader.LoadScript([]byte(data))
	require.NoError(t, err)

	assert.False(t, s.Enabled)
	assert.True(t, s.Settings.CommentOut)
	assert.Equal(t, "3", s.Settings.LayerNumber)
	assert.Empty(t, s.Settings.Macro)
}

func TestLoadScript_InvalidYAML(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadScript([]byte(`this is not valid yaml: [[[`))
	assert.Error(t, err)
}

func TestLoadScript_NoScripts(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadScript([]byte(`scripts: []`))
	assert.Error(t, err)
}

func TestLoadScript_MultipleScripts(t *testing.T) {
	loader := NewLoader()

	multipleYAML := `scripts:
  - id: a
    name: A
    kind: mesh_print_size
  - id: b
    name: B
    kind: mesh_print_size
`

	_, err := loader.LoadScript([]byte(multipleYAML))
	assert.Error(t, err)
}

func TestLoadPipeline_KeepsOrder(t *testing.T) {
	loader := NewLoader()

	data := `scripts:
  - id: third
    name: Third
    kind: stop_after_layer
  - id: first
    name: First
    kind: insert_gcode
  - id: second
    name: Second
    kind: mesh_print_size
`
	scripts, err := loader.LoadPipeline([]byte(data))
	require.NoError(t, err)
	require.Len(t, scripts, 3)

	assert.Equal(t, "third", scripts[0].ID)
	assert.Equal(t, "first", scripts[1].ID)
	assert.Equal(t, "second", scripts[2].ID)
}

func TestLoadPipelineFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yml")
	require.NoError(t, os.WriteFile(path, []byte("scripts:\n  - id: m\n    name: M\n    kind: mesh_print_size\n"), 0o644))

	loader := NewLoader()
	scripts, err := loader.LoadPipelineFile(path)
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, types.KindMeshPrintSize, scripts[0].Kind)

	_, err = loader.LoadPipelineFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestLoadBuiltinScripts_EmptyFS(t *testing.T) {
	mockFS := fstest.MapFS{
		"presets/.gitkeep": &fstest.MapFile{Data: []byte("")},
	}

	loader := NewLoaderWithFS(mockFS)
	scripts, err := loader.LoadBuiltinScripts()
	require.NoError(t, err)
	assert.Empty(t, scripts)
}

func TestLoadBuiltinScripts_WithScripts(t *testing.T) {
	scriptYAML := `scripts:
  - id: test.mesh
    name: Test Mesh
    kind: mesh_print_size
`

	mockFS := fstest.MapFS{
		"presets/test.yaml": &fstest.MapFile{Data: []byte(scriptYAML)},
		"presets/README.md": &fstest.MapFile{Data: []byte("ignored")},
	}

	loader := NewLoaderWithFS(mockFS)
	scripts, err := loader.LoadBuiltinScripts()
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, "test.mesh", scripts[0].ID)
}

func TestLoadBuiltinScripts_Embedded(t *testing.T) {
	loader := NewLoader()
	scripts, err := loader.LoadBuiltinScripts()
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	// Every shipped preset must validate.
	require.NoError(t, ValidatePipeline(scripts))

	kinds := make(map[types.ScriptKind]bool)
	for _, s := range scripts {
		kinds[s.Kind] = true
	}
	for _, k := range types.ScriptKinds {
		assert.True(t, kinds[k], "no preset for kind %s", k)
	}
}

func TestSelect(t *testing.T) {
	scripts := []*types.Script{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}

	selected, err := Select(scripts, []string{"c", "a"})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "c", selected[0].ID)
	assert.Equal(t, "a", selected[1].ID)

	_, err = Select(scripts, []string{"missing"})
	assert.Error(t, err)
}
