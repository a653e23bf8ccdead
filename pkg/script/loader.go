package script

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/printkit/gpost/pkg/types"
	"gopkg.in/yaml.v3"
)

// Loader handles loading scripts from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for builtin presets
}

// NewLoader creates a loader with builtin presets from embedded filesystem.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinPresetsFS,
	}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// LoadScript loads a single script from YAML bytes.
// Returns error if YAML is invalid or multiple scripts are present.
func (l *Loader) LoadScript(data []byte) (*types.Script, error) {
	scripts, err := parseScripts(data)
	if err != nil {
		return nil, err
	}
	if len(scripts) > 1 {
		return nil, fmt.Errorf("expected single script, found %d", len(scripts))
	}
	return scripts[0], nil
}

// LoadPipeline loads an ordered list of scripts from YAML bytes.
func (l *Loader) LoadPipeline(data []byte) ([]*types.Script, error) {
	return parseScripts(data)
}

// LoadPipelineFile loads a pipeline from a YAML file path.
func (l *Loader) LoadPipelineFile(path string) ([]*types.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	scripts, err := l.LoadPipeline(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scripts, nil
}

// LoadBuiltinScripts loads all builtin presets from the embedded filesystem.
func (l *Loader) LoadBuiltinScripts() ([]*types.Script, error) {
	var scripts []*types.Script

	err := fs.WalkDir(l.fs, "presets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || (filepath.Ext(path) != ".yml" && filepath.Ext(path) != ".yaml") {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var yamlFile yamlScriptsFile
		if err := yaml.Unmarshal(data, &yamlFile); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		for _, ys := range yamlFile.Scripts {
			scripts = append(scripts, convertYAMLScript(ys))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return scripts, nil
}

// Select returns the scripts with the given IDs, in the order of ids.
func Select(scripts []*types.Script, ids []string) ([]*types.Script, error) {
	byID := make(map[string]*types.Script, len(scripts))
	for _, s := range scripts {
		byID[s.ID] = s
	}

	selected := make([]*types.Script, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown script ID: %s", id)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

func parseScripts(data []byte) ([]*types.Script, error) {
	var yamlFile yamlScriptsFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(yamlFile.Scripts) == 0 {
		return nil, fmt.Errorf("no scripts found in YAML")
	}

	scripts := make([]*types.Script, 0, len(yamlFile.Scripts))
	for _, ys := range yamlFile.Scripts {
		scripts = append(scripts, convertYAMLScript(ys))
	}
	return scripts, nil
}

// convertYAMLScript converts yamlScript to types.Script, filling kind defaults.
func convertYAMLScript(ys yamlScript) *types.Script {
	kind := types.ScriptKind(ys.Kind)
	s := &types.Script{
		ID:          ys.ID,
		Name:        ys.Name,
		Kind:        kind,
		Enabled:     true,
		Description: ys.Description,
		Settings:    Defaults(kind),
	}
	if ys.Enabled != nil {
		s.Enabled = *ys.Enabled
	}

	set := ys.Settings
	override(&s.Settings.Location, set.Location)
	override(&s.Settings.LayerNums, set.LayerNums)
	override(&s.Settings.HeightNums, set.HeightNums)
	override(&s.Settings.InsertLocation, set.InsertLocation)
	override(&s.Settings.LayerNumber, set.LayerNumber)
	override(&s.Settings.Macro, set.Macro)
	if set.CommentOut != nil {
		s.Settings.CommentOut = *set.CommentOut
	}
	return s
}

func override(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
