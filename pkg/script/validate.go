package script

import (
	"fmt"

	"github.com/printkit/gpost/pkg/insert"
	"github.com/printkit/gpost/pkg/rangespec"
	"github.com/printkit/gpost/pkg/truncate"
	"github.com/printkit/gpost/pkg/types"
)

// ValidateScript checks required fields and that every setting the script's kind
// uses can be parsed. The returned error wraps the matching sentinel from pkg/types.
func ValidateScript(s *types.Script) error {
	if s == nil {
		return fmt.Errorf("script is nil")
	}

	// Check required fields
	if s.ID == "" {
		return fmt.Errorf("script ID is required")
	}
	if s.Name == "" {
		return fmt.Errorf("script %s: name is required", s.ID)
	}
	if !s.Kind.Known() {
		return fmt.Errorf("script %s: %w: %q", s.ID, types.ErrUnknownScriptKind, s.Kind)
	}

	switch s.Kind {
	case types.KindInsertGCode:
		loc, err := insert.ParseLocation(s.Settings.Location)
		if err != nil {
			return fmt.Errorf("script %s: %w", s.ID, err)
		}
		if _, err := insert.ParseSide(s.Settings.InsertLocation); err != nil {
			return fmt.Errorf("script %s: %w", s.ID, err)
		}
		switch loc {
		case insert.LocationLayers:
			if _, err := rangespec.Parse(s.Settings.LayerNums); err != nil {
				return fmt.Errorf("script %s: layer_nums: %w", s.ID, err)
			}
		case insert.LocationHeights:
			if _, err := rangespec.Parse(s.Settings.HeightNums); err != nil {
				return fmt.Errorf("script %s: height_nums: %w", s.ID, err)
			}
		}
	case types.KindInsertGCodeAtLayer:
		if len(insert.ParseLayerNumbers(s.Settings.LayerNumber)) == 0 {
			return fmt.Errorf("script %s: %w: no usable layer in %q", s.ID, types.ErrInvalidLayerNumber, s.Settings.LayerNumber)
		}
	case types.KindStopAfterLayer:
		if _, err := truncate.ParseLayer(s.Settings.LayerNumber); err != nil {
			return fmt.Errorf("script %s: %w", s.ID, err)
		}
	}

	return nil
}

// ValidatePipeline validates every script and rejects duplicate IDs.
func ValidatePipeline(scripts []*types.Script) error {
	if len(scripts) == 0 {
		return fmt.Errorf("pipeline has no scripts")
	}

	seen := make(map[string]bool)
	for _, s := range scripts {
		if err := ValidateScript(s); err != nil {
			return err
		}
		if seen[s.ID] {
			return fmt.Errorf("pipeline contains duplicate script ID: %s", s.ID)
		}
		seen[s.ID] = true
	}

	return nil
}
