package script

import "github.com/printkit/gpost/pkg/types"

// Defaults applied to settings a definition leaves out.
const (
	DefaultLocation       = "layers"
	DefaultLayerNums      = "10-"
	DefaultHeightNums     = "5-10"
	DefaultInsertLocation = "after"
	DefaultLayerNumber    = "1"
	DefaultMacro          = "M300 S1000 P10000"
	DefaultStopMacro      = "{machine_end_gcode}"
)

// Defaults returns the settings a new script of kind starts with.
func Defaults(kind types.ScriptKind) types.ScriptSettings {
	switch kind {
	case types.KindInsertGCode:
		return types.ScriptSettings{
			Location:       DefaultLocation,
			LayerNums:      DefaultLayerNums,
			HeightNums:     DefaultHeightNums,
			InsertLocation: DefaultInsertLocation,
			Macro:          DefaultMacro,
		}
	case types.KindInsertGCodeAtLayer:
		return types.ScriptSettings{
			LayerNumber: DefaultLayerNumber,
			Macro:       DefaultMacro,
		}
	case types.KindStopAfterLayer:
		return types.ScriptSettings{
			LayerNumber: DefaultLayerNumber,
			Macro:       DefaultStopMacro,
		}
	}
	return types.ScriptSettings{}
}
