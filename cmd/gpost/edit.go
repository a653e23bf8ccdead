package main

import (
	"fmt"

	"github.com/printkit/gpost/pkg/script"
	"github.com/printkit/gpost/pkg/types"
	"github.com/spf13/cobra"
)

var (
	insertLocation string
	insertLayers   string
	insertHeights  string
	insertSide     string
	insertMacro    string

	atLayerLayers string
	atLayerMacro  string

	stopLayer      string
	stopCommentOut bool
	stopMacro      string
)

var insertCmd = &cobra.Command{
	Use:   "insert <target>",
	Short: "Insert a G-code block at layers, heights, or the ends of the file",
	Long: `Insert a G-code block before or after every layer matching --layers, every
layer whose height matches --heights, or once at the start, end, before the
first layer or after the last layer.

Ranges are comma-separated numbers or low-high pairs, either side optional:
"4, 6-8, 10-". Commas in --macro separate commands.`,
	Args: cobra.ExactArgs(1),
	RunE: runInsert,
}

var insertAtLayerCmd = &cobra.Command{
	Use:   "insert-at-layer <target>",
	Short: "Insert a G-code block before specific layer markers",
	Long: `Insert a G-code block immediately before each ";LAYER:<n>" marker whose n,
as written by the slicer, is listed in --layers.`,
	Args: cobra.ExactArgs(1),
	RunE: runInsertAtLayer,
}

var stopAfterCmd = &cobra.Command{
	Use:   "stop-after <target>",
	Short: "Stop the print after a layer",
	Long: `Remove, or comment out with --comment-out, everything from the ";LAYER:<n>"
marker on, and run --macro in its place. The default macro is the machine end
G-code given with --end-gcode.`,
	Args: cobra.ExactArgs(1),
	RunE: runStopAfter,
}

var meshSizeCmd = &cobra.Command{
	Use:   "mesh-size <target>",
	Short: "Fill in print-size placeholders",
	Long:  `Replace %MINX% .. %MAXZ% tokens with the print bounds from the slicer header.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMeshSize,
}

func init() {
	insertCmd.Flags().StringVar(&insertLocation, "location", script.DefaultLocation, "Where to insert: layers, heights, start, end, beforeFirstLayer, afterLastLayer")
	insertCmd.Flags().StringVar(&insertLayers, "layers", script.DefaultLayerNums, "Layer ranges (location=layers)")
	insertCmd.Flags().StringVar(&insertHeights, "heights", script.DefaultHeightNums, "Height ranges in mm (location=heights)")
	insertCmd.Flags().StringVar(&insertSide, "side", script.DefaultInsertLocation, "Insert before or after matching layers")
	insertCmd.Flags().StringVar(&insertMacro, "macro", script.DefaultMacro, "G-code to insert")
	addOutputFlags(insertCmd)

	insertAtLayerCmd.Flags().StringVar(&atLayerLayers, "layers", script.DefaultLayerNumber, "Layer numbers as written in the file (comma-separated)")
	insertAtLayerCmd.Flags().StringVar(&atLayerMacro, "macro", script.DefaultMacro, "G-code to insert")
	addOutputFlags(insertAtLayerCmd)

	stopAfterCmd.Flags().StringVar(&stopLayer, "layer", script.DefaultLayerNumber, "Number of layers to keep")
	stopAfterCmd.Flags().BoolVar(&stopCommentOut, "comment-out", false, "Comment out removed lines instead of deleting them")
	stopAfterCmd.Flags().StringVar(&stopMacro, "macro", script.DefaultStopMacro, "G-code to run after the last kept layer")
	addOutputFlags(stopAfterCmd)

	addOutputFlags(meshSizeCmd)

	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(insertAtLayerCmd)
	rootCmd.AddCommand(stopAfterCmd)
	rootCmd.AddCommand(meshSizeCmd)
}

func runInsert(cmd *cobra.Command, args []string) error {
	return runSingle(cmd, args[0], types.KindInsertGCode, types.ScriptSettings{
		Location:       insertLocation,
		LayerNums:      insertLayers,
		HeightNums:     insertHeights,
		InsertLocation: insertSide,
		Macro:          insertMacro,
	})
}

func runInsertAtLayer(cmd *cobra.Command, args []string) error {
	return runSingle(cmd, args[0], types.KindInsertGCodeAtLayer, types.ScriptSettings{
		LayerNumber: atLayerLayers,
		Macro:       atLayerMacro,
	})
}

func runStopAfter(cmd *cobra.Command, args []string) error {
	return runSingle(cmd, args[0], types.KindStopAfterLayer, types.ScriptSettings{
		LayerNumber: stopLayer,
		CommentOut:  stopCommentOut,
		Macro:       stopMacro,
	})
}

func runMeshSize(cmd *cobra.Command, args []string) error {
	return runSingle(cmd, args[0], types.KindMeshPrintSize, types.ScriptSettings{})
}

// runSingle builds a one-script pipeline from flags and runs it.
func runSingle(cmd *cobra.Command, target string, kind types.ScriptKind, settings types.ScriptSettings) error {
	s := &types.Script{
		ID:       "cli." + string(kind),
		Name:     string(kind),
		Kind:     kind,
		Enabled:  true,
		Settings: settings,
	}
	if err := script.ValidateScript(s); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return processTarget(cmd, target, []*types.Script{s})
}
