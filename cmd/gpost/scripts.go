package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/printkit/gpost/pkg/insert"
	"github.com/printkit/gpost/pkg/rangespec"
	"github.com/printkit/gpost/pkg/script"
	"github.com/printkit/gpost/pkg/types"
	"github.com/spf13/cobra"
)

var (
	scriptsPipelinePath string
	scriptsFormat       string
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Manage post-processing scripts",
	Long:  "Commands for listing builtin presets and checking pipeline files",
}

var scriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scripts",
	Long:  "Display the builtin presets, or the scripts of a pipeline file, with their IDs and kinds",
	RunE:  runScriptsList,
}

var scriptsValidateCmd = &cobra.Command{
	Use:   "validate <pipeline.yml>",
	Short: "Check a pipeline file",
	Long:  "Load a pipeline file, check every script setting, and describe what each script will do",
	Args:  cobra.ExactArgs(1),
	RunE:  runScriptsValidate,
}

func init() {
	scriptsCmd.AddCommand(scriptsListCmd)
	scriptsCmd.AddCommand(scriptsValidateCmd)
	scriptsListCmd.Flags().StringVar(&scriptsPipelinePath, "pipeline", "", "Path to a pipeline file instead of the builtin presets")
	scriptsListCmd.Flags().StringVar(&scriptsFormat, "format", "table", "Output format: table, json")
}

func runScriptsList(cmd *cobra.Command, args []string) error {
	loader := script.NewLoader()

	var scripts []*types.Script
	var err error

	if scriptsPipelinePath != "" {
		scripts, err = loader.LoadPipelineFile(scriptsPipelinePath)
		if err != nil {
			return fmt.Errorf("loading scripts from %s: %w", scriptsPipelinePath, err)
		}
	} else {
		scripts, err = loader.LoadBuiltinScripts()
		if err != nil {
			return fmt.Errorf("loading builtin scripts: %w", err)
		}
	}

	switch scriptsFormat {
	case "json":
		return outputScriptsJSON(cmd, scripts)
	case "table":
		return outputScriptsTable(cmd, scripts)
	default:
		return fmt.Errorf("unknown output format: %s", scriptsFormat)
	}
}

func runScriptsValidate(cmd *cobra.Command, args []string) error {
	scripts, err := script.NewLoader().LoadPipelineFile(args[0])
	if err != nil {
		return err
	}
	if err := script.ValidatePipeline(scripts); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	seen := make(map[string]string)
	for i, s := range scripts {
		state := ""
		if !s.Enabled {
			state = " (disabled)"
		}
		fmt.Fprintf(out, "%d. %s%s: %s\n", i+1, s.ID, state, describe(s))

		fp := s.Fingerprint()
		if prev, ok := seen[fp]; ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s makes the same edit as %s\n", s.ID, prev)
			continue
		}
		seen[fp] = s.ID
	}
	fmt.Fprintf(out, "OK: %d script(s)\n", len(scripts))
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func outputScriptsJSON(cmd *cobra.Command, scripts []*types.Script) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(scripts)
}

func outputScriptsTable(cmd *cobra.Command, scripts []*types.Script) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tKind\tName\n")
	fmt.Fprintf(w, "--\t----\t----\n")

	for _, s := range scripts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Kind, s.Name)
	}

	return nil
}

// describe summarises a validated script in one line.
func describe(s *types.Script) string {
	set := s.Settings
	macro := strings.Join(strings.Split(set.Macro, "\n"), " | ")
	switch s.Kind {
	case types.KindInsertGCode:
		loc, _ := insert.ParseLocation(set.Location)
		side, _ := insert.ParseSide(set.InsertLocation)
		opts := insert.Options{Location: loc, Side: side}
		if loc == insert.LocationLayers {
			opts.LayerRanges, _ = rangespec.Parse(set.LayerNums)
		}
		if loc == insert.LocationHeights {
			opts.HeightRanges, _ = rangespec.Parse(set.HeightNums)
		}
		return fmt.Sprintf("%s [%s]", opts.Describe(), macro)
	case types.KindInsertGCodeAtLayer:
		return fmt.Sprintf("Inserting G-code at layers %v [%s]", insert.ParseLayerNumbers(set.LayerNumber), macro)
	case types.KindStopAfterLayer:
		mode := "removing"
		if set.CommentOut {
			mode = "commenting out"
		}
		return fmt.Sprintf("Stopping after layer %s, %s the rest [%s]", strings.TrimSpace(set.LayerNumber), mode, macro)
	case types.KindMeshPrintSize:
		return "Filling in print-size placeholders"
	}
	return string(s.Kind)
}
