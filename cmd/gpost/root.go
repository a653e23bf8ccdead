package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	quiet     bool
	colorMode string
)

var rootCmd = &cobra.Command{
	Use:   "gpost",
	Short: "gpost - layer-aware G-code post-processor",
	Long: `gpost edits sliced G-code files layer by layer.
It inserts command blocks at chosen layers or heights, stops a print after a
given layer, and fills in print-size placeholders. Edits are described as
scripts, either builtin presets or a YAML pipeline file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Color output: auto, always, never")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scriptsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
