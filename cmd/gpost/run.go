package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/printkit/gpost/pkg/chunk"
	"github.com/printkit/gpost/pkg/enum"
	"github.com/printkit/gpost/pkg/macro"
	"github.com/printkit/gpost/pkg/processor"
	"github.com/printkit/gpost/pkg/sarif"
	"github.com/printkit/gpost/pkg/script"
	"github.com/printkit/gpost/pkg/types"
	"github.com/spf13/cobra"
)

var (
	runPipelinePath  string
	runPresets       string
	runInclude       string
	runExclude       string
	runOutputPath    string
	runSuffix        string
	runStdout        bool
	runDryRun        bool
	runOutputFormat  string
	runEndGCodePath  string
	runPlaceholders  []string
	runContinue      bool
	runMaxFileSize   int64
	runIncludeHidden bool
)

var runCmd = &cobra.Command{
	Use:   "run <target>",
	Short: "Run a script pipeline over G-code files",
	Long: `Run a pipeline of scripts over a G-code file, every G-code file under a
directory, or standard input when the target is "-".

Scripts come from a YAML pipeline file (--pipeline) or from builtin presets
(--presets). Results are written next to each input with a suffix unless
--output or --stdout is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runPipelinePath, "pipeline", "", "Path to a YAML pipeline file")
	runCmd.Flags().StringVar(&runPresets, "presets", "", "Builtin preset IDs to run, in order (comma-separated)")
	runCmd.Flags().StringVar(&runInclude, "scripts-include", "", "Include scripts matching regex pattern (comma-separated)")
	runCmd.Flags().StringVar(&runExclude, "scripts-exclude", "", "Exclude scripts matching regex pattern (comma-separated)")
	addOutputFlags(runCmd)
}

// addOutputFlags registers the flags shared by run and the single-edit commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runOutputPath, "output", "o", "", "Output file, or directory when the target is a directory")
	cmd.Flags().StringVar(&runSuffix, "suffix", "_GE", "Suffix added to output file names when --output is not set")
	cmd.Flags().BoolVar(&runStdout, "stdout", false, "Write the processed G-code to stdout (single file or stdin only)")
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Process and report without writing files")
	cmd.Flags().StringVar(&runOutputFormat, "format", "human", "Report format: human, json, sarif")
	cmd.Flags().StringVar(&runEndGCodePath, "end-gcode", "", "File holding the machine end G-code ({machine_end_gcode})")
	cmd.Flags().StringArrayVar(&runPlaceholders, "placeholder", nil, "Macro placeholder value as name=value (repeatable)")
	cmd.Flags().BoolVar(&runContinue, "continue-on-error", false, "Keep running the pipeline after a script fails")
	cmd.Flags().Int64Var(&runMaxFileSize, "max-file-size", 512*1024*1024, "Maximum file size to process (bytes)")
	cmd.Flags().BoolVar(&runIncludeHidden, "include-hidden", false, "Include hidden files and directories")
}

// fileResult is the report entry for one processed stream.
type fileResult struct {
	Path        string                 `json:"path"`
	Output      string                 `json:"output,omitempty"`
	InputID     string                 `json:"input_id"`
	OutputID    string                 `json:"output_id,omitempty"`
	Layers      int                    `json:"layers"`
	Changed     bool                   `json:"changed"`
	Steps       []processor.StepResult `json:"steps"`
	Error       string                 `json:"error,omitempty"`
	processed   string
	skipWriting bool
}

func runRun(cmd *cobra.Command, args []string) error {
	scripts, err := loadScripts(runPipelinePath, runPresets, runInclude, runExclude)
	if err != nil {
		return fmt.Errorf("loading scripts: %w", err)
	}
	return processTarget(cmd, args[0], scripts)
}

// processTarget runs scripts over target and writes outputs and the report.
func processTarget(cmd *cobra.Command, target string, scripts []*types.Script) error {
	switch runOutputFormat {
	case "human", "json", "sarif":
	default:
		return fmt.Errorf("unknown output format: %s", runOutputFormat)
	}

	s := setupColor(colorMode, os.Stdout)
	logger := newLogger(cmd.ErrOrStderr())

	placeholders, err := buildPlaceholders(runEndGCodePath, runPlaceholders)
	if err != nil {
		return err
	}

	config := processor.Config{
		Placeholders:    placeholders,
		ContinueOnError: runContinue,
	}

	var results []*fileResult
	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		prov := types.StreamProvenance{Source: "stdin"}
		results = append(results, processStream(config, logger, content, types.ComputeContentID(content), prov, scripts))
	} else {
		results, err = processFiles(cmd.Context(), config, logger, target, scripts)
		if err != nil {
			return err
		}
	}

	if err := writeOutputs(cmd, target, results); err != nil {
		return err
	}

	// With --stdout the G-code owns stdout, so the report goes to stderr
	reportOut := cmd.OutOrStdout()
	if runStdout {
		reportOut = cmd.ErrOrStderr()
	}

	switch runOutputFormat {
	case "json":
		encoder := json.NewEncoder(reportOut)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	case "sarif":
		if err := outputSARIF(reportOut, results); err != nil {
			return err
		}
	default:
		outputHuman(reportOut, s, results)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func loadScripts(pipelinePath, presets, include, exclude string) ([]*types.Script, error) {
	loader := script.NewLoader()

	var scripts []*types.Script
	var err error

	switch {
	case pipelinePath != "" && presets != "":
		return nil, fmt.Errorf("--pipeline and --presets are mutually exclusive")
	case pipelinePath != "":
		scripts, err = loader.LoadPipelineFile(pipelinePath)
		if err != nil {
			return nil, err
		}
	case presets != "":
		builtin, err := loader.LoadBuiltinScripts()
		if err != nil {
			return nil, err
		}
		scripts, err = script.Select(builtin, script.ParsePatterns(presets))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("one of --pipeline or --presets is required")
	}

	// Apply filtering if patterns specified
	if include != "" || exclude != "" {
		config := script.FilterConfig{
			Include: script.ParsePatterns(include),
			Exclude: script.ParsePatterns(exclude),
		}
		scripts, err = script.Filter(scripts, config)
		if err != nil {
			return nil, fmt.Errorf("filtering scripts: %w", err)
		}
	}

	if err := script.ValidatePipeline(scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

// buildPlaceholders reads the end G-code file and name=value pairs into a mapping.
func buildPlaceholders(endGCodePath string, pairs []string) (map[string]string, error) {
	values := make(map[string]string)
	if endGCodePath != "" {
		data, err := os.ReadFile(endGCodePath)
		if err != nil {
			return nil, fmt.Errorf("reading end G-code: %w", err)
		}
		values[macro.PlaceholderMachineEndGCode] = string(data)
	}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid placeholder %q, expected name=value", p)
		}
		values[name] = value
	}
	return values, nil
}

func processFiles(ctx context.Context, config processor.Config, logger *cliLogger, target string, scripts []*types.Script) ([]*fileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("target does not exist: %s", target)
	}
	if runStdout && info.IsDir() {
		return nil, fmt.Errorf("--stdout needs a single file target")
	}

	enumerator := enum.NewFilesystemEnumerator(enum.Config{
		Root:          target,
		IncludeHidden: runIncludeHidden,
		MaxFileSize:   runMaxFileSize,
		SkipSuffix:    runSuffix,
	})

	var (
		mu      sync.Mutex
		results []*fileResult
	)
	err = enumerator.Enumerate(ctx, func(content []byte, id types.ContentID, prov types.Provenance) error {
		r := processStream(config, logger, content, id, prov, scripts)
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("processing: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

func processStream(config processor.Config, logger *cliLogger, content []byte, id types.ContentID, prov types.Provenance, scripts []*types.Script) *fileResult {
	config.Logger = prefixLogger{Logger: logger, prefix: prov.Path()}
	chunks := chunk.Split(string(content))

	r := &fileResult{
		Path:    prov.Path(),
		InputID: id.Short(),
		Layers:  chunk.LayerCount(chunks),
	}

	run, err := processor.New(config).Run(chunks, scripts)
	if run != nil {
		r.Steps = run.Steps
	}
	if err != nil {
		r.Error = err.Error()
		r.skipWriting = true
		return r
	}

	r.Changed = run.Changed()
	r.OutputID = run.OutputID.Short()
	r.processed = chunk.Join(run.Chunks)
	return r
}

func writeOutputs(cmd *cobra.Command, target string, results []*fileResult) error {
	if runStdout {
		if len(results) != 1 {
			return fmt.Errorf("--stdout needs exactly one input, got %d", len(results))
		}
		if results[0].Error != "" {
			return nil
		}
		_, err := io.WriteString(cmd.OutOrStdout(), results[0].processed)
		return err
	}

	if target == "-" && runOutputPath == "" {
		return fmt.Errorf("reading stdin needs --output or --stdout")
	}

	for _, r := range results {
		if r.skipWriting {
			continue
		}
		out, err := outputPathFor(target, r.Path)
		if err != nil {
			return err
		}
		r.Output = out
		if runDryRun {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(out, []byte(r.processed), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
	}
	return nil
}

// outputPathFor maps an input path to where its result is written.
func outputPathFor(target, path string) (string, error) {
	if runOutputPath == "" {
		ext := filepath.Ext(path)
		return strings.TrimSuffix(path, ext) + runSuffix + ext, nil
	}

	info, err := os.Stat(target)
	if target == "-" || (err == nil && !info.IsDir()) {
		return runOutputPath, nil
	}

	rel, err := filepath.Rel(target, path)
	if err != nil {
		return "", err
	}
	return filepath.Join(runOutputPath, rel), nil
}

func outputHuman(out io.Writer, s *styles, results []*fileResult) {
	if len(results) == 0 {
		fmt.Fprintf(out, "No G-code files found.\n")
		return
	}

	changed, failed := 0, 0
	for _, r := range results {
		switch {
		case r.Error != "":
			failed++
		case r.Changed:
			changed++
		}

		fmt.Fprintf(out, "%s", s.path.Sprint(r.Path))
		if r.Output != "" {
			fmt.Fprintf(out, " -> %s", r.Output)
		}
		fmt.Fprintf(out, " (%d layers)\n", r.Layers)

		for _, step := range r.Steps {
			fmt.Fprintf(out, "  %-32s %s", s.scriptID.Sprint(step.ScriptID), statusText(s, step.Status))
			if step.Status == processor.StatusApplied {
				fmt.Fprintf(out, " (%d)", step.Changes)
			}
			fmt.Fprintln(out)
			for _, d := range step.Diagnostics {
				fmt.Fprintf(out, "    %s %s\n", s.warning.Sprint(string(d.Severity)+":"), d)
			}
			if step.Error != "" {
				fmt.Fprintf(out, "    %s\n", s.failed.Sprint(step.Error))
			}
		}
		if r.Error != "" && len(r.Steps) == 0 {
			fmt.Fprintf(out, "  %s\n", s.failed.Sprint(r.Error))
		}
	}

	fmt.Fprintf(out, "\n%s %d file(s), %d changed, %d failed\n", s.heading.Sprint("Processed"), len(results), changed, failed)
}

func outputSARIF(out io.Writer, results []*fileResult) error {
	report := sarif.NewReport(version)
	for _, r := range results {
		for _, step := range r.Steps {
			for _, d := range step.Diagnostics {
				report.AddDiagnostic(r.Path, step.ScriptID, d)
			}
			if step.Error != "" {
				report.AddFailure(r.Path, step.ScriptID, step.Error)
			}
		}
		if r.Error != "" && len(r.Steps) == 0 {
			report.AddFailure(r.Path, "gpost", r.Error)
		}
	}

	data, err := report.ToJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
