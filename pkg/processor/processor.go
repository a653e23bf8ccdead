// Package processor runs ordered pipelines of scripts over a G-code chunk stream.
package processor

import (
	"fmt"
	"strings"

	"github.com/printkit/gpost/pkg/insert"
	"github.com/printkit/gpost/pkg/macro"
	"github.com/printkit/gpost/pkg/placeholder"
	"github.com/printkit/gpost/pkg/rangespec"
	"github.com/printkit/gpost/pkg/truncate"
	"github.com/printkit/gpost/pkg/types"
)

// Config configures a Processor.
type Config struct {
	Logger          types.Logger
	Placeholders    map[string]string // read-only values for {name} tokens in macros
	ContinueOnError bool              // record failed steps and keep going
}

// Processor dispatches scripts to the stream operations.
type Processor struct {
	logger          types.Logger
	placeholders    map[string]string
	continueOnError bool
}

// New creates a processor from cfg.
func New(cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = types.NoopLogger{}
	}
	return &Processor{
		logger:          logger,
		placeholders:    cfg.Placeholders,
		continueOnError: cfg.ContinueOnError,
	}
}

// Apply runs a single script. On a hard error the input chunks are returned along
// with the error. Disabled scripts are skipped.
func (p *Processor) Apply(chunks []string, s *types.Script) (*StepResult, []string, error) {
	if s == nil {
		return nil, chunks, fmt.Errorf("script is nil")
	}

	step := &StepResult{ScriptID: s.ID, Kind: s.Kind}
	if !s.Enabled {
		p.logger.Debugf("%s: disabled, skipping", s.ID)
		step.Status = StatusSkipped
		return step, chunks, nil
	}

	var (
		out []string
		err error
	)
	switch s.Kind {
	case types.KindInsertGCode:
		out, err = p.insertGCode(chunks, s, step)
	case types.KindInsertGCodeAtLayer:
		out = p.insertAtLayer(chunks, s, step)
	case types.KindStopAfterLayer:
		out, err = p.stopAfterLayer(chunks, s, step)
	case types.KindMeshPrintSize:
		out = p.meshPrintSize(chunks, step)
	default:
		err = fmt.Errorf("%w: %q", types.ErrUnknownScriptKind, s.Kind)
	}

	for _, d := range step.Diagnostics {
		types.LogDiagnostic(p.logger, d)
	}

	if err != nil {
		err = fmt.Errorf("script %s: %w", s.ID, err)
		p.logger.Errorf("%v", err)
		step.Status = StatusFailed
		step.Error = err.Error()
		return step, chunks, err
	}

	if step.Changes > 0 {
		step.Status = StatusApplied
	} else {
		step.Status = StatusUnchanged
	}
	return step, out, nil
}

// Run applies scripts in order, feeding each step the previous step's output.
// Without ContinueOnError the first hard failure aborts the run and the original
// chunks are returned with the error.
func (p *Processor) Run(chunks []string, scripts []*types.Script) (*RunResult, error) {
	result := &RunResult{
		InputID: types.ComputeContentID([]byte(strings.Join(chunks, ""))),
	}

	current := chunks
	for _, s := range scripts {
		step, out, err := p.Apply(current, s)
		if step != nil {
			result.Steps = append(result.Steps, *step)
		}
		if err != nil {
			if p.continueOnError {
				continue
			}
			result.Chunks = chunks
			result.OutputID = result.InputID
			return result, err
		}
		current = out
	}

	result.Chunks = current
	result.OutputID = types.ComputeContentID([]byte(strings.Join(current, "")))
	return result, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// expandMacro normalizes raw and fills in placeholders, reporting names without a value.
func (p *Processor) expandMacro(raw string, step *StepResult) macro.Macro {
	m, missing := macro.Normalize(raw).Expand(p.placeholders)
	for _, name := range missing {
		step.Diagnostics = append(step.Diagnostics,
			types.Warning(types.CodeUnresolvedPlaceholder, 0, "no value for {%s}, left as-is", name))
	}
	return m
}

func (p *Processor) insertGCode(chunks []string, s *types.Script, step *StepResult) ([]string, error) {
	loc, err := insert.ParseLocation(s.Settings.Location)
	if err != nil {
		return nil, err
	}
	side, err := insert.ParseSide(s.Settings.InsertLocation)
	if err != nil {
		return nil, err
	}

	opts := insert.Options{Location: loc, Side: side}
	switch loc {
	case insert.LocationLayers:
		if opts.LayerRanges, err = rangespec.Parse(s.Settings.LayerNums); err != nil {
			return nil, fmt.Errorf("layer_nums: %w", err)
		}
	case insert.LocationHeights:
		if opts.HeightRanges, err = rangespec.Parse(s.Settings.HeightNums); err != nil {
			return nil, fmt.Errorf("height_nums: %w", err)
		}
	}
	opts.Macro = p.expandMacro(s.Settings.Macro, step)

	p.logger.Infof("%s: %s", s.ID, opts.Describe())
	res, err := insert.Apply(chunks, opts)
	if err != nil {
		return nil, err
	}
	step.Changes = res.Inserted
	step.Diagnostics = append(step.Diagnostics, res.Diagnostics...)
	return res.Chunks, nil
}

func (p *Processor) insertAtLayer(chunks []string, s *types.Script, step *StepResult) []string {
	layers := insert.ParseLayerNumbers(s.Settings.LayerNumber)
	m := p.expandMacro(s.Settings.Macro, step)

	p.logger.Infof("%s: inserting G-code at layers %v", s.ID, layers)
	out, n := insert.AtLayers(chunks, layers, m)
	step.Changes = n
	return out
}

func (p *Processor) stopAfterLayer(chunks []string, s *types.Script, step *StepResult) ([]string, error) {
	target, err := truncate.ParseLayer(s.Settings.LayerNumber)
	if err != nil {
		return nil, err
	}
	m := p.expandMacro(s.Settings.Macro, step)

	p.logger.Infof("%s: stopping after layer %d", s.ID, target)
	res := truncate.After(chunks, target, m, s.Settings.CommentOut)
	step.Changes = res.RemovedLayers
	step.Diagnostics = append(step.Diagnostics, res.Diagnostics...)
	return res.Chunks, nil
}

func (p *Processor) meshPrintSize(chunks []string, step *StepResult) []string {
	res := placeholder.Substitute(chunks)
	for _, k := range placeholder.Keys {
		p.logger.Debugf("%s = %s", k, res.Bounds[k])
	}
	step.Changes = res.Replaced
	return res.Chunks
}
