// Package truncate stops a print after a given layer by removing or commenting out
// everything that follows it.
package truncate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/printkit/gpost/pkg/macro"
	"github.com/printkit/gpost/pkg/types"
)

// Result is the outcome of After.
type Result struct {
	Chunks        []string
	Truncated     bool // false when the input was returned unchanged
	RemovedLayers int
	LastLayer     int // last ";LAYER:" value seen, as written in the file
	Diagnostics   []types.Diagnostic
}

// ParseLayer reads the target layer setting.
func ParseLayer(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: not an integer: %q", types.ErrInvalidLayerNumber, s)
	}
	return n, nil
}

// After cuts the stream at the ";LAYER:<target>" marker. From there on every line is
// dropped, or prefixed with "; " when commentOut is set, and the begin marker plus
// the macro take its place. ";LAYER_COUNT:" is clamped to target. Chunks left empty
// are dropped and a trailer reports how many layers were removed.
//
// When the marker is never reached the original chunks are returned: with an
// informational diagnostic if later layers exist, with a warning if the stream is
// shorter than target.
func After(chunks []string, target int, m macro.Macro, commentOut bool) *Result {
	var (
		res      = &Result{}
		out      []string
		cutover  bool
		lastSeen int
		lineNo   int
	)

	for _, c := range chunks {
		terminated := strings.HasSuffix(c, "\n")
		lines := strings.Split(strings.TrimSuffix(c, "\n"), "\n")
		converted := make([]string, 0, len(lines))

		for _, line := range lines {
			lineNo++
			switch {
			case types.IsLayerMarker(line):
				n, err := strconv.Atoi(types.LayerMarkerValue(line))
				if err != nil {
					res.Diagnostics = append(res.Diagnostics, types.Error(types.CodeMalformedLayerMarker, lineNo,
						"could not convert LAYER %q to int", types.LayerMarkerValue(line)))
					continue
				}
				// the first layer is written as 0
				if n == target {
					cutover = true
					converted = append(converted, fmt.Sprintf(";BEGIN StopAfterLayer, Stopping after %d layers", target))
					if !m.IsBlank() {
						converted = append(converted, m.Lines...)
					}
				}
				lastSeen = n
			case strings.HasPrefix(line, types.LayerCountPrefix):
				raw := line[len(types.LayerCountPrefix):]
				count, err := strconv.Atoi(strings.TrimSpace(raw))
				if err != nil {
					res.Diagnostics = append(res.Diagnostics, types.Error(types.CodeMalformedLayerMarker, lineNo,
						"could not convert LAYER_COUNT %q to int", strings.TrimSpace(raw)))
					continue
				}
				if count > target {
					// keep a trailing "\r" so CRLF files stay CRLF
					eol := raw[len(strings.TrimRight(raw, " \t\r")):]
					line = types.LayerCountPrefix + strconv.Itoa(target) + eol
				}
			}

			if cutover {
				if commentOut {
					converted = append(converted, "; "+line)
				}
				continue
			}
			converted = append(converted, line)
		}

		if len(converted) > 0 {
			joined := strings.Join(converted, "\n")
			if terminated {
				joined += "\n"
			}
			out = append(out, joined)
		}
	}

	res.LastLayer = lastSeen
	if lastSeen >= target {
		if !cutover {
			res.Chunks = chunks
			res.Diagnostics = append(res.Diagnostics, types.Info(types.CodeNothingRemoved,
				"last layer was already %d, not changing anything", lastSeen+1))
			return res
		}
	} else {
		res.Chunks = chunks
		res.Diagnostics = append(res.Diagnostics, types.Warning(types.CodeLayerNotFound, 0,
			"could not find layer %d in g-code data, last layer was %d", target, lastSeen+1))
		return res
	}

	res.Truncated = true
	res.RemovedLayers = lastSeen - target + 1
	noun := "layers"
	if res.RemovedLayers == 1 {
		noun = "layer"
	}
	res.Chunks = append(out, fmt.Sprintf(";END StopAfterLayer. %d %s removed\n", res.RemovedLayers, noun))
	return res
}
