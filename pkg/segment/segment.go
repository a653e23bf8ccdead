// Package segment rebuilds a flat G-code line sequence into per-layer segments.
package segment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/printkit/gpost/pkg/types"
)

var zRe = regexp.MustCompile(`Z(\d+(?:\.\d+)?)`)

// Segment partitions lines into layer segments.
//
// A ";LAYER:<n>" line closes the current segment, even an empty one, and opens
// segment n+1 with the marker as its first line. Z is taken from "G0 "/"G1 " moves
// and carried across segment boundaries. Recovered problems are returned as
// diagnostics; no line is ever dropped or reordered.
func Segment(lines []string) ([]types.Segment, []types.Diagnostic) {
	var (
		segments []types.Segment
		diags    []types.Diagnostic
		layer    = -1
		z        types.Height
		current  []string
	)

	for i, line := range lines {
		lineNo := i + 1
		switch {
		case types.IsLayerMarker(line):
			n, err := strconv.Atoi(types.LayerMarkerValue(line))
			if err != nil {
				diags = append(diags, types.Error(types.CodeMalformedLayerMarker, lineNo,
					"could not convert LAYER %q to int", types.LayerMarkerValue(line)))
				break
			}
			segments = append(segments, types.Segment{Layer: layer, Z: z, Lines: current})
			current = nil
			layer = n + 1
		case strings.HasPrefix(line, "G0 ") || strings.HasPrefix(line, "G1 "):
			if m := zRe.FindStringSubmatch(line); m != nil {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					z = types.HeightOf(v)
					break
				}
			}
			if strings.Contains(line, "Z") {
				diags = append(diags, types.Warning(types.CodeMissingZComponent, lineNo,
					"no Z component found in G0/G1 command: %s", line))
			}
		}
		current = append(current, line)
	}

	if len(current) > 0 {
		segments = append(segments, types.Segment{Layer: layer, Z: z, Lines: current})
	}
	return segments, diags
}

// Flatten concatenates the lines of all segments in order.
func Flatten(segments []types.Segment) []string {
	var lines []string
	for _, s := range segments {
		lines = append(lines, s.Lines...)
	}
	return lines
}
