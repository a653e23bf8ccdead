// Package insert splices macro blocks into a G-code stream relative to layer boundaries.
package insert

import (
	"fmt"
	"math"
	"strings"

	"github.com/printkit/gpost/pkg/chunk"
	"github.com/printkit/gpost/pkg/macro"
	"github.com/printkit/gpost/pkg/rangespec"
	"github.com/printkit/gpost/pkg/segment"
	"github.com/printkit/gpost/pkg/types"
)

// Location selects where blocks are inserted.
type Location string

const (
	LocationLayers           Location = "layers"
	LocationHeights          Location = "heights"
	LocationStart            Location = "start"
	LocationEnd              Location = "end"
	LocationBeforeFirstLayer Location = "beforeFirstLayer"
	LocationAfterLastLayer   Location = "afterLastLayer"
)

// Locations lists every supported location.
var Locations = []Location{
	LocationLayers,
	LocationHeights,
	LocationStart,
	LocationEnd,
	LocationBeforeFirstLayer,
	LocationAfterLastLayer,
}

// ParseLocation validates a location name.
func ParseLocation(s string) (Location, error) {
	for _, l := range Locations {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", types.ErrUnknownLocation, s)
}

// Side says whether a block goes before or after a matching segment.
type Side string

const (
	SideBefore Side = "before"
	SideAfter  Side = "after"
)

// ParseSide validates an insertion side. An empty string means after.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBefore:
		return SideBefore, nil
	case SideAfter, "":
		return SideAfter, nil
	}
	return "", fmt.Errorf("%w: insertion side %q", types.ErrUnknownLocation, s)
}

const (
	beginMarker = ";BEGIN InsertGCode"
	endMarker   = ";END InsertGCode"
)

// Options configures a general insertion.
type Options struct {
	Location     Location
	Side         Side
	LayerRanges  types.RangeSet // used by LocationLayers
	HeightRanges types.RangeSet // used by LocationHeights
	Macro        macro.Macro
}

// Resolve applies the fixed ranges and sides of the first/last layer locations.
func (o Options) Resolve() Options {
	switch o.Location {
	case LocationBeforeFirstLayer:
		o.LayerRanges = types.RangeSet{{From: 0, To: 0}}
		o.Side = SideBefore
	case LocationAfterLastLayer:
		o.LayerRanges = types.RangeSet{{From: math.Inf(1), Unbounded: true}}
		o.Side = SideAfter
	}
	if o.Side == "" {
		o.Side = SideAfter
	}
	return o
}

// Describe summarises the insertion for logs.
func (o Options) Describe() string {
	o = o.Resolve()
	switch o.Location {
	case LocationLayers:
		return fmt.Sprintf("Inserting G-code %s layers: %s", o.Side, rangespec.Format(o.LayerRanges))
	case LocationHeights:
		return fmt.Sprintf("Inserting G-code %s heights: %s mm", o.Side, rangespec.Format(o.HeightRanges))
	case LocationStart:
		return "Inserting G-code at start of gcode"
	case LocationEnd:
		return "Inserting G-code at end of gcode"
	case LocationBeforeFirstLayer:
		return "Inserting G-code before first layer"
	case LocationAfterLastLayer:
		return "Inserting G-code after last layer"
	}
	return fmt.Sprintf("Unknown location: %s", o.Location)
}

func (o Options) validate() error {
	if _, err := ParseLocation(string(o.Location)); err != nil {
		return err
	}
	if _, err := ParseSide(string(o.Side)); err != nil {
		return err
	}
	return nil
}

// Result is the outcome of Apply.
type Result struct {
	Chunks      []string
	Inserted    int
	Diagnostics []types.Diagnostic
}

// Segments returns the line sequence of segs with framed macro blocks spliced in,
// and the number of blocks inserted. Segments are never reordered.
func Segments(segs []types.Segment, opts Options) ([]string, int) {
	opts = opts.Resolve()

	var lines []string
	for _, s := range segs {
		lines = append(lines, s.Lines...)
	}

	switch opts.Location {
	case LocationStart:
		return append(opts.Macro.Block(beginMarker, endMarker), lines...), 1
	case LocationEnd:
		return append(lines, opts.Macro.Block(beginMarker, endMarker)...), 1
	}

	target := -1
	switch opts.Location {
	case LocationBeforeFirstLayer:
		for i, s := range segs {
			if s.Layer >= 1 {
				target = i
				break
			}
		}
	case LocationAfterLastLayer:
		target = len(segs) - 1
	}

	out := make([]string, 0, len(lines)+len(opts.Macro.Lines)+2)
	inserted := 0
	for i, s := range segs {
		var match bool
		switch opts.Location {
		case LocationLayers:
			match = rangespec.Contains(opts.LayerRanges, float64(s.Layer), true)
		case LocationHeights:
			match = s.Z.Set && rangespec.Contains(opts.HeightRanges, s.Z.Value, false)
		case LocationBeforeFirstLayer, LocationAfterLastLayer:
			match = i == target
		}
		if !match {
			out = append(out, s.Lines...)
			continue
		}

		begin := fmt.Sprintf("%s, Layer %d, Height %s mm", beginMarker, s.Layer, s.Z)
		block := opts.Macro.Block(begin, endMarker)
		if opts.Side == SideBefore {
			out = append(out, block...)
			out = append(out, s.Lines...)
		} else {
			out = append(out, s.Lines...)
			out = append(out, block...)
		}
		inserted++
	}
	return out, inserted
}

// Apply inserts into a chunk sequence. Start and end insertion edit the first and
// last chunk directly; every other location segments the stream and re-chunks the
// result at layer markers. On error the input must be treated as unchanged.
func Apply(chunks []string, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	switch opts.Location {
	case LocationStart, LocationEnd:
		block := types.TerminateLines(opts.Macro.Block(beginMarker, endMarker))
		if len(chunks) == 0 {
			return &Result{Chunks: []string{block}, Inserted: 1}, nil
		}
		out := make([]string, len(chunks))
		copy(out, chunks)
		if opts.Location == LocationStart {
			out[0] = block + out[0]
		} else {
			last := len(out) - 1
			if out[last] != "" && !strings.HasSuffix(out[last], "\n") {
				out[last] += "\n"
			}
			out[last] += block
		}
		return &Result{Chunks: out, Inserted: 1}, nil
	}

	segs, diags := segment.Segment(types.FlattenChunks(chunks))
	lines, n := Segments(segs, opts)
	if n == 0 {
		return &Result{Chunks: chunks, Diagnostics: diags}, nil
	}
	return &Result{Chunks: chunk.FromLines(lines), Inserted: n, Diagnostics: diags}, nil
}
