package types

import "strconv"

// Height is an optional Z height in millimetres.
// The zero value is unset; an unset height never matches a height range.
type Height struct {
	Value float64
	Set   bool
}

// HeightOf returns a set Height.
func HeightOf(z float64) Height {
	return Height{Value: z, Set: true}
}

// String renders the height for marker comments; "unset" when no Z was observed.
func (h Height) String() string {
	if !h.Set {
		return "unset"
	}
	return strconv.FormatFloat(h.Value, 'f', -1, 64)
}

// Segment is one layer's lines plus the last Z height seen while reading it.
type Segment struct {
	Layer int      // -1 before the first ";LAYER:" marker, otherwise encoded value + 1
	Z     Height   // carried over from the previous segment when no motion Z was seen
	Lines []string // lines without terminators, the marker line first
}
