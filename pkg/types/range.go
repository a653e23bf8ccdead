package types

import "math"

// Range is an inclusive numeric interval used to select layers or heights.
// An Unbounded range has no upper limit.
type Range struct {
	From      float64
	To        float64
	Unbounded bool
}

// Upper returns the upper bound, +Inf for unbounded ranges.
func (r Range) Upper() float64 {
	if r.Unbounded {
		return math.Inf(1)
	}
	return r.To
}

// RangeSet is an ordered list of ranges. Order is significant for containment.
type RangeSet []Range
