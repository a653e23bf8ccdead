// Package rangespec parses layer and height selections such as "4,6-8", "10-" or "-5".
package rangespec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/printkit/gpost/pkg/types"
)

// numberRe accepts plain decimals: digits with an optional fraction, or a bare fraction.
var numberRe = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// Parse converts a comma-separated range specification into an ordered RangeSet.
// Whitespace anywhere in spec is ignored. Each token is a bare number n, giving (n, n),
// or "low-high" where an omitted low is 0 and an omitted high is unbounded.
func Parse(spec string) (types.RangeSet, error) {
	spec = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, spec)

	tokens := strings.Split(spec, ",")
	set := make(types.RangeSet, 0, len(tokens))
	for _, tok := range tokens {
		r, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		set = append(set, r)
	}
	return set, nil
}

func parseToken(tok string) (types.Range, error) {
	if !strings.Contains(tok, "-") {
		n, err := parseNumber(tok)
		if err != nil {
			return types.Range{}, fmt.Errorf("%w: %q", types.ErrInvalidRangeFormat, tok)
		}
		return types.Range{From: n, To: n}, nil
	}

	parts := strings.Split(tok, "-")
	if len(parts) != 2 {
		return types.Range{}, fmt.Errorf("%w: %q", types.ErrInvalidRangeFormat, tok)
	}

	var r types.Range
	if parts[0] != "" {
		from, err := parseNumber(parts[0])
		if err != nil {
			return types.Range{}, fmt.Errorf("%w: %q", types.ErrInvalidRangeFormat, tok)
		}
		r.From = from
	}
	if parts[1] == "" {
		r.Unbounded = true
	} else {
		to, err := parseNumber(parts[1])
		if err != nil {
			return types.Range{}, fmt.Errorf("%w: %q", types.ErrInvalidRangeFormat, tok)
		}
		r.To = to
	}
	return r, nil
}

func parseNumber(s string) (float64, error) {
	if !numberRe.MatchString(s) {
		return 0, fmt.Errorf("not a decimal number: %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

// Contains reports whether value is selected by set.
//
// Only the first range whose lower bound admits value is consulted: its upper bound
// decides the answer and later ranges are never examined. Layer selection uses an
// inclusive upper bound; height selection uses an exclusive one so that two segments
// sharing a boundary Z do not both match.
func Contains(set types.RangeSet, value float64, inclusiveUpper bool) bool {
	for _, r := range set {
		if r.From <= value {
			if inclusiveUpper {
				return value <= r.Upper()
			}
			return value < r.Upper()
		}
	}
	return false
}

// Format renders set for logs, e.g. "4, 6-8, 10-inf".
func Format(set types.RangeSet) string {
	parts := make([]string, 0, len(set))
	for _, r := range set {
		from := formatNumber(r.From)
		switch {
		case r.Unbounded:
			parts = append(parts, from+"-inf")
		case r.From == r.To:
			parts = append(parts, from)
		default:
			parts = append(parts, from+"-"+formatNumber(r.To))
		}
	}
	return strings.Join(parts, ", ")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
