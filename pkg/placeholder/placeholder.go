// Package placeholder fills %MINX% ... %MAXZ% tokens, typically found in start
// G-code for bed mesh probing, with the print bounds the slicer wrote in the header.
package placeholder

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Keys are the bound names, in the order they are reported.
var Keys = []string{"MINX", "MINY", "MINZ", "MAXX", "MAXY", "MAXZ"}

var boundRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(Keys))
	for _, k := range Keys {
		m[k] = regexp.MustCompile(k + `:(-?(?:\d+(?:\.\d*)?|\.\d+))`)
	}
	return m
}()

// Result is the outcome of Substitute.
type Result struct {
	Chunks   []string
	Replaced int               // number of tokens replaced
	Bounds   map[string]string // value used for each key
}

// Substitute replaces every %KEY% token with the first "KEY:<number>" value found
// anywhere in the stream, "0" when the stream declares none. Chunks without tokens
// are returned as-is.
func Substitute(chunks []string) *Result {
	bounds := make(map[string]string, len(Keys))
	for _, k := range Keys {
		bounds[k] = "0"
	}
	found := make(map[string]bool, len(Keys))
	for _, c := range chunks {
		for _, k := range Keys {
			if found[k] {
				continue
			}
			if m := boundRes[k].FindStringSubmatch(c); m != nil {
				bounds[k] = m[1]
				found[k] = true
			}
		}
	}

	tokens := make([]string, len(Keys))
	for i, k := range Keys {
		tokens[i] = "%" + k + "%"
	}
	// the matcher keeps per-call state, so it is not shared between calls
	matcher := ahocorasick.NewStringMatcher(tokens)

	res := &Result{Chunks: make([]string, len(chunks)), Bounds: bounds}
	for i, c := range chunks {
		hits := matcher.Match([]byte(c))
		if len(hits) == 0 {
			res.Chunks[i] = c
			continue
		}
		pairs := make([]string, 0, 2*len(hits))
		seen := make(map[int]bool, len(hits))
		for _, h := range hits {
			if seen[h] {
				continue
			}
			seen[h] = true
			res.Replaced += strings.Count(c, tokens[h])
			pairs = append(pairs, tokens[h], bounds[Keys[h]])
		}
		res.Chunks[i] = strings.NewReplacer(pairs...).Replace(c)
	}
	return res
}
