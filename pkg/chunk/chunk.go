// Package chunk converts between whole G-code files and the chunk sequence the
// post-processing operations consume: a header chunk followed by one chunk per layer.
package chunk

import (
	"strings"

	"github.com/printkit/gpost/pkg/types"
)

// Split cuts content before every ";LAYER:" line. Line terminators are kept, so
// Join(Split(s)) == s. An empty header is not emitted.
func Split(content string) []string {
	var (
		chunks  []string
		current strings.Builder
	)
	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		if types.IsLayerMarker(line) && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// Join concatenates chunks in order.
func Join(chunks []string) string {
	return strings.Join(chunks, "")
}

// FromLines terminates every line with "\n" and groups the result like Split.
func FromLines(lines []string) []string {
	var (
		chunks []string
		start  int
	)
	for i, line := range lines {
		if types.IsLayerMarker(line) && i > start {
			chunks = append(chunks, types.TerminateLines(lines[start:i]))
			start = i
		}
	}
	if start < len(lines) {
		chunks = append(chunks, types.TerminateLines(lines[start:]))
	}
	return chunks
}

// LayerCount counts ";LAYER:" markers across chunks.
func LayerCount(chunks []string) int {
	n := 0
	for _, c := range chunks {
		for _, line := range strings.Split(c, "\n") {
			if types.IsLayerMarker(line) {
				n++
			}
		}
	}
	return n
}
