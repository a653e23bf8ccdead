package types

import "strings"

// Sentinel prefixes recognised in slicer output. They must match at the start of a line.
const (
	LayerPrefix      = ";LAYER:"
	LayerCountPrefix = ";LAYER_COUNT:"
)

// ChunkLines splits a chunk into lines without terminators.
// At most one trailing newline is ignored, so "a\nb\n" and "a\nb" both yield [a b].
func ChunkLines(chunk string) []string {
	chunk = strings.TrimSuffix(chunk, "\n")
	return strings.Split(chunk, "\n")
}

// FlattenChunks returns the logical line sequence of an ordered chunk sequence.
func FlattenChunks(chunks []string) []string {
	var lines []string
	for _, c := range chunks {
		lines = append(lines, ChunkLines(c)...)
	}
	return lines
}

// TerminateLines joins lines into a single block where every line ends with "\n".
func TerminateLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// IsLayerMarker reports whether line is a ";LAYER:<n>" sentinel.
// ";LAYER_COUNT:" lines are not layer markers.
func IsLayerMarker(line string) bool {
	return strings.HasPrefix(line, LayerPrefix)
}

// LayerMarkerValue returns the text after ";LAYER:" without surrounding
// whitespace, so CRLF files parse like LF ones.
func LayerMarkerValue(line string) string {
	return strings.TrimSpace(line[len(LayerPrefix):])
}
