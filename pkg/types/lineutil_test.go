package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkLines(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  []string
	}{
		{name: "terminated lines", chunk: "G28\nG1 Z0.2\n", want: []string{"G28", "G1 Z0.2"}},
		{name: "unterminated last line", chunk: "G28\nG1 Z0.2", want: []string{"G28", "G1 Z0.2"}},
		{name: "only one trailing newline is ignored", chunk: "G28\n\n", want: []string{"G28", ""}},
		{name: "empty chunk", chunk: "", want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkLines(tt.chunk))
		})
	}
}

func TestFlattenChunks(t *testing.T) {
	chunks := []string{";FLAVOR:Marlin\n", ";LAYER:0\nG1 Z0.2\n", ";LAYER:1\nG1 Z0.4"}
	assert.Equal(t, []string{";FLAVOR:Marlin", ";LAYER:0", "G1 Z0.2", ";LAYER:1", "G1 Z0.4"}, FlattenChunks(chunks))
	assert.Nil(t, FlattenChunks(nil))
}

func TestTerminateLines(t *testing.T) {
	assert.Equal(t, "", TerminateLines(nil))
	assert.Equal(t, "a\nb\n", TerminateLines([]string{"a", "b"}))
	assert.Equal(t, "\n", TerminateLines([]string{""}))
}

func TestIsLayerMarker(t *testing.T) {
	assert.True(t, IsLayerMarker(";LAYER:0"))
	assert.True(t, IsLayerMarker(";LAYER:abc"))
	assert.False(t, IsLayerMarker(";LAYER_COUNT:10"))
	assert.False(t, IsLayerMarker(" ;LAYER:1"))
	assert.Equal(t, "12", LayerMarkerValue(";LAYER:12"))
	assert.Equal(t, "12", LayerMarkerValue(";LAYER:12\r"))
	assert.Equal(t, "7", LayerMarkerValue(";LAYER: 7 "))
}
