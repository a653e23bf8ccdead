package script

import (
	"testing"

	"github.com/printkit/gpost/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string returns empty slice",
			input:    "",
			expected: []string{},
		},
		{
			name:     "single pattern",
			input:    "gpost.insert.*",
			expected: []string{"gpost.insert.*"},
		},
		{
			name:     "patterns with spaces are trimmed",
			input:    " insert , stop ,, mesh ",
			expected: []string{"insert", "stop", "mesh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePatterns(tt.input))
		})
	}
}

func sampleScripts() []*types.Script {
	return []*types.Script{
		{ID: "gpost.insert.beep"},
		{ID: "gpost.stop.after-layer"},
		{ID: "gpost.insert.cooldown"},
		{ID: "gpost.mesh.print-size"},
	}
}

func ids(scripts []*types.Script) []string {
	out := make([]string, 0, len(scripts))
	for _, s := range scripts {
		out = append(out, s.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		config   FilterConfig
		expected []string
	}{
		{
			name:     "no patterns keeps everything",
			config:   FilterConfig{},
			expected: []string{"gpost.insert.beep", "gpost.stop.after-layer", "gpost.insert.cooldown", "gpost.mesh.print-size"},
		},
		{
			name:     "include keeps order",
			config:   FilterConfig{Include: []string{`\.insert\.`}},
			expected: []string{"gpost.insert.beep", "gpost.insert.cooldown"},
		},
		{
			name:     "exclude only",
			config:   FilterConfig{Exclude: []string{"stop", "mesh"}},
			expected: []string{"gpost.insert.beep", "gpost.insert.cooldown"},
		},
		{
			name:     "include then exclude",
			config:   FilterConfig{Include: []string{"insert", "stop"}, Exclude: []string{"cooldown"}},
			expected: []string{"gpost.insert.beep", "gpost.stop.after-layer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Filter(sampleScripts(), tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestFilter_InvalidRegex(t *testing.T) {
	_, err := Filter(sampleScripts(), FilterConfig{Include: []string{"[invalid"}})
	assert.Error(t, err)

	_, err = Filter(sampleScripts(), FilterConfig{Exclude: []string{"(unclosed"}})
	assert.Error(t, err)
}

func TestFilter_Empty(t *testing.T) {
	result, err := Filter(nil, FilterConfig{Include: []string{"x"}})
	require.NoError(t, err)
	assert.Empty(t, result)
}
