package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileProvenance(t *testing.T) {
	prov := FileProvenance{
		FilePath: "/path/to/benchy.gcode",
	}

	assert.Equal(t, "file", prov.Kind())
	assert.Equal(t, "/path/to/benchy.gcode", prov.Path())
}

func TestStreamProvenance(t *testing.T) {
	assert.Equal(t, "stream", StreamProvenance{}.Kind())
	assert.Equal(t, "-", StreamProvenance{}.Path())
	assert.Equal(t, "cura", StreamProvenance{Source: "cura"}.Path())
}

func TestProvenanceInterface(t *testing.T) {
	var _ Provenance = FileProvenance{}
	var _ Provenance = StreamProvenance{}
}
