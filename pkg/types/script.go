package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ScriptKind names one of the post-processing operations.
type ScriptKind string

const (
	KindInsertGCode        ScriptKind = "insert_gcode"
	KindInsertGCodeAtLayer ScriptKind = "insert_gcode_at_layer"
	KindStopAfterLayer     ScriptKind = "stop_after_layer"
	KindMeshPrintSize      ScriptKind = "mesh_print_size"
)

// ScriptKinds lists every known kind in display order.
var ScriptKinds = []ScriptKind{
	KindInsertGCode,
	KindInsertGCodeAtLayer,
	KindStopAfterLayer,
	KindMeshPrintSize,
}

// Known reports whether k is a supported kind.
func (k ScriptKind) Known() bool {
	for _, known := range ScriptKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Script is one configured post-processing step.
type Script struct {
	ID          string         `json:"id"`          // e.g., "gpost.insert.beep"
	Name        string         `json:"name"`        // human-readable name
	Kind        ScriptKind     `json:"kind"`        // operation to run
	Enabled     bool           `json:"enabled"`     // disabled scripts pass the stream through
	Description string         `json:"description,omitempty"`
	Settings    ScriptSettings `json:"settings"`
}

// ScriptSettings holds the user-chosen option values of a script.
// Which fields apply depends on the script kind.
type ScriptSettings struct {
	Location       string `json:"location,omitempty"`        // insert_gcode
	LayerNums      string `json:"layer_nums,omitempty"`      // insert_gcode, location=layers
	HeightNums     string `json:"height_nums,omitempty"`     // insert_gcode, location=heights
	InsertLocation string `json:"insert_location,omitempty"` // insert_gcode: before|after
	LayerNumber    string `json:"layer_number,omitempty"`    // insert_gcode_at_layer, stop_after_layer
	CommentOut     bool   `json:"comment_out,omitempty"`     // stop_after_layer
	Macro          string `json:"macro,omitempty"`           // all kinds except mesh_print_size
}

// Fingerprint hashes the kind and settings so that two scripts doing the same
// edit compare equal regardless of their ID or name.
func (s *Script) Fingerprint() string {
	fields := map[string]string{
		"kind":            string(s.Kind),
		"location":        s.Settings.Location,
		"layer_nums":      s.Settings.LayerNums,
		"height_nums":     s.Settings.HeightNums,
		"insert_location": s.Settings.InsertLocation,
		"layer_number":    s.Settings.LayerNumber,
		"comment_out":     fmt.Sprint(s.Settings.CommentOut),
		"macro":           s.Settings.Macro,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
		b.WriteByte(0)
	}
	h := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(h[:])
}
