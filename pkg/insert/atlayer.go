package insert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/printkit/gpost/pkg/macro"
	"github.com/printkit/gpost/pkg/types"
)

// ParseLayerNumbers reads a comma-separated list of raw layer numbers.
// Tokens that are not plain non-negative integers are ignored.
func ParseLayerNumbers(spec string) []int {
	var layers []int
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || strings.TrimLeft(tok, "0123456789") != "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		layers = append(layers, n)
	}
	return layers
}

// AtLayers puts a framed block immediately before every ";LAYER:<n>" line whose n,
// as written in the file, is listed in layers. Each chunk is edited on its own: the
// chunk count and order never change. Markers that are not integers are left alone.
func AtLayers(chunks []string, layers []int, m macro.Macro) ([]string, int) {
	if len(layers) == 0 {
		return chunks, 0
	}
	wanted := make(map[int]bool, len(layers))
	for _, n := range layers {
		wanted[n] = true
	}

	out := make([]string, len(chunks))
	inserted := 0
	for i, c := range chunks {
		lines := strings.Split(c, "\n")
		converted := make([]string, 0, len(lines))
		for _, line := range lines {
			if types.IsLayerMarker(line) {
				n, err := strconv.Atoi(types.LayerMarkerValue(line))
				if err == nil && wanted[n] {
					begin := fmt.Sprintf(";BEGIN InsertGCodeAtLayer, Layer %d", n)
					converted = append(converted, m.Block(begin, ";END InsertGCodeAtLayer")...)
					inserted++
				}
			}
			converted = append(converted, line)
		}
		out[i] = strings.Join(converted, "\n")
	}
	return out, inserted
}
