// Package macro turns user-entered command strings into framed G-code blocks.
package macro

import (
	"regexp"
	"sort"
	"strings"
)

// PlaceholderMachineEndGCode expands to the printer's configured end-of-print commands.
const PlaceholderMachineEndGCode = "machine_end_gcode"

var (
	separatorRe   = regexp.MustCompile(`\s*,\s*`)
	placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
)

// Macro is an ordered list of command lines emitted verbatim.
type Macro struct {
	Lines []string
}

// Normalize splits raw at commas, one command per line. Whitespace around each comma
// is dropped; no command syntax is checked.
func Normalize(raw string) Macro {
	return Macro{Lines: strings.Split(separatorRe.ReplaceAllString(raw, "\n"), "\n")}
}

// Expand substitutes "{name}" tokens with values[name]. Multi-line values become
// several lines. Names without a value are left in place and returned sorted.
func (m Macro) Expand(values map[string]string) (Macro, []string) {
	missing := make(map[string]bool)
	var lines []string
	for _, line := range m.Lines {
		expanded := placeholderRe.ReplaceAllStringFunc(line, func(tok string) string {
			name := tok[1 : len(tok)-1]
			v, ok := values[name]
			if !ok {
				missing[name] = true
				return tok
			}
			return strings.TrimSuffix(v, "\n")
		})
		lines = append(lines, strings.Split(expanded, "\n")...)
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return Macro{Lines: lines}, names
}

// IsBlank reports whether the macro holds no visible text.
func (m Macro) IsBlank() bool {
	return strings.TrimSpace(m.String()) == ""
}

// String joins the lines with "\n", without a trailing newline.
func (m Macro) String() string {
	return strings.Join(m.Lines, "\n")
}

// Block frames the macro between begin and end comment lines.
func (m Macro) Block(begin, end string) []string {
	block := make([]string, 0, len(m.Lines)+2)
	block = append(block, begin)
	block = append(block, m.Lines...)
	return append(block, end)
}
