package main

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// styles holds color formatters for the run summary
type styles struct {
	heading   *color.Color
	path      *color.Color
	scriptID  *color.Color
	applied   *color.Color
	unchanged *color.Color
	skipped   *color.Color
	failed    *color.Color
	warning   *color.Color
}

// newStyles creates color formatters for report output
// enabled=false respects --color never and the NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:   color.New(color.Bold),
		path:      color.New(color.Bold, color.FgHiWhite),
		scriptID:  color.New(color.FgHiBlue),
		applied:   color.New(color.FgHiGreen),
		unchanged: color.New(color.Faint),
		skipped:   color.New(color.Faint),
		failed:    color.New(color.Bold, color.FgRed),
		warning:   color.New(color.FgYellow),
	}

	if !enabled {
		// Disable colors on all formatters
		for _, c := range []*color.Color{s.heading, s.path, s.scriptID, s.applied, s.unchanged, s.skipped, s.failed, s.warning} {
			c.DisableColor()
		}
	}

	return s
}

// setupColor applies --color to the global color switch and returns styles to match.
func setupColor(mode string, f *os.File) *styles {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		// Check if the output is a TTY and NO_COLOR is not set
		if !term.IsTerminal(int(f.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}
	return newStyles(!color.NoColor)
}
