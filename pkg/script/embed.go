package script

import "embed"

// builtinPresetsFS embeds the builtin preset scripts.
//
//go:embed presets/*.yml
var builtinPresetsFS embed.FS
