package types

// Provenance tracks where a G-code stream came from.
type Provenance interface {
	Kind() string
	// Path returns displayable path (if applicable)
	Path() string
}

// FileProvenance for filesystem files.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// StreamProvenance for content received over stdin or the serve protocol.
type StreamProvenance struct {
	Source string // caller-supplied label, may be empty
}

// Kind returns "stream".
func (s StreamProvenance) Kind() string {
	return "stream"
}

// Path returns the source label, or "-" when none was given.
func (s StreamProvenance) Path() string {
	if s.Source == "" {
		return "-"
	}
	return s.Source
}
