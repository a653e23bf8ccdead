// Package enum discovers G-code files to post-process.
package enum

import (
	"context"

	"github.com/printkit/gpost/pkg/types"
)

// DefaultExtensions are the file extensions treated as G-code when walking a directory.
var DefaultExtensions = []string{".gcode", ".gco", ".g"}

// Enumerator discovers G-code streams from a source.
type Enumerator interface {
	// Enumerate yields file contents from the source.
	// The callback receives the content, its ID, and provenance information.
	// It may be called from several goroutines at once.
	Enumerate(ctx context.Context, callback func(content []byte, id types.ContentID, prov types.Provenance) error) error
}

// Config for enumeration.
type Config struct {
	// Root is a G-code file or a directory to walk.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Extensions limits a directory walk to these extensions (case-insensitive).
	// Empty means DefaultExtensions. A file given as Root is always read.
	Extensions []string

	// SkipSuffix skips files whose base name, without extension, ends with it.
	// Used to leave previous gpost output alone.
	SkipSuffix string
}
