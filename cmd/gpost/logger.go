package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/printkit/gpost/pkg/types"
)

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

// cliLogger writes level-tagged lines, typically to stderr.
// Files are processed in parallel, so writes are serialized.
type cliLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level logLevel
	tags  map[logLevel]string
}

var _ types.Logger = (*cliLogger)(nil)

// newLogger creates a logger honoring --verbose and --quiet.
func newLogger(out io.Writer) *cliLogger {
	level := levelWarn
	switch {
	case quiet:
		level = levelError
	case verbose:
		level = levelDebug
	}

	return &cliLogger{
		out:   out,
		level: level,
		tags: map[logLevel]string{
			levelDebug: color.New(color.Faint).Sprint("debug"),
			levelInfo:  color.New(color.FgCyan).Sprint("info"),
			levelWarn:  color.New(color.FgYellow).Sprint("warning"),
			levelError: color.New(color.Bold, color.FgRed).Sprint("error"),
		},
	}
}

func (l *cliLogger) Debugf(format string, args ...interface{}) { l.log(levelDebug, format, args...) }
func (l *cliLogger) Infof(format string, args ...interface{})  { l.log(levelInfo, format, args...) }
func (l *cliLogger) Warnf(format string, args ...interface{})  { l.log(levelWarn, format, args...) }
func (l *cliLogger) Errorf(format string, args ...interface{}) { l.log(levelError, format, args...) }

func (l *cliLogger) log(level logLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s: %s\n", l.tags[level], fmt.Sprintf(format, args...))
}

// prefixLogger tags every message with the stream it belongs to.
type prefixLogger struct {
	types.Logger
	prefix string
}

func (p prefixLogger) Debugf(format string, args ...interface{}) {
	p.Logger.Debugf("%s: %s", p.prefix, fmt.Sprintf(format, args...))
}
func (p prefixLogger) Infof(format string, args ...interface{}) {
	p.Logger.Infof("%s: %s", p.prefix, fmt.Sprintf(format, args...))
}
func (p prefixLogger) Warnf(format string, args ...interface{}) {
	p.Logger.Warnf("%s: %s", p.prefix, fmt.Sprintf(format, args...))
}
func (p prefixLogger) Errorf(format string, args ...interface{}) {
	p.Logger.Errorf("%s: %s", p.prefix, fmt.Sprintf(format, args...))
}
