package types

// Logger receives leveled diagnostic output.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Debugf(format string, args ...interface{}) {}
func (NoopLogger) Infof(format string, args ...interface{})  {}
func (NoopLogger) Warnf(format string, args ...interface{})  {}
func (NoopLogger) Errorf(format string, args ...interface{}) {}

// LogDiagnostic forwards d to the logger method matching its severity.
func LogDiagnostic(l Logger, d Diagnostic) {
	switch d.Severity {
	case SeverityDebug:
		l.Debugf("%s", d)
	case SeverityInfo:
		l.Infof("%s", d)
	case SeverityWarning:
		l.Warnf("%s", d)
	default:
		l.Errorf("%s", d)
	}
}
