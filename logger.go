package jsonapi

// Logger is the pluggable diagnostic sink the engine logs through, shaped
// after SpaceCafe-gobox/logger's interface but trimmed to the four level
// methods the engine actually calls (no level/format/output configuration,
// which belongs to whatever concrete logger the caller wires in).
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger discards everything. It is the default so the engine works
// without a logger wired in.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// NoopLogger is the default [Logger]: every call is a no-op.
var NoopLogger Logger = noopLogger{}
