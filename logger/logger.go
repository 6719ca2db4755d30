package logger

import (
	"fmt"

	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/registry"
)

// Logger is the front door of the library: a thin façade over a handler
// registry. It builds a record per accepted call and hands it to the
// registry for fan-out; thresholds, filters, and formatting all live
// with the handlers. Multiple Loggers may share one registry.
//
// A call below the registry's aggregate minimum level returns before
// any record is built or caller information is captured.
type Logger struct {
	reg           *registry.Registry
	fields        []core.Field
	includeCaller bool
	callerSkip    int
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	reg           *registry.Registry
	fields        []core.Field
	includeCaller bool
	callerSkip    int
}

// NewBuilder creates a new logger builder. Caller capture is on by
// default since the standard templates reference the call site.
func NewBuilder() *Builder {
	return &Builder{
		includeCaller: true,
		callerSkip:    3, // user frame as seen from GetCaller
	}
}

// WithRegistry sets the handler registry the logger dispatches to
func (b *Builder) WithRegistry(reg *registry.Registry) *Builder {
	b.reg = reg
	return b
}

// WithFields adds default fields attached to every record
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithCaller enables or disables call-site capture
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// Build creates the Logger instance. Without an explicit registry an
// empty one is created.
func (b *Builder) Build() *Logger {
	reg := b.reg
	if reg == nil {
		reg = registry.New(registry.Config{})
	}
	return &Logger{
		reg:           reg,
		fields:        b.fields,
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
	}
}

// Registry returns the underlying handler registry for handler
// management: Create, Modify, Remove, List, Load.
func (l *Logger) Registry() *registry.Registry {
	return l.reg
}

// With creates a new Logger with additional default fields, sharing
// the same registry (immutable operation).
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make([]core.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &Logger{
		reg:           l.reg,
		fields:        newFields,
		includeCaller: l.includeCaller,
		callerSkip:    l.callerSkip,
	}
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	// Level check BEFORE any allocations
	if level < l.reg.MinLevel() {
		return
	}
	l.log(level, msg, fields)
}

// log builds the record and dispatches it. The record is recycled
// afterwards; dispatch is synchronous and destinations that retain
// data copy it.
func (l *Logger) log(level core.Level, msg string, fields []core.Field) {
	rec := core.GetRecord()
	rec.Level = level
	rec.Message = msg

	if len(l.fields) > 0 {
		rec.Fields = append(rec.Fields, l.fields...)
	}
	if len(fields) > 0 {
		rec.Fields = append(rec.Fields, fields...)
	}
	if l.includeCaller {
		rec.Caller = core.GetCaller(l.callerSkip)
	}

	l.reg.Dispatch(rec)
	core.PutRecord(rec)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if core.DebugLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if core.InfoLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.InfoLevel, msg, fields)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, fields ...core.Field) {
	if core.WarningLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.WarningLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	if core.ErrorLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.ErrorLevel, msg, fields)
}

// Critical logs a critical message
func (l *Logger) Critical(msg string, fields ...core.Field) {
	if core.CriticalLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.CriticalLevel, msg, fields)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	if core.DebugLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	if core.InfoLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warningf logs a warning message with formatting
func (l *Logger) Warningf(format string, args ...interface{}) {
	if core.WarningLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.WarningLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	if core.ErrorLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Criticalf logs a critical message with formatting
func (l *Logger) Criticalf(format string, args ...interface{}) {
	if core.CriticalLevel < l.reg.MinLevel() {
		return
	}
	l.log(core.CriticalLevel, fmt.Sprintf(format, args...), nil)
}

// Close closes every handler in the registry. Remote handlers drain
// their delivery queues first.
func (l *Logger) Close() error {
	return l.reg.Close()
}
