package logger

import "github.com/tzlog/tzlog/core"

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	DebugLevel    = core.DebugLevel
	InfoLevel     = core.InfoLevel
	WarningLevel  = core.WarningLevel
	ErrorLevel    = core.ErrorLevel
	CriticalLevel = core.CriticalLevel
)

// ParseLevel converts a string to a Level. Unknown names fall back to
// InfoLevel.
func ParseLevel(s string) Level {
	return core.ParseLevel(s)
}
