// Package diag is the internal diagnostics channel of the façade.
//
// Steady-state logging failures (delivery errors, queue overflow,
// not-found outcomes) are never raised to the log call site; they are
// reported here instead. The Reporter wraps a zap.Logger so the façade
// never recurses into itself for its own diagnostics. Default() writes
// to stderr at warn level; Nop() silences everything.
package diag
