// Package consolehandler provides the console destination, writing
// rendered log lines to any io.Writer (default: os.Stderr).
//
// Writes are synchronous and serialized on an internal mutex unless
// the writer is known to be safe for concurrent Write calls (detected
// for *os.File and io.Discard, or declared via ConcurrentWriter).
package consolehandler
