// Package registry manages the named handler set that every log record
// fans out to. Each handler pairs a destination (console, rotating
// file, syslog daemon, or remote HTTP endpoint) with its own severity
// threshold, filter rule, and formatter; the registry tracks the
// aggregate minimum threshold so callers can skip work for records no
// handler would accept.
//
// Handlers can be created, modified, and removed individually, or the
// whole set can be replaced atomically from a configuration document.
// A failed bulk load leaves the previous set running.
package registry
