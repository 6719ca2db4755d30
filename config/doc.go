// Package config parses handler configuration documents (YAML or JSON)
// into the in-memory form the registry consumes, and provides an
// optional fsnotify-based file watcher for best-effort hot reload.
//
// Parsing is deliberately lenient where the document contract says so:
// unknown top-level keys are ignored and a missing handlers list means
// zero handlers. Structural problems (missing or duplicate handler
// names, unparseable syntax, unsupported file extensions) are
// ParseErrors; the caller keeps its previous configuration when one
// occurs.
package config
