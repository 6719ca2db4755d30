// Package core defines the shared types used across the tzlog façade.
//
// It provides the Level type for severity ordering (DEBUG < INFO <
// WARNING < ERROR < CRITICAL), the Record type that represents a single
// log event, and the Field type for zero-allocation structured
// key-value pairs.
//
// Record objects are pooled via sync.Pool to keep the hot path
// allocation-free. Callers get a Record with GetRecord and must return
// it with PutRecord once every handler has consumed it. The pool
// pre-allocates the Fields slice with capacity 8, which covers most
// log calls without triggering a slice growth.
//
// DisabledLevel is the sentinel the registry reports as its global
// minimum when no handlers are registered: it compares above every
// real level, so the façade's fast-path gate rejects everything.
package core
