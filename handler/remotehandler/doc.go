// Package remotehandler ships log entries to a remote HTTP endpoint.
//
// Write enqueues the rendered line into a bounded FIFO queue and
// returns immediately; a single background worker per destination
// drains the queue and performs one HTTP request per entry (body
// {"log": "<rendered>"}, success = status 200). Failed attempts are
// retried with exponential backoff (base delay doubling each retry) up
// to a fixed attempt count, after which the entry is abandoned and
// reported. A full queue drops the newest entry deterministically;
// logging never blocks the application and never raises delivery
// errors at the call site.
//
// Entries are attempted in FIFO order. In-order completion is not
// guaranteed once retries are involved: a later entry can finish while
// an earlier one is still backing off.
//
// Close stops the worker and drains remaining entries, attempting each
// once (no retries) within the drain timeout.
package remotehandler
