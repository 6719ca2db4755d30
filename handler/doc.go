// Package handler defines the Destination interface that all output
// sinks implement, plus the shared Stats counters.
//
// The registry owns thresholds, filters, and formatting; destinations
// only write rendered lines. Console, file, and syslog destinations
// write synchronously on the calling goroutine (fast local I/O is an
// accepted tradeoff). The remote destination is the exception: Write
// enqueues into a bounded delivery queue consumed by a background
// worker, so a slow or unreachable endpoint never stalls a log call.
//
// Built-in destinations:
//
//   - consolehandler writes to any io.Writer (default: stderr).
//   - filehandler writes to a file with size-based rotation (numbered
//     backups) or time-based rotation (timestamped backups).
//   - sysloghandler forwards to a local or remote syslog daemon.
//   - remotehandler ships entries to an HTTP endpoint with bounded
//     queueing, retry with exponential backoff, and drop-on-overflow.
//
// All destinations track dropped, failed, and processed counts via the
// Stats type, which can be queried at runtime for monitoring.
package handler
