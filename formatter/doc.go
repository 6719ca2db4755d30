// Package formatter defines how log records are serialized into bytes.
//
// It exposes two interfaces: Formatter, which returns a []byte, and the
// optional BufferFormatter, which renders into a caller-provided
// bytes.Buffer. The registry checks for BufferFormatter at dispatch
// time and prefers it, eliminating the intermediate byte slice
// allocation on the write path.
//
// Two formatters are provided:
//
//   - TemplateFormatter substitutes named placeholders such as
//     %(levelname)s and %(message)s into a fixed text template. Three
//     built-in templates (FormatSimple, FormatStandard, FormatDetailed)
//     cover the common cases; any custom template string is accepted.
//   - JSONFormatter emits a single-line JSON object with fixed keys
//     (timestamp, level, message, file, line, function) merged with a
//     static set of extra fields. Extra fields never override the fixed
//     keys; they are pre-encoded at construction so the per-record cost
//     is one buffer write.
//
// Both use a pooled bytes.Buffer internally and rely on Go's
// Append-style functions (time.AppendFormat, strconv.AppendInt) to
// avoid per-call allocations. Buffers larger than 64 KiB are not
// returned to the pool to prevent a single large log line from
// permanently inflating memory usage.
package formatter
