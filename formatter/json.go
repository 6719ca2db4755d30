package formatter

import (
	"bytes"
	"sort"
	"strconv"
	"time"

	"github.com/tzlog/tzlog/core"
)

// JSONConfig holds configuration for the JSON formatter
type JSONConfig struct {
	// TimestampFormat specifies the time format (empty for RFC3339Nano)
	TimestampFormat string
	// ExtraFields are static key-value pairs merged into every record.
	// Keys colliding with the fixed keys (timestamp, level, message,
	// file, line, function) are ignored; the fixed keys always win.
	ExtraFields map[string]interface{}
}

// JSONFormatter renders log records as single-line JSON objects with
// fixed keys (timestamp, level, message, file, line, function) merged
// with a static set of extra fields supplied at construction time.
type JSONFormatter struct {
	timestampFormat string
	extraJSON       []byte // pre-encoded `,"k":v` pairs, deterministic order
}

// fixed keys that extra fields may never override
var reservedJSONKeys = map[string]struct{}{
	"timestamp": {},
	"level":     {},
	"message":   {},
	"file":      {},
	"line":      {},
	"function":  {},
}

// NewJSONFormatter creates a new JSON formatter. Extra fields are
// encoded once here, so per-record cost is a single buffer write.
func NewJSONFormatter(cfg JSONConfig) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339Nano
	}

	f := &JSONFormatter{timestampFormat: cfg.TimestampFormat}

	if len(cfg.ExtraFields) > 0 {
		keys := make([]string, 0, len(cfg.ExtraFields))
		for k := range cfg.ExtraFields {
			if _, reserved := reservedJSONKeys[k]; reserved {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		for _, k := range keys {
			buf.WriteString(`,"`)
			appendJSONString(&buf, k)
			buf.WriteString(`":`)
			appendJSONValue(&buf, cfg.ExtraFields[k])
		}
		f.extraJSON = buf.Bytes()
	}

	return f
}

// Format renders a record as JSON
func (f *JSONFormatter) Format(rec *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatRecord(rec, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatRecord renders a record as JSON into the given buffer (implements BufferFormatter)
func (f *JSONFormatter) FormatRecord(rec *core.Record, buf *bytes.Buffer) {
	buf.WriteString(`{"timestamp":"`)
	buf.Write(rec.Time.AppendFormat(buf.AvailableBuffer(), f.timestampFormat))
	buf.WriteByte('"')

	buf.WriteString(`,"level":"`)
	buf.WriteString(rec.Level.String())
	buf.WriteByte('"')

	buf.WriteString(`,"message":"`)
	appendJSONString(buf, rec.Message)
	buf.WriteByte('"')

	buf.WriteString(`,"file":"`)
	appendJSONString(buf, rec.Caller.File)
	buf.WriteString(`","line":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(rec.Caller.Line), 10))

	if rec.Caller.Function != "" {
		buf.WriteString(`,"function":"`)
		appendJSONString(buf, rec.Caller.Function)
		buf.WriteByte('"')
	}

	for _, field := range rec.Fields {
		if _, reserved := reservedJSONKeys[field.Key]; reserved {
			continue
		}
		buf.WriteString(`,"`)
		appendJSONString(buf, field.Key)
		buf.WriteString(`":`)
		appendJSONFieldValue(buf, field)
	}

	buf.Write(f.extraJSON)
	buf.WriteString("}\n")
}

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		// Flush unescaped prefix
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	// Flush remaining
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// appendJSONFieldValue writes a JSON-encoded field value to the buffer
func appendJSONFieldValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.StringType:
		buf.WriteByte('"')
		appendJSONString(buf, field.Str)
		buf.WriteByte('"')
	case core.IntType, core.Int64Type:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(time.Unix(0, field.Int64).AppendFormat(buf.AvailableBuffer(), time.RFC3339Nano))
		buf.WriteByte('"')
	case core.DurationType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	default:
		buf.WriteByte('"')
		appendJSONString(buf, field.StringValue())
		buf.WriteByte('"')
	}
}

// appendJSONValue writes an arbitrary extra-field value to the buffer.
// Only called at construction time, so reflection cost is irrelevant.
func appendJSONValue(buf *bytes.Buffer, v interface{}) {
	switch val := v.(type) {
	case string:
		buf.WriteByte('"')
		appendJSONString(buf, val)
		buf.WriteByte('"')
	case int:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(val), 10))
	case int64:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), val, 10))
	case float64:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), val, 'f', -1, 64))
	case bool:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), val))
	case nil:
		buf.WriteString("null")
	default:
		buf.WriteByte('"')
		appendJSONString(buf, core.Field{Type: core.AnyType, Any: v}.StringValue())
		buf.WriteByte('"')
	}
}
