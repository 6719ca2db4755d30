package formatter

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/tzlog/tzlog/core"
)

// Built-in templates. FormatSimple covers level, timestamp and message;
// FormatStandard adds the call site; FormatDetailed renders a bordered
// multi-line block.
const (
	FormatSimple = "[%(levelname)s] %(asctime)s:  %(message)s"

	FormatStandard = "[%(levelname)s] %(asctime)s\n" +
		"[%(pathname)s] %(funcName)s Line: %(lineno)d\n" +
		"%(message)s"

	FormatDetailed = "------------------------------------\n" +
		"   Logging Level: %(levelname)s\n" +
		" - Time:          %(asctime)s\n" +
		" - File:          %(pathname)s\n" +
		" - Function:      %(funcName)s\n" +
		" - Line Number:   %(lineno)d\n" +
		" - Message:       %(message)s\n" +
		"------------------------------------"

	// DefaultTemplate is used when a handler specifies no format.
	DefaultTemplate = "%(asctime)s - %(levelname)s - %(message)s"
)

// placeholder verbs recognized in templates
const (
	verbLiteral = iota
	verbLevel
	verbTime
	verbPath
	verbFile
	verbFunc
	verbLine
	verbMessage
)

type segment struct {
	verb    int
	literal string
}

// TemplateConfig holds configuration for the template formatter
type TemplateConfig struct {
	// Template is the placeholder template (default: DefaultTemplate)
	Template string
	// TimestampFormat specifies the time format (empty for RFC3339)
	TimestampFormat string
}

// TemplateFormatter renders records by substituting named placeholders
// (%(levelname)s, %(asctime)s, %(pathname)s, %(filename)s, %(funcName)s,
// %(lineno)d, %(message)s) into a fixed text template. Unrecognized
// placeholders are emitted verbatim. Record fields are appended after
// the template output as key=value pairs.
type TemplateFormatter struct {
	segments        []segment
	timestampFormat string
}

// NewTemplateFormatter compiles the template once at construction
func NewTemplateFormatter(cfg TemplateConfig) *TemplateFormatter {
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TemplateFormatter{
		segments:        compileTemplate(cfg.Template),
		timestampFormat: cfg.TimestampFormat,
	}
}

// compileTemplate splits a template string into literal and placeholder
// segments so that rendering is a single pass with no searching.
func compileTemplate(tmpl string) []segment {
	var segs []segment
	for len(tmpl) > 0 {
		i := strings.Index(tmpl, "%(")
		if i < 0 {
			segs = append(segs, segment{verb: verbLiteral, literal: tmpl})
			break
		}
		end := strings.IndexByte(tmpl[i:], ')')
		// A placeholder is "%(name)" followed by a conversion byte.
		if end < 0 || i+end+1 >= len(tmpl) {
			segs = append(segs, segment{verb: verbLiteral, literal: tmpl})
			break
		}
		end += i
		name := tmpl[i+2 : end]
		verb := verbLiteral
		switch name {
		case "levelname":
			verb = verbLevel
		case "asctime":
			verb = verbTime
		case "pathname":
			verb = verbPath
		case "filename":
			verb = verbFile
		case "funcName":
			verb = verbFunc
		case "lineno":
			verb = verbLine
		case "message":
			verb = verbMessage
		}
		if verb == verbLiteral {
			// Unknown placeholder: keep it as literal text
			segs = append(segs, segment{verb: verbLiteral, literal: tmpl[:end+2]})
			tmpl = tmpl[end+2:]
			continue
		}
		if i > 0 {
			segs = append(segs, segment{verb: verbLiteral, literal: tmpl[:i]})
		}
		segs = append(segs, segment{verb: verb})
		tmpl = tmpl[end+2:]
	}
	return segs
}

// Format renders a record using the compiled template
func (f *TemplateFormatter) Format(rec *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatRecord(rec, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatRecord renders a record into the given buffer (implements BufferFormatter)
func (f *TemplateFormatter) FormatRecord(rec *core.Record, buf *bytes.Buffer) {
	for _, seg := range f.segments {
		switch seg.verb {
		case verbLiteral:
			buf.WriteString(seg.literal)
		case verbLevel:
			buf.WriteString(rec.Level.String())
		case verbTime:
			buf.Write(rec.Time.AppendFormat(buf.AvailableBuffer(), f.timestampFormat))
		case verbPath:
			buf.WriteString(rec.Caller.File)
		case verbFile:
			buf.WriteString(rec.Caller.ShortFile)
		case verbFunc:
			buf.WriteString(rec.Caller.Function)
		case verbLine:
			buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(rec.Caller.Line), 10))
		case verbMessage:
			buf.WriteString(rec.Message)
		}
	}

	for _, field := range rec.Fields {
		buf.WriteByte(' ')
		buf.WriteString(field.Key)
		buf.WriteByte('=')
		buf.Write(field.AppendValue(buf.AvailableBuffer()))
	}

	buf.WriteByte('\n')
}
