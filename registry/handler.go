package registry

import (
	"bytes"
	"sync"

	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/filter"
	"github.com/tzlog/tzlog/formatter"
	"github.com/tzlog/tzlog/handler"
)

// linePool recycles render buffers across dispatches
var linePool = sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getLineBuffer() *bytes.Buffer {
	buf := linePool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putLineBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	linePool.Put(buf)
}

// Handler pairs a destination with the per-handler policy the registry
// applies before the destination ever sees a record: the severity
// threshold, the filter rule, and the formatter. Policy fields are
// mutable through Modify; the destination is fixed for the handler's
// lifetime.
type Handler struct {
	name string
	dest handler.Destination

	mu       sync.RWMutex
	level    core.Level
	rule     *filter.Rule
	fmtr     formatter.Formatter
	spec     filter.Spec
	template string
	jsonMode bool
	extra    map[string]interface{}
}

// Name returns the registry key.
func (h *Handler) Name() string { return h.name }

// Level returns the current severity threshold.
func (h *Handler) Level() core.Level {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.level
}

// setLevel replaces the threshold. The registry recomputes its minimum
// afterwards.
func (h *Handler) setLevel(lvl core.Level) {
	h.mu.Lock()
	h.level = lvl
	h.mu.Unlock()
}

// emit applies threshold, filter, and formatter, then writes the
// rendered line to the destination. A record below the threshold or
// rejected by the filter is silently skipped; only destination and
// formatter failures surface as errors.
func (h *Handler) emit(rec *core.Record) error {
	h.mu.RLock()
	level := h.level
	rule := h.rule
	fmtr := h.fmtr
	h.mu.RUnlock()

	if rec.Level < level {
		return nil
	}
	if !rule.Accepts(rec) {
		return nil
	}

	if bf, ok := fmtr.(formatter.BufferFormatter); ok {
		buf := getLineBuffer()
		bf.FormatRecord(rec, buf)
		err := h.dest.Write(rec, buf.Bytes())
		putLineBuffer(buf)
		return err
	}

	line, err := fmtr.Format(rec)
	if err != nil {
		return err
	}
	return h.dest.Write(rec, line)
}

// buildFormatter constructs the formatter for the handler's current
// formatting state.
func buildFormatter(template string, jsonMode bool, extra map[string]interface{}) formatter.Formatter {
	if jsonMode {
		return formatter.NewJSONFormatter(formatter.JSONConfig{ExtraFields: extra})
	}
	return formatter.NewTemplateFormatter(formatter.TemplateConfig{Template: template})
}
