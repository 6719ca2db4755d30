package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tzlog/tzlog/config"
	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/diag"
	"github.com/tzlog/tzlog/filter"
	"github.com/tzlog/tzlog/handler"
	"github.com/tzlog/tzlog/handler/consolehandler"
	"github.com/tzlog/tzlog/handler/filehandler"
	"github.com/tzlog/tzlog/handler/remotehandler"
	"github.com/tzlog/tzlog/handler/sysloghandler"
)

// Config holds configuration for the registry
type Config struct {
	// Reporter receives diagnostic events (default: diag.Nop())
	Reporter *diag.Reporter
}

// Registry is the shared handler set behind every logging call. It owns
// handler lifecycle (create, modify, remove, bulk load) and fan-out
// dispatch, and maintains the aggregate minimum severity across all
// registered handlers so callers can skip record construction for
// levels no handler would accept.
//
// All methods are safe for concurrent use. Destination I/O never runs
// under the registry lock: destinations are built before the lock is
// taken and closed after it is released.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Handler

	// saved holds pre-override thresholds while a temporary override
	// is active; override is the level in force during that window.
	saved    map[string]core.Level
	override core.Level

	// minLevel caches the lowest threshold across handlers, or
	// DisabledLevel when the registry is empty.
	minLevel atomic.Int32

	reporter *diag.Reporter
}

// New creates an empty registry.
func New(cfg Config) *Registry {
	if cfg.Reporter == nil {
		cfg.Reporter = diag.Nop()
	}
	r := &Registry{
		handlers: make(map[string]*Handler),
		reporter: cfg.Reporter,
	}
	r.minLevel.Store(int32(core.DisabledLevel))
	return r
}

// MinLevel returns the lowest threshold across registered handlers, or
// DisabledLevel when none are registered.
func (r *Registry) MinLevel() core.Level {
	return core.Level(r.minLevel.Load())
}

// recomputeMinLevel rescans handler thresholds. Caller holds r.mu.
func (r *Registry) recomputeMinLevel() {
	min := core.DisabledLevel
	for _, h := range r.handlers {
		if lvl := h.Level(); lvl < min {
			min = lvl
		}
	}
	r.minLevel.Store(int32(min))
}

// Create registers a new handler built from spec. A name collision is
// rejected with DuplicateNameError and the existing handler keeps its
// configuration.
func (r *Registry) Create(spec HandlerSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("handler name is required")
	}

	r.mu.RLock()
	_, exists := r.handlers[spec.Name]
	r.mu.RUnlock()
	if exists {
		return &DuplicateNameError{Name: spec.Name}
	}

	h, err := r.buildHandler(spec)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if _, exists := r.handlers[spec.Name]; exists {
		r.mu.Unlock()
		h.dest.Close()
		return &DuplicateNameError{Name: spec.Name}
	}
	r.handlers[spec.Name] = h
	// A temporary override in effect extends to handlers created
	// while it is active; they restore to their spec level.
	if r.saved != nil {
		r.saved[spec.Name] = spec.Level
		h.setLevel(r.override)
	}
	r.recomputeMinLevel()
	r.mu.Unlock()
	return nil
}

// Remove unregisters and closes a handler. Removing an unknown name
// returns ErrNotFound.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	h, ok := r.handlers[name]
	if !ok {
		r.mu.Unlock()
		r.reporter.NotFound("remove", name)
		return ErrNotFound
	}
	delete(r.handlers, name)
	delete(r.saved, name)
	r.recomputeMinLevel()
	r.mu.Unlock()

	err := h.dest.Close()
	r.reporter.HandlerRemoved(name)
	return err
}

// Update describes a sparse in-place modification. Nil fields keep
// their current value. Setting Template without JSONFormat switches the
// handler back to template formatting.
type Update struct {
	Level       *core.Level
	Template    *string
	JSONFormat  *bool
	ExtraFields map[string]interface{}
	Filter      *filter.Spec
}

// Modify applies an in-place update to a registered handler. Updates
// take effect for subsequent dispatches; records already past the
// handler's policy check are unaffected. An unknown name returns
// ErrNotFound; an invalid filter pattern leaves the handler unchanged.
func (r *Registry) Modify(name string, upd Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handlers[name]
	if !ok {
		r.reporter.NotFound("modify", name)
		return ErrNotFound
	}

	// Compile the new filter before touching any handler state
	var rule *filter.Rule
	if upd.Filter != nil {
		var err error
		if rule, err = filter.Compile(*upd.Filter); err != nil {
			return err
		}
	}

	h.mu.Lock()
	if upd.Level != nil {
		h.level = *upd.Level
	}
	if upd.Filter != nil {
		h.spec = *upd.Filter
		h.rule = rule
	}

	reformat := false
	if upd.JSONFormat != nil {
		h.jsonMode = *upd.JSONFormat
		reformat = true
	}
	if upd.Template != nil {
		h.template = *upd.Template
		if upd.JSONFormat == nil {
			h.jsonMode = false
		}
		reformat = true
	}
	if upd.ExtraFields != nil {
		h.extra = upd.ExtraFields
		reformat = true
	}
	if reformat {
		h.fmtr = buildFormatter(h.template, h.jsonMode, h.extra)
	}
	h.mu.Unlock()

	if upd.Level != nil {
		// An explicit level change replaces any saved level for this
		// handler so a later restore keeps it.
		if r.saved != nil {
			r.saved[name] = *upd.Level
		}
		r.recomputeMinLevel()
	}
	r.reporter.HandlerModified(name)
	return nil
}

// List returns the registered handler names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Dispatch fans a record out to every handler whose threshold and
// filter accept it. Handler failures are isolated: one destination
// erroring never prevents delivery to the others, and errors surface
// only through the diagnostics reporter.
func (r *Registry) Dispatch(rec *core.Record) {
	if rec.Level < r.MinLevel() {
		return
	}

	r.mu.RLock()
	targets := make([]*Handler, 0, len(r.handlers))
	for _, h := range r.handlers {
		targets = append(targets, h)
	}
	r.mu.RUnlock()

	for _, h := range targets {
		if err := h.emit(rec); err != nil {
			r.reporter.WriteError(h.name, err)
		}
	}
}

// Load replaces the entire handler set with the one described by doc.
// The swap is all-or-nothing: if any handler fails to build, the
// previous set stays active and keeps receiving records. On success
// the previous handlers are closed after the new set is live.
func (r *Registry) Load(doc *config.Document) error {
	fresh := make(map[string]*Handler, len(doc.Handlers))
	closeFresh := func() {
		for _, built := range fresh {
			built.dest.Close()
		}
	}
	for _, hc := range doc.Handlers {
		spec, err := specFromConfig(hc)
		if err != nil {
			closeFresh()
			return err
		}
		// Parse validates names, but a Document built in code skips
		// Parse; recheck so a duplicate cannot displace a live handler.
		if _, dup := fresh[spec.Name]; dup {
			closeFresh()
			return &DuplicateNameError{Name: spec.Name}
		}
		h, err := r.buildHandler(spec)
		if err != nil {
			closeFresh()
			return err
		}
		fresh[spec.Name] = h
	}

	r.mu.Lock()
	old := r.handlers
	r.handlers = fresh
	r.saved = nil
	r.recomputeMinLevel()
	r.mu.Unlock()

	for _, h := range old {
		h.dest.Close()
	}
	return nil
}

// LoadFile loads a configuration file (YAML or JSON by extension) and
// applies it via Load. On failure the previous handler set stays
// active.
func (r *Registry) LoadFile(path string) error {
	doc, err := config.LoadFile(path)
	if err != nil {
		r.reporter.ConfigReloadFailed(path, err)
		return err
	}
	if err := r.Load(doc); err != nil {
		r.reporter.ConfigReloadFailed(path, err)
		return err
	}
	r.reporter.ConfigLoaded(path, len(doc.Handlers))
	return nil
}

// SetTemporaryLevel overrides every handler's threshold with lvl,
// saving the current thresholds for RestoreLevels. Calling it again
// while an override is active changes the override without discarding
// the original saved thresholds.
func (r *Registry) SetTemporaryLevel(lvl core.Level) {
	r.mu.Lock()
	if r.saved == nil {
		r.saved = make(map[string]core.Level, len(r.handlers))
		for name, h := range r.handlers {
			r.saved[name] = h.Level()
		}
	}
	r.override = lvl
	for _, h := range r.handlers {
		h.setLevel(lvl)
	}
	r.recomputeMinLevel()
	r.mu.Unlock()
}

// RestoreLevels undoes SetTemporaryLevel. Without an active override it
// is a no-op.
func (r *Registry) RestoreLevels() {
	r.mu.Lock()
	if r.saved != nil {
		for name, lvl := range r.saved {
			if h, ok := r.handlers[name]; ok {
				h.setLevel(lvl)
			}
		}
		r.saved = nil
		r.recomputeMinLevel()
	}
	r.mu.Unlock()
}

// Stats returns per-handler counter snapshots for destinations that
// expose them.
func (r *Registry) Stats() map[string]handler.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]handler.Snapshot, len(r.handlers))
	for name, h := range r.handlers {
		if sp, ok := h.dest.(handler.StatsProvider); ok {
			out[name] = sp.Stats()
		}
	}
	return out
}

// DeliveryStats returns delivery counters for the remote handlers.
func (r *Registry) DeliveryStats() map[string]remotehandler.DeliverySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]remotehandler.DeliverySnapshot)
	for name, h := range r.handlers {
		if rd, ok := h.dest.(*remotehandler.RemoteDestination); ok {
			out[name] = rd.DeliveryStats()
		}
	}
	return out
}

// Close removes and closes every handler. Remote handlers drain their
// queues within their drain timeout. The registry is empty but usable
// afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	old := r.handlers
	r.handlers = make(map[string]*Handler)
	r.saved = nil
	r.minLevel.Store(int32(core.DisabledLevel))
	r.mu.Unlock()

	var errs []error
	for name, h := range old {
		if err := h.dest.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// buildHandler constructs the wrapper and its destination from a spec.
// No registry lock is held here; destination constructors may do I/O.
func (r *Registry) buildHandler(spec HandlerSpec) (*Handler, error) {
	rule, err := filter.Compile(spec.Filter)
	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", spec.Name, err)
	}

	dest, err := r.buildDestination(spec)
	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", spec.Name, err)
	}

	return &Handler{
		name:     spec.Name,
		dest:     dest,
		level:    spec.Level,
		rule:     rule,
		spec:     spec.Filter,
		fmtr:     buildFormatter(spec.Template, spec.JSONFormat, spec.ExtraFields),
		template: spec.Template,
		jsonMode: spec.JSONFormat,
		extra:    spec.ExtraFields,
	}, nil
}

func (r *Registry) buildDestination(spec HandlerSpec) (handler.Destination, error) {
	switch spec.Kind {
	case KindConsole:
		return consolehandler.New(consolehandler.ConsoleConfig{
			Writer: spec.Writer,
		}), nil

	case KindFile:
		return filehandler.New(filehandler.FileConfig{
			Filename:       spec.Path,
			MaxSize:        spec.MaxSize,
			RotateInterval: spec.RotateInterval,
			MaxBackups:     spec.BackupCount,
		})

	case KindSyslog:
		return sysloghandler.New(sysloghandler.SyslogConfig{
			Address: spec.SyslogAddress,
			Network: spec.SyslogNetwork,
		})

	case KindRemote:
		return remotehandler.New(remotehandler.RemoteConfig{
			URL:          spec.RemoteURL,
			Method:       spec.Method,
			QueueSize:    spec.QueueSize,
			Timeout:      spec.Timeout,
			MaxAttempts:  spec.MaxAttempts,
			BackoffBase:  spec.BackoffBase,
			DrainTimeout: spec.DrainTimeout,
			Name:         spec.Name,
			Reporter:     r.reporter,
		})

	default:
		return nil, fmt.Errorf("unknown handler kind %d", spec.Kind)
	}
}
