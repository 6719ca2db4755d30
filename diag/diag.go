package diag

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tzlog/tzlog/core"
)

// Reporter is the side channel for events that must never surface as
// errors at a log call site: queue overflow, abandoned deliveries,
// handler write failures, not-found outcomes, and config reloads.
// All methods are safe on a nil Reporter.
type Reporter struct {
	l *zap.Logger
}

// New wraps a zap.Logger as a Reporter.
func New(l *zap.Logger) *Reporter {
	return &Reporter{l: l}
}

// Default returns a Reporter writing console-encoded diagnostics to
// stderr at warn level and above.
func Default() *Reporter {
	enc := zap.NewDevelopmentEncoderConfig()
	zc := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(os.Stderr),
		zapcore.WarnLevel,
	)
	return &Reporter{l: zap.New(zc)}
}

// Nop returns a Reporter that discards everything.
func Nop() *Reporter {
	return &Reporter{l: zap.NewNop()}
}

// QueueFull reports a dropped entry on a full delivery queue.
func (r *Reporter) QueueFull(handler, id string, level core.Level) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Warn("delivery queue full, dropping entry",
		zap.String("handler", handler),
		zap.String("entry_id", id),
		zap.Stringer("level", level),
	)
}

// Abandoned reports an entry given up on after exhausting retries.
func (r *Reporter) Abandoned(handler, id string, attempts int, err error) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Warn("delivery abandoned after retries",
		zap.String("handler", handler),
		zap.String("entry_id", id),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
}

// WriteError reports a destination write failure during dispatch.
func (r *Reporter) WriteError(handler string, err error) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Warn("handler write failed",
		zap.String("handler", handler),
		zap.Error(err),
	)
}

// NotFound reports a remove/modify that referenced an unknown handler.
func (r *Reporter) NotFound(op, name string) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Warn("handler not found",
		zap.String("op", op),
		zap.String("handler", name),
	)
}

// HandlerRemoved reports a successful handler removal.
func (r *Reporter) HandlerRemoved(name string) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Info("handler removed", zap.String("handler", name))
}

// HandlerModified reports a successful in-place handler update.
func (r *Reporter) HandlerModified(name string) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Info("handler modified", zap.String("handler", name))
}

// ConfigLoaded reports a successful bulk configuration load.
func (r *Reporter) ConfigLoaded(source string, handlers int) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Info("configuration loaded",
		zap.String("source", source),
		zap.Int("handlers", handlers),
	)
}

// ConfigReloadFailed reports a failed reload; the previous handler set
// stays active.
func (r *Reporter) ConfigReloadFailed(source string, err error) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Error("configuration reload failed, keeping previous handlers",
		zap.String("source", source),
		zap.Error(err),
	)
}

// WatcherError reports a config-watcher failure.
func (r *Reporter) WatcherError(source string, err error) {
	if r == nil || r.l == nil {
		return
	}
	r.l.Error("config watcher error",
		zap.String("source", source),
		zap.Error(err),
	)
}
