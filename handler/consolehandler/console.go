package consolehandler

import (
	"io"
	"os"
	"sync"

	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/handler"
)

// isConcurrentSafeWriter returns true if the writer is known to be safe for
// concurrent Write calls, allowing the destination to skip write-level locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// ConsoleConfig holds configuration for the console destination
type ConsoleConfig struct {
	// Writer to write to (default: os.Stderr)
	Writer io.Writer
	// ConcurrentWriter indicates the Writer supports concurrent Write
	// calls, letting the destination skip its own locking. Automatically
	// detected for io.Discard and *os.File.
	ConcurrentWriter bool
}

// ConsoleDestination writes rendered lines to an io.Writer. Writes are
// synchronous; the lock is held only for the Write call itself.
type ConsoleDestination struct {
	mu             sync.Mutex
	writer         io.Writer
	concurrentSafe bool
	stats          *handler.Stats
}

// New creates a console destination.
func New(cfg ConsoleConfig) *ConsoleDestination {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	return &ConsoleDestination{
		writer:         cfg.Writer,
		concurrentSafe: cfg.ConcurrentWriter || isConcurrentSafeWriter(cfg.Writer),
		stats:          handler.NewStats(),
	}
}

// Write writes one rendered line.
func (d *ConsoleDestination) Write(rec *core.Record, line []byte) error {
	var err error
	if d.concurrentSafe {
		_, err = d.writer.Write(line)
	} else {
		d.mu.Lock()
		_, err = d.writer.Write(line)
		d.mu.Unlock()
	}

	if err != nil {
		d.stats.IncrementError()
		return err
	}
	d.stats.IncrementProcessed()
	return nil
}

// Close is a no-op; the destination does not own its writer.
func (d *ConsoleDestination) Close() error {
	return nil
}

// Stats returns a snapshot of the current statistics
func (d *ConsoleDestination) Stats() handler.Snapshot {
	return d.stats.GetSnapshot()
}
