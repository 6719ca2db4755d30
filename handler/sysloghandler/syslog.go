package sysloghandler

import (
	"fmt"
	"log/syslog"
	"strings"
	"sync"

	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/handler"
)

// SyslogConfig holds configuration for the syslog destination
type SyslogConfig struct {
	// Address of the syslog daemon ("host:port"); empty connects to
	// the local daemon.
	Address string
	// Network is the transport for remote daemons (default: "udp")
	Network string
	// Tag is the syslog tag (default: "tzlog")
	Tag string
}

// SyslogDestination forwards rendered lines to a syslog daemon,
// mapping record severity onto syslog severities.
type SyslogDestination struct {
	mu     sync.Mutex
	writer *syslog.Writer
	stats  *handler.Stats
}

// New creates a syslog destination, dialing the daemon immediately so
// connection failures surface at handler-creation time.
func New(cfg SyslogConfig) (*SyslogDestination, error) {
	if cfg.Tag == "" {
		cfg.Tag = "tzlog"
	}
	if cfg.Network == "" {
		cfg.Network = "udp"
	}

	var w *syslog.Writer
	var err error
	if cfg.Address == "" {
		w, err = syslog.New(syslog.LOG_INFO|syslog.LOG_USER, cfg.Tag)
	} else {
		w, err = syslog.Dial(cfg.Network, cfg.Address, syslog.LOG_INFO|syslog.LOG_USER, cfg.Tag)
	}
	if err != nil {
		return nil, fmt.Errorf("connect syslog: %w", err)
	}

	return &SyslogDestination{
		writer: w,
		stats:  handler.NewStats(),
	}, nil
}

// Write forwards one rendered line at the severity matching the record.
func (d *SyslogDestination) Write(rec *core.Record, line []byte) error {
	msg := strings.TrimRight(string(line), "\n")

	d.mu.Lock()
	var err error
	switch rec.Level {
	case core.DebugLevel:
		err = d.writer.Debug(msg)
	case core.InfoLevel:
		err = d.writer.Info(msg)
	case core.WarningLevel:
		err = d.writer.Warning(msg)
	case core.ErrorLevel:
		err = d.writer.Err(msg)
	case core.CriticalLevel:
		err = d.writer.Crit(msg)
	default:
		err = d.writer.Info(msg)
	}
	d.mu.Unlock()

	if err != nil {
		d.stats.IncrementError()
		return err
	}
	d.stats.IncrementProcessed()
	return nil
}

// Close closes the connection to the daemon.
func (d *SyslogDestination) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writer.Close()
}

// Stats returns a snapshot of the current statistics
func (d *SyslogDestination) Stats() handler.Snapshot {
	return d.stats.GetSnapshot()
}
