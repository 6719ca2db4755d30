package handler

import (
	"time"

	"github.com/tzlog/tzlog/core"
)

// Destination is a sink for rendered log records. The registry applies
// the handler's threshold, filters, and formatter, then hands the
// record and its rendered line to the destination. Destinations own
// their internal synchronization; Write is safe for concurrent use.
//
// The rendered line is only valid for the duration of the call;
// destinations that retain it (e.g. for asynchronous delivery) must
// copy it.
type Destination interface {
	// Write delivers one rendered record
	Write(rec *core.Record, line []byte) error

	// Close releases the destination's resources
	Close() error
}

// StatsProvider is an optional interface destinations implement to
// expose their counters.
type StatsProvider interface {
	Stats() Snapshot
}

// NewStoppedTimer returns a stopped timer ready for Reset, avoiding
// the allocation of a throwaway duration on first use.
func NewStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}
