package handler

import (
	"sync/atomic"

	"github.com/tzlog/tzlog/core"
)

// Stats tracks destination statistics
type Stats struct {
	// Separate atomic counters per level
	DroppedDebug    uint64
	DroppedInfo     uint64
	DroppedWarning  uint64
	DroppedError    uint64
	DroppedCritical uint64
	// ErrorTotal counts failed writes
	ErrorTotal uint64
	// ProcessedTotal counts successfully written records
	ProcessedTotal uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level
func (s *Stats) IncrementDropped(level core.Level) {
	switch level {
	case core.DebugLevel:
		atomic.AddUint64(&s.DroppedDebug, 1)
	case core.InfoLevel:
		atomic.AddUint64(&s.DroppedInfo, 1)
	case core.WarningLevel:
		atomic.AddUint64(&s.DroppedWarning, 1)
	case core.ErrorLevel:
		atomic.AddUint64(&s.DroppedError, 1)
	case core.CriticalLevel:
		atomic.AddUint64(&s.DroppedCritical, 1)
	}
}

// IncrementError atomically increments the failed-write counter
func (s *Stats) IncrementError() {
	atomic.AddUint64(&s.ErrorTotal, 1)
}

// IncrementProcessed atomically increments the processed counter
func (s *Stats) IncrementProcessed() {
	atomic.AddUint64(&s.ProcessedTotal, 1)
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	switch level {
	case core.DebugLevel:
		return atomic.LoadUint64(&s.DroppedDebug)
	case core.InfoLevel:
		return atomic.LoadUint64(&s.DroppedInfo)
	case core.WarningLevel:
		return atomic.LoadUint64(&s.DroppedWarning)
	case core.ErrorLevel:
		return atomic.LoadUint64(&s.DroppedError)
	case core.CriticalLevel:
		return atomic.LoadUint64(&s.DroppedCritical)
	default:
		return 0
	}
}

// GetErrors returns the failed-write count
func (s *Stats) GetErrors() uint64 {
	return atomic.LoadUint64(&s.ErrorTotal)
}

// GetProcessed returns the processed count
func (s *Stats) GetProcessed() uint64 {
	return atomic.LoadUint64(&s.ProcessedTotal)
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	return atomic.LoadUint64(&s.DroppedDebug) +
		atomic.LoadUint64(&s.DroppedInfo) +
		atomic.LoadUint64(&s.DroppedWarning) +
		atomic.LoadUint64(&s.DroppedError) +
		atomic.LoadUint64(&s.DroppedCritical)
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	DroppedTotal   map[core.Level]uint64
	ErrorTotal     uint64
	ProcessedTotal uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		DroppedTotal: map[core.Level]uint64{
			core.DebugLevel:    s.GetDropped(core.DebugLevel),
			core.InfoLevel:     s.GetDropped(core.InfoLevel),
			core.WarningLevel:  s.GetDropped(core.WarningLevel),
			core.ErrorLevel:    s.GetDropped(core.ErrorLevel),
			core.CriticalLevel: s.GetDropped(core.CriticalLevel),
		},
		ErrorTotal:     s.GetErrors(),
		ProcessedTotal: s.GetProcessed(),
	}
}
