package filehandler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/handler"
)

// FileConfig holds configuration for the file destination
type FileConfig struct {
	// Filename is the path to the log file
	Filename string
	// MaxSize is the size in bytes that triggers rotation (0 = no size rotation)
	MaxSize int64
	// RotateInterval is the interval for time-based rotation (0 = no time rotation)
	RotateInterval time.Duration
	// MaxBackups is the number of rotated files to retain. With size
	// rotation, 0 means the file is truncated in place instead of
	// renamed. With time rotation, 0 keeps all backups.
	MaxBackups int
}

// FileDestination writes rendered lines to a file, rotating it when a
// size or time trigger fires. Size rotation renames the current file
// through a numbered backup chain (file.1 .. file.K, oldest discarded);
// time rotation renames it with a timestamp suffix and prunes backups
// beyond MaxBackups. Rotation happens under the same mutex as writes,
// so an in-progress write always completes against the pre-rotation
// handle and the next write opens the fresh file.
type FileDestination struct {
	mu             sync.Mutex
	filename       string
	file           *os.File
	maxSize        int64
	rotateInterval time.Duration
	maxBackups     int
	currentSize    int64
	lastRotate     time.Time
	stats          *handler.Stats
	closed         bool
}

// New creates a file destination, creating the parent directory as
// needed. Size and time rotation are mutually exclusive.
func New(cfg FileConfig) (*FileDestination, error) {
	if cfg.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}
	if cfg.MaxSize > 0 && cfg.RotateInterval > 0 {
		return nil, fmt.Errorf("size and time rotation are mutually exclusive")
	}

	dir := filepath.Dir(cfg.Filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	return &FileDestination{
		filename:       cfg.Filename,
		file:           file,
		maxSize:        cfg.MaxSize,
		rotateInterval: cfg.RotateInterval,
		maxBackups:     cfg.MaxBackups,
		currentSize:    info.Size(),
		lastRotate:     time.Now(),
		stats:          handler.NewStats(),
	}, nil
}

// Write writes one rendered line, rotating first if a trigger fired.
func (d *FileDestination) Write(rec *core.Record, line []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return fmt.Errorf("file destination closed: %s", d.filename)
	}

	if err := d.rotateIfNeeded(int64(len(line))); err != nil {
		d.stats.IncrementError()
		return err
	}

	n, err := d.file.Write(line)
	d.currentSize += int64(n)
	if err != nil {
		d.stats.IncrementError()
		return err
	}
	d.stats.IncrementProcessed()
	return nil
}

// rotateIfNeeded checks the triggers and rotates. Caller holds d.mu.
func (d *FileDestination) rotateIfNeeded(incoming int64) error {
	if d.maxSize > 0 && d.currentSize > 0 && d.currentSize+incoming > d.maxSize {
		return d.rotateBySize()
	}
	if d.rotateInterval > 0 && time.Since(d.lastRotate) >= d.rotateInterval {
		return d.rotateByTime()
	}
	return nil
}

// rotateBySize shifts the numbered backup chain: file.K is discarded,
// file.i becomes file.i+1, and the live file becomes file.1. With
// MaxBackups == 0 the live file is truncated instead.
func (d *FileDestination) rotateBySize() error {
	if err := d.file.Sync(); err != nil {
		return err
	}
	if err := d.file.Close(); err != nil {
		return err
	}

	if d.maxBackups > 0 {
		oldest := fmt.Sprintf("%s.%d", d.filename, d.maxBackups)
		if _, err := os.Stat(oldest); err == nil {
			if err := os.Remove(oldest); err != nil {
				return err
			}
		}
		for i := d.maxBackups - 1; i >= 1; i-- {
			src := fmt.Sprintf("%s.%d", d.filename, i)
			if _, err := os.Stat(src); err != nil {
				continue
			}
			if err := os.Rename(src, fmt.Sprintf("%s.%d", d.filename, i+1)); err != nil {
				return err
			}
		}
		if err := os.Rename(d.filename, d.filename+".1"); err != nil {
			return d.reopen(err)
		}
	}

	file, err := os.OpenFile(d.filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	d.file = file
	d.currentSize = 0
	d.lastRotate = time.Now()
	return nil
}

// rotateByTime renames the live file with a timestamp suffix and prunes
// old timestamped backups beyond MaxBackups.
func (d *FileDestination) rotateByTime() error {
	if err := d.file.Sync(); err != nil {
		return err
	}
	if err := d.file.Close(); err != nil {
		return err
	}

	timestamp := time.Now().Format("2006-01-02T15-04-05.000")
	rotatedName := fmt.Sprintf("%s.%s", d.filename, timestamp)
	if err := os.Rename(d.filename, rotatedName); err != nil {
		return d.reopen(err)
	}

	if d.maxBackups > 0 {
		d.cleanupOldBackups()
	}

	file, err := os.OpenFile(d.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	d.file = file
	d.currentSize = 0
	d.lastRotate = time.Now()
	return nil
}

// reopen tries to restore the live file after a failed rename so that
// logging can continue; the rename error is still returned.
func (d *FileDestination) reopen(renameErr error) error {
	file, openErr := os.OpenFile(d.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if openErr != nil {
		return fmt.Errorf("rotation failed: %v, reopen failed: %v", renameErr, openErr)
	}
	d.file = file
	return renameErr
}

// cleanupOldBackups removes timestamped backups beyond MaxBackups,
// oldest first.
func (d *FileDestination) cleanupOldBackups() {
	dir := filepath.Dir(d.filename)
	base := filepath.Base(d.filename)

	pattern := filepath.Join(dir, base+".*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}

	var backups []string
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), base+".") {
			backups = append(backups, match)
		}
	}

	// Sort by modification time (oldest first)
	sort.Slice(backups, func(i, j int) bool {
		infoI, errI := os.Stat(backups[i])
		infoJ, errJ := os.Stat(backups[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})

	if len(backups) > d.maxBackups {
		for _, file := range backups[:len(backups)-d.maxBackups] {
			if err := os.Remove(file); err != nil {
				return
			}
		}
	}
}

// Close syncs and closes the underlying file.
func (d *FileDestination) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.file != nil {
		if err := d.file.Sync(); err != nil {
			d.file.Close()
			return err
		}
		return d.file.Close()
	}
	return nil
}

// Stats returns a snapshot of the current statistics
func (d *FileDestination) Stats() handler.Snapshot {
	return d.stats.GetSnapshot()
}
