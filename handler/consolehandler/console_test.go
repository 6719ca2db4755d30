package consolehandler

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tzlog/tzlog/core"
)

func rec(lvl core.Level) *core.Record {
	return &core.Record{Time: time.Now(), Level: lvl, Message: "m"}
}

func TestConsole_Write(t *testing.T) {
	var buf bytes.Buffer
	d := New(ConsoleConfig{Writer: &buf})

	if err := d.Write(rec(core.InfoLevel), []byte("line one\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := d.Write(rec(core.ErrorLevel), []byte("line two\n")); err != nil {
		t.Fatal(err)
	}

	if got := buf.String(); got != "line one\nline two\n" {
		t.Errorf("output = %q", got)
	}
	if snap := d.Stats(); snap.ProcessedTotal != 2 {
		t.Errorf("ProcessedTotal = %d, want 2", snap.ProcessedTotal)
	}
}

func TestConsole_DefaultWriterIsStderr(t *testing.T) {
	d := New(ConsoleConfig{})
	if d.writer != os.Stderr {
		t.Error("default writer is not stderr")
	}
}

type errorWriter struct{}

func (errorWriter) Write(p []byte) (int, error) { return 0, fmt.Errorf("refused") }

func TestConsole_WriteErrorCounted(t *testing.T) {
	d := New(ConsoleConfig{Writer: errorWriter{}})

	if err := d.Write(rec(core.InfoLevel), []byte("x")); err == nil {
		t.Fatal("expected write error")
	}
	if snap := d.Stats(); snap.ErrorTotal != 1 {
		t.Errorf("ErrorTotal = %d, want 1", snap.ErrorTotal)
	}
}

func TestConsole_ConcurrentSafeDetection(t *testing.T) {
	if !isConcurrentSafeWriter(io.Discard) {
		t.Error("io.Discard should be concurrent safe")
	}
	if !isConcurrentSafeWriter(os.Stdout) {
		t.Error("*os.File should be concurrent safe")
	}
	if isConcurrentSafeWriter(&bytes.Buffer{}) {
		t.Error("bytes.Buffer is not concurrent safe")
	}
}

func TestConsole_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	d := New(ConsoleConfig{Writer: &buf})

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 50; i++ {
				d.Write(rec(core.InfoLevel), []byte("concurrent\n"))
			}
		}()
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	if got := strings.Count(buf.String(), "concurrent\n"); got != 400 {
		t.Errorf("wrote %d lines, want 400", got)
	}
}

func TestConsole_CloseIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	d := New(ConsoleConfig{Writer: &buf})
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	// Writer still usable after Close
	if err := d.Write(rec(core.InfoLevel), []byte("after close\n")); err != nil {
		t.Fatal(err)
	}
}
