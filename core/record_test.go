package core

import (
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarningLevel, "WARNING"},
		{ErrorLevel, "ERROR"},
		{CriticalLevel, "CRITICAL"},
		{DisabledLevel, "DISABLED"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarningLevel},
		{"Warning", WarningLevel},
		{"ERROR", ErrorLevel},
		{"critical", CriticalLevel},
		{"fatal", CriticalLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	ordered := []Level{DebugLevel, InfoLevel, WarningLevel, ErrorLevel, CriticalLevel, DisabledLevel}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Errorf("expected %v < %v", ordered[i-1], ordered[i])
		}
	}
}

func TestRecordPool(t *testing.T) {
	r1 := GetRecord()
	if r1 == nil {
		t.Fatal("GetRecord() returned nil")
	}

	if len(r1.Fields) != 0 {
		t.Errorf("Expected empty fields, got %d", len(r1.Fields))
	}

	r1.Message = "test"
	r1.Fields = append(r1.Fields, Field{Key: "test", Str: "value"})

	PutRecord(r1)

	r2 := GetRecord()
	if r2 == nil {
		t.Fatal("GetRecord() returned nil after PutRecord()")
	}

	if r2.Message != "" {
		t.Errorf("Expected empty message after pool reset, got %q", r2.Message)
	}
	if len(r2.Fields) != 0 {
		t.Errorf("Expected empty fields after pool reset, got %d", len(r2.Fields))
	}
}

func TestGetCaller(t *testing.T) {
	caller := GetCaller(0)
	if !caller.Defined {
		t.Fatal("GetCaller() returned undefined CallerInfo")
	}

	if caller.File == "" {
		t.Error("Expected non-empty file")
	}
	if caller.ShortFile == "" {
		t.Error("Expected non-empty short file")
	}
	if caller.Line == 0 {
		t.Error("Expected non-zero line number")
	}
	if caller.Function == "" {
		t.Error("Expected non-empty function name")
	}
}

func BenchmarkGetRecord(b *testing.B) {
	for i := 0; i < b.N; i++ {
		r := GetRecord()
		PutRecord(r)
	}
}
