package core

import (
	"errors"
	"testing"
	"time"
)

func TestField_StringValue(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"string", Field{Type: StringType, Str: "hello"}, "hello"},
		{"int", Field{Type: IntType, Int64: 42}, "42"},
		{"int64", Field{Type: Int64Type, Int64: -1234567890}, "-1234567890"},
		{"float64", Field{Type: Float64Type, Float64: 3.14}, "3.14"},
		{"bool true", Field{Type: BoolType, Int64: 1}, "true"},
		{"bool false", Field{Type: BoolType, Int64: 0}, "false"},
		{"time", Field{Type: TimeType, Int64: ts.UnixNano()}, ts.Local().Format(time.RFC3339)},
		{"duration", Field{Type: DurationType, Int64: int64(5 * time.Second)}, "5s"},
		{"error", Field{Type: ErrorType, Str: errors.New("broken pipe").Error()}, "broken pipe"},
		{"any", Field{Type: AnyType, Any: []int{1, 2}}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.StringValue(); got != tt.want {
				t.Errorf("StringValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestField_AppendValue(t *testing.T) {
	f := Field{Type: IntType, Int64: 7}

	// Appends to the given slice rather than replacing it
	got := f.AppendValue([]byte("n="))
	if string(got) != "n=7" {
		t.Errorf("AppendValue() = %q, want %q", got, "n=7")
	}

	// nil base works too
	if got := f.AppendValue(nil); string(got) != "7" {
		t.Errorf("AppendValue(nil) = %q", got)
	}
}

func BenchmarkFieldAppendValue(b *testing.B) {
	fields := []Field{
		{Type: StringType, Str: "test"},
		{Type: IntType, Int64: 42},
		{Type: BoolType, Int64: 1},
		{Type: Float64Type, Float64: 3.14},
	}
	buf := make([]byte, 0, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, f := range fields {
			buf = f.AppendValue(buf[:0])
		}
	}
}
