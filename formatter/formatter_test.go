package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tzlog/tzlog/core"
)

func testRecord() *core.Record {
	return &core.Record{
		Time:    time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Level:   core.InfoLevel,
		Message: "test message",
		Caller: core.CallerInfo{
			File:      "/src/app/main.go",
			ShortFile: "main.go",
			Line:      42,
			Function:  "main.run",
			Defined:   true,
		},
	}
}

func TestTemplateFormatter_Default(t *testing.T) {
	f := NewTemplateFormatter(TemplateConfig{})
	out, err := f.Format(testRecord())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := string(out)
	want := "2025-03-14T09:26:53Z - INFO - test message\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestTemplateFormatter_Simple(t *testing.T) {
	f := NewTemplateFormatter(TemplateConfig{Template: FormatSimple})
	out, _ := f.Format(testRecord())

	got := string(out)
	if !strings.HasPrefix(got, "[INFO] ") {
		t.Errorf("expected level prefix, got %q", got)
	}
	if !strings.Contains(got, "test message") {
		t.Errorf("expected message, got %q", got)
	}
}

func TestTemplateFormatter_Standard(t *testing.T) {
	f := NewTemplateFormatter(TemplateConfig{Template: FormatStandard})
	out, _ := f.Format(testRecord())

	got := string(out)
	for _, want := range []string{"[INFO]", "/src/app/main.go", "main.run", "Line: 42", "test message"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got %q", want, got)
		}
	}
}

func TestTemplateFormatter_Detailed(t *testing.T) {
	f := NewTemplateFormatter(TemplateConfig{Template: FormatDetailed})
	out, _ := f.Format(testRecord())

	got := string(out)
	if strings.Count(got, "------------------------------------") != 2 {
		t.Errorf("expected bordered block, got %q", got)
	}
	if !strings.Contains(got, "Line Number:   42") {
		t.Errorf("expected line number, got %q", got)
	}
}

func TestTemplateFormatter_CustomTemplate(t *testing.T) {
	f := NewTemplateFormatter(TemplateConfig{Template: "%(filename)s:%(lineno)d %(message)s"})
	out, _ := f.Format(testRecord())

	got := string(out)
	if got != "main.go:42 test message\n" {
		t.Errorf("Format() = %q", got)
	}
}

func TestTemplateFormatter_UnknownPlaceholder(t *testing.T) {
	f := NewTemplateFormatter(TemplateConfig{Template: "%(bogus)s %(message)s"})
	out, _ := f.Format(testRecord())

	got := string(out)
	if got != "%(bogus)s test message\n" {
		t.Errorf("unknown placeholder should stay literal, got %q", got)
	}
}

func TestTemplateFormatter_Fields(t *testing.T) {
	f := NewTemplateFormatter(TemplateConfig{Template: "%(message)s"})
	rec := testRecord()
	rec.Fields = append(rec.Fields,
		core.Field{Key: "user", Type: core.StringType, Str: "alice"},
		core.Field{Key: "count", Type: core.IntType, Int64: 3},
	)
	out, _ := f.Format(rec)

	got := string(out)
	if got != "test message user=alice count=3\n" {
		t.Errorf("Format() = %q", got)
	}
}

func TestJSONFormatter_FixedKeys(t *testing.T) {
	f := NewJSONFormatter(JSONConfig{})
	out, err := f.Format(testRecord())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if parsed["level"] != "INFO" {
		t.Errorf("level = %v", parsed["level"])
	}
	if parsed["message"] != "test message" {
		t.Errorf("message = %v", parsed["message"])
	}
	if parsed["file"] != "/src/app/main.go" {
		t.Errorf("file = %v", parsed["file"])
	}
	if parsed["line"] != float64(42) {
		t.Errorf("line = %v", parsed["line"])
	}
}

func TestJSONFormatter_ExtraFields(t *testing.T) {
	f := NewJSONFormatter(JSONConfig{
		ExtraFields: map[string]interface{}{
			"app":     "test_app",
			"shard":   7,
			"level":   "SHOULD_NOT_APPEAR", // collides with a fixed key
			"message": "SHOULD_NOT_APPEAR",
		},
	})
	out, _ := f.Format(testRecord())

	var parsed map[string]interface{}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if parsed["app"] != "test_app" {
		t.Errorf("app = %v", parsed["app"])
	}
	if parsed["shard"] != float64(7) {
		t.Errorf("shard = %v", parsed["shard"])
	}
	// Fixed keys win over extras
	if parsed["level"] != "INFO" {
		t.Errorf("level overridden by extra field: %v", parsed["level"])
	}
	if parsed["message"] != "test message" {
		t.Errorf("message overridden by extra field: %v", parsed["message"])
	}
}

func TestJSONFormatter_Escaping(t *testing.T) {
	f := NewJSONFormatter(JSONConfig{})
	rec := testRecord()
	rec.Message = "line1\nline2 \"quoted\" \\slash\ttab"
	out, _ := f.Format(rec)

	var parsed map[string]interface{}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if parsed["message"] != rec.Message {
		t.Errorf("message = %q, want %q", parsed["message"], rec.Message)
	}
}

func TestJSONFormatter_RecordFields(t *testing.T) {
	f := NewJSONFormatter(JSONConfig{})
	rec := testRecord()
	rec.Fields = append(rec.Fields,
		core.Field{Key: "ok", Type: core.BoolType, Int64: 1},
		core.Field{Key: "ratio", Type: core.Float64Type, Float64: 0.5},
	)
	out, _ := f.Format(rec)

	var parsed map[string]interface{}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if parsed["ok"] != true {
		t.Errorf("ok = %v", parsed["ok"])
	}
	if parsed["ratio"] != 0.5 {
		t.Errorf("ratio = %v", parsed["ratio"])
	}
}

func TestJSONFormatter_SingleLine(t *testing.T) {
	f := NewJSONFormatter(JSONConfig{})
	out, _ := f.Format(testRecord())

	body := strings.TrimSuffix(string(out), "\n")
	if strings.Contains(body, "\n") {
		t.Errorf("expected single-line JSON, got %q", out)
	}
}

func BenchmarkTemplateFormatter(b *testing.B) {
	f := NewTemplateFormatter(TemplateConfig{Template: FormatStandard})
	rec := testRecord()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format(rec)
	}
}

func BenchmarkJSONFormatter(b *testing.B) {
	f := NewJSONFormatter(JSONConfig{ExtraFields: map[string]interface{}{"app": "bench"}})
	rec := testRecord()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format(rec)
	}
}
