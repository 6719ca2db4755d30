package metrics

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/registry"
)

func TestCollector_RegistryCounters(t *testing.T) {
	reg := registry.New(registry.Config{})
	defer reg.Close()

	if err := reg.Create(registry.HandlerSpec{
		Name:     "discard",
		Level:    core.InfoLevel,
		Kind:     registry.KindConsole,
		Template: "%(message)s",
		Writer:   io.Discard,
	}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		reg.Dispatch(&core.Record{Time: time.Now(), Level: core.InfoLevel, Message: "m"})
	}

	c := NewCollector(reg)

	expected := strings.NewReader(`
# HELP tzlog_records_processed_total Records successfully written per handler.
# TYPE tzlog_records_processed_total counter
tzlog_records_processed_total{handler="discard"} 5
`)
	if err := testutil.CollectAndCompare(c, expected, "tzlog_records_processed_total"); err != nil {
		t.Error(err)
	}

	expected = strings.NewReader(`
# HELP tzlog_handlers Number of registered handlers.
# TYPE tzlog_handlers gauge
tzlog_handlers 1
`)
	if err := testutil.CollectAndCompare(c, expected, "tzlog_handlers"); err != nil {
		t.Error(err)
	}
}

func TestCollector_MinLevelGauge(t *testing.T) {
	reg := registry.New(registry.Config{})
	defer reg.Close()
	c := NewCollector(reg)

	// Empty registry reports the disabled sentinel
	expected := strings.NewReader(`
# HELP tzlog_min_level Lowest severity threshold across handlers (5 = disabled).
# TYPE tzlog_min_level gauge
tzlog_min_level 5
`)
	if err := testutil.CollectAndCompare(c, expected, "tzlog_min_level"); err != nil {
		t.Error(err)
	}

	reg.Create(registry.HandlerSpec{
		Name:   "dbg",
		Level:  core.DebugLevel,
		Kind:   registry.KindConsole,
		Writer: io.Discard,
	})

	expected = strings.NewReader(`
# HELP tzlog_min_level Lowest severity threshold across handlers (5 = disabled).
# TYPE tzlog_min_level gauge
tzlog_min_level 0
`)
	if err := testutil.CollectAndCompare(c, expected, "tzlog_min_level"); err != nil {
		t.Error(err)
	}
}

func TestCollector_Registers(t *testing.T) {
	reg := registry.New(registry.Config{})
	defer reg.Close()

	promReg := prometheus.NewPedanticRegistry()
	if err := promReg.Register(NewCollector(reg)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := promReg.Gather(); err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
}
