package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tzlog/tzlog/registry"
)

// Collector exposes registry and delivery counters as Prometheus
// metrics. It reads the registry's snapshots at scrape time, so it
// adds no cost to the logging hot path.
type Collector struct {
	reg *registry.Registry

	handlers  *prometheus.Desc
	minLevel  *prometheus.Desc
	processed *prometheus.Desc
	errors    *prometheus.Desc
	dropped   *prometheus.Desc

	delivered *prometheus.Desc
	abandoned *prometheus.Desc
	attempts  *prometheus.Desc
	queued    *prometheus.Desc
}

// NewCollector creates a collector over reg. Register it with a
// prometheus.Registerer to expose the metrics.
func NewCollector(reg *registry.Registry) *Collector {
	return &Collector{
		reg: reg,
		handlers: prometheus.NewDesc(
			"tzlog_handlers",
			"Number of registered handlers.",
			nil, nil,
		),
		minLevel: prometheus.NewDesc(
			"tzlog_min_level",
			"Lowest severity threshold across handlers (5 = disabled).",
			nil, nil,
		),
		processed: prometheus.NewDesc(
			"tzlog_records_processed_total",
			"Records successfully written per handler.",
			[]string{"handler"}, nil,
		),
		errors: prometheus.NewDesc(
			"tzlog_write_errors_total",
			"Failed destination writes per handler.",
			[]string{"handler"}, nil,
		),
		dropped: prometheus.NewDesc(
			"tzlog_records_dropped_total",
			"Records dropped per handler and level.",
			[]string{"handler", "level"}, nil,
		),
		delivered: prometheus.NewDesc(
			"tzlog_remote_delivered_total",
			"Entries delivered to the remote endpoint per handler.",
			[]string{"handler"}, nil,
		),
		abandoned: prometheus.NewDesc(
			"tzlog_remote_abandoned_total",
			"Entries abandoned after exhausting retries per handler.",
			[]string{"handler"}, nil,
		),
		attempts: prometheus.NewDesc(
			"tzlog_remote_attempts_total",
			"Delivery attempts per handler.",
			[]string{"handler"}, nil,
		),
		queued: prometheus.NewDesc(
			"tzlog_remote_queue_depth",
			"Entries currently queued for delivery per handler.",
			[]string{"handler"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.handlers
	ch <- c.minLevel
	ch <- c.processed
	ch <- c.errors
	ch <- c.dropped
	ch <- c.delivered
	ch <- c.abandoned
	ch <- c.attempts
	ch <- c.queued
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.handlers, prometheus.GaugeValue, float64(len(c.reg.List())))
	ch <- prometheus.MustNewConstMetric(
		c.minLevel, prometheus.GaugeValue, float64(c.reg.MinLevel()))

	for name, snap := range c.reg.Stats() {
		ch <- prometheus.MustNewConstMetric(
			c.processed, prometheus.CounterValue, float64(snap.ProcessedTotal), name)
		ch <- prometheus.MustNewConstMetric(
			c.errors, prometheus.CounterValue, float64(snap.ErrorTotal), name)
		for lvl, count := range snap.DroppedTotal {
			if count == 0 {
				continue
			}
			ch <- prometheus.MustNewConstMetric(
				c.dropped, prometheus.CounterValue, float64(count), name, lvl.String())
		}
	}

	for name, snap := range c.reg.DeliveryStats() {
		ch <- prometheus.MustNewConstMetric(
			c.delivered, prometheus.CounterValue, float64(snap.Delivered), name)
		ch <- prometheus.MustNewConstMetric(
			c.abandoned, prometheus.CounterValue, float64(snap.Abandoned), name)
		ch <- prometheus.MustNewConstMetric(
			c.attempts, prometheus.CounterValue, float64(snap.Attempts), name)
		ch <- prometheus.MustNewConstMetric(
			c.queued, prometheus.GaugeValue, float64(snap.Queued), name)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
