package remotehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/diag"
	"github.com/tzlog/tzlog/handler"
)

// RemoteConfig holds configuration for the remote HTTP destination
type RemoteConfig struct {
	// URL of the log collection endpoint
	URL string
	// Method is the HTTP method (default: POST)
	Method string
	// Client is the HTTP client to use (default: http.DefaultClient)
	Client *http.Client
	// Timeout bounds each delivery attempt, independent of the retry
	// backoff timer (default: 300s)
	Timeout time.Duration
	// QueueSize is the delivery queue capacity (default: 1000)
	QueueSize int
	// MaxAttempts is the total number of delivery attempts per entry
	// before it is abandoned (default: 3)
	MaxAttempts int
	// BackoffBase is the delay before the first retry; it doubles on
	// each subsequent retry (default: 1s)
	BackoffBase time.Duration
	// DrainTimeout bounds the shutdown drain of queued entries (default: 5s)
	DrainTimeout time.Duration
	// Name identifies the handler in diagnostics
	Name string
	// Reporter receives drop and abandon events (default: diag.Nop())
	Reporter *diag.Reporter
}

// applyRemoteDefaults fills in zero-value fields with defaults.
func applyRemoteDefaults(cfg *RemoteConfig) {
	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.Reporter == nil {
		cfg.Reporter = diag.Nop()
	}
}

// RemoteDestination ships rendered log lines to an HTTP endpoint, one
// request per entry, decoupled from the caller by a bounded queue and
// a single consumer goroutine.
//
// Entries move through the states Queued, InFlight, and finally
// Delivered, Dropped (queue full at enqueue time), or Abandoned
// (retries exhausted). Entries are attempted in FIFO enqueue order;
// completion order is not guaranteed once retries are involved, since
// a later entry may finish while an earlier one is still backing off.
type RemoteDestination struct {
	url          string
	method       string
	client       *http.Client
	timeout      time.Duration
	maxAttempts  int
	backoffBase  time.Duration
	drainTimeout time.Duration
	name         string
	reporter     *diag.Reporter

	queue  *Queue
	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once

	stats     *handler.Stats
	delivered uint64
	abandoned uint64
	attempts  uint64
}

// New creates a remote destination and starts its delivery worker.
func New(cfg RemoteConfig) (*RemoteDestination, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote URL is required")
	}
	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		return nil, fmt.Errorf("invalid remote URL %q", cfg.URL)
	}
	applyRemoteDefaults(&cfg)

	d := &RemoteDestination{
		url:          cfg.URL,
		method:       strings.ToUpper(cfg.Method),
		client:       cfg.Client,
		timeout:      cfg.Timeout,
		maxAttempts:  cfg.MaxAttempts,
		backoffBase:  cfg.BackoffBase,
		drainTimeout: cfg.DrainTimeout,
		name:         cfg.Name,
		reporter:     cfg.Reporter,
		queue:        NewQueue(cfg.QueueSize),
		closed:       make(chan struct{}),
		stats:        handler.NewStats(),
	}

	d.wg.Add(1)
	go d.worker()

	return d, nil
}

// Write enqueues one rendered line for asynchronous delivery. It never
// blocks and never returns a delivery error: a full queue drops the
// entry, counts it, and reports it through the diagnostics channel.
func (d *RemoteDestination) Write(rec *core.Record, line []byte) error {
	select {
	case <-d.closed:
		d.stats.IncrementDropped(rec.Level)
		return nil
	default:
	}

	e := &Entry{
		ID:    uuid.NewString(),
		Level: rec.Level,
		Line:  string(line),
	}

	if !d.queue.TryEnqueue(e) {
		d.stats.IncrementDropped(rec.Level)
		d.reporter.QueueFull(d.name, e.ID, rec.Level)
	}
	return nil
}

// worker is the single consumer: it drains the queue for the lifetime
// of the destination and performs network delivery with retries.
func (d *RemoteDestination) worker() {
	defer d.wg.Done()

	backoff := handler.NewStoppedTimer()
	defer backoff.Stop()

	for {
		e, ok := d.queue.Dequeue(d.closed)
		if !ok {
			d.drain()
			return
		}
		d.deliver(e, backoff)
	}
}

// drain attempts the remaining queued entries once each (no retries)
// until the queue is empty or the drain timeout expires. Each attempt
// is capped by the time left until the drain deadline, so the whole
// drain is bounded by DrainTimeout regardless of queue depth or
// endpoint latency. Entries past the deadline are abandoned.
func (d *RemoteDestination) drain() {
	deadline := time.Now().Add(d.drainTimeout)
	for {
		e, ok := d.queue.TryDequeue()
		if !ok {
			return
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			atomic.AddUint64(&d.abandoned, 1)
			d.reporter.Abandoned(d.name, e.ID, 0, fmt.Errorf("shutdown drain timeout"))
			continue
		}
		timeout := d.timeout
		if remaining < timeout {
			timeout = remaining
		}
		if err := d.send(e, timeout); err != nil {
			atomic.AddUint64(&d.abandoned, 1)
			d.reporter.Abandoned(d.name, e.ID, 1, err)
			continue
		}
		atomic.AddUint64(&d.delivered, 1)
		d.stats.IncrementProcessed()
	}
}

// deliver performs up to maxAttempts delivery attempts with exponential
// backoff between them, then abandons the entry.
func (d *RemoteDestination) deliver(e *Entry, backoff *time.Timer) {
	var lastErr error

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if attempt > 1 {
			// 1x, 2x, 4x ... the base delay
			delay := d.backoffBase << (attempt - 2)
			backoff.Reset(delay)
			select {
			case <-backoff.C:
			case <-d.closed:
				if !backoff.Stop() {
					<-backoff.C
				}
				// Shutting down mid-retry: abandon rather than hold
				// up the drain.
				atomic.AddUint64(&d.abandoned, 1)
				d.reporter.Abandoned(d.name, e.ID, attempt-1, lastErr)
				return
			}
		}

		atomic.AddUint64(&d.attempts, 1)
		lastErr = d.send(e, d.timeout)
		if lastErr == nil {
			atomic.AddUint64(&d.delivered, 1)
			d.stats.IncrementProcessed()
			return
		}
	}

	atomic.AddUint64(&d.abandoned, 1)
	d.stats.IncrementError()
	d.reporter.Abandoned(d.name, e.ID, d.maxAttempts, lastErr)
}

// send performs one HTTP delivery attempt bounded by timeout. Only
// status 200 counts as success; any transport error or other status
// triggers a retry.
func (d *RemoteDestination) send(e *Entry, timeout time.Duration) error {
	body, err := json.Marshal(struct {
		Log string `json:"log"`
	}{Log: e.Line})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, d.method, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote returned status %d", resp.StatusCode)
	}
	return nil
}

// Close stops the worker, draining queued entries within the
// configured drain timeout. Safe to call more than once.
func (d *RemoteDestination) Close() error {
	d.once.Do(func() {
		close(d.closed)
	})
	d.wg.Wait()
	return nil
}

// Stats returns a snapshot of the queue statistics
func (d *RemoteDestination) Stats() handler.Snapshot {
	return d.stats.GetSnapshot()
}

// DeliverySnapshot is a point-in-time copy of the delivery counters
type DeliverySnapshot struct {
	Delivered uint64
	Abandoned uint64
	Attempts  uint64
	Queued    int
}

// DeliveryStats returns a snapshot of the delivery counters
func (d *RemoteDestination) DeliveryStats() DeliverySnapshot {
	return DeliverySnapshot{
		Delivered: atomic.LoadUint64(&d.delivered),
		Abandoned: atomic.LoadUint64(&d.abandoned),
		Attempts:  atomic.LoadUint64(&d.attempts),
		Queued:    d.queue.Len(),
	}
}
