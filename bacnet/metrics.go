package bacnet

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a thread-safe counter
type Counter struct {
	value int64
}

// Add adds a delta to the counter
func (c *Counter) Add(delta int64) {
	atomic.AddInt64(&c.value, delta)
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	c.Add(1)
}

// Value returns the current counter value
func (c *Counter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

// Reset resets the counter to 0
func (c *Counter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}

// Gauge is a thread-safe gauge that can go up and down
type Gauge struct {
	value int64
}

// Set sets the gauge value
func (g *Gauge) Set(value int64) {
	atomic.StoreInt64(&g.value, value)
}

// SetMax raises the gauge to value if value is higher
func (g *Gauge) SetMax(value int64) {
	for {
		cur := atomic.LoadInt64(&g.value)
		if value <= cur || atomic.CompareAndSwapInt64(&g.value, cur, value) {
			return
		}
	}
}

// Value returns the current gauge value
func (g *Gauge) Value() int64 {
	return atomic.LoadInt64(&g.value)
}

// latencyBounds are the upper bounds of the histogram buckets. Decoding a
// single APDU is a matter of microseconds, so the scale starts there.
var latencyBounds = []time.Duration{
	time.Microsecond,
	5 * time.Microsecond,
	10 * time.Microsecond,
	50 * time.Microsecond,
	100 * time.Microsecond,
	500 * time.Microsecond,
	time.Millisecond,
	5 * time.Millisecond,
	10 * time.Millisecond,
}

// LatencyHistogram tracks latency measurements
type LatencyHistogram struct {
	mu      sync.RWMutex
	count   int64
	sum     int64 // nanoseconds
	min     int64
	max     int64
	buckets []int64 // one per bound plus the overflow bucket
}

// NewLatencyHistogram creates a new latency histogram
func NewLatencyHistogram() *LatencyHistogram {
	return &LatencyHistogram{
		min:     -1, // Indicates no measurements yet
		buckets: make([]int64, len(latencyBounds)+1),
	}
}

// Record records a latency measurement
func (h *LatencyHistogram) Record(d time.Duration) {
	ns := d.Nanoseconds()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.count++
	h.sum += ns

	if h.min < 0 || ns < h.min {
		h.min = ns
	}
	if ns > h.max {
		h.max = ns
	}

	i := 0
	for i < len(latencyBounds) && d >= latencyBounds[i] {
		i++
	}
	h.buckets[i]++
}

// Stats returns histogram statistics
func (h *LatencyHistogram) Stats() LatencyStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := LatencyStats{
		Count:   h.count,
		Buckets: make([]int64, len(h.buckets)),
	}
	copy(stats.Buckets, h.buckets)

	if h.count > 0 {
		stats.Min = time.Duration(h.min)
		stats.Max = time.Duration(h.max)
		stats.Avg = time.Duration(h.sum / h.count)
	}

	return stats
}

// Reset resets the histogram
func (h *LatencyHistogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.count = 0
	h.sum = 0
	h.min = -1
	h.max = 0
	for i := range h.buckets {
		h.buckets[i] = 0
	}
}

// LatencyStats contains latency statistics
type LatencyStats struct {
	Count   int64
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Buckets []int64
}

// Metrics holds codec metrics. A Metrics value may be shared by several
// decoders running concurrently.
type Metrics struct {
	ValuesDecoded Counter
	DecodeErrors  Counter
	OpaqueSkipped Counter
	BytesDecoded  Counter

	// Deepest constructed nesting seen
	MaxDepth Gauge

	DecodeLatency *LatencyHistogram

	startTime time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		DecodeLatency: NewLatencyHistogram(),
		startTime:     time.Now(),
	}
}

// Uptime returns the time since metrics started
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// Reset resets all metrics
func (m *Metrics) Reset() {
	m.ValuesDecoded.Reset()
	m.DecodeErrors.Reset()
	m.OpaqueSkipped.Reset()
	m.BytesDecoded.Reset()
	m.MaxDepth.Set(0)
	m.DecodeLatency.Reset()
	m.startTime = time.Now()
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Uptime: m.Uptime(),

		ValuesDecoded: m.ValuesDecoded.Value(),
		DecodeErrors:  m.DecodeErrors.Value(),
		OpaqueSkipped: m.OpaqueSkipped.Value(),
		BytesDecoded:  m.BytesDecoded.Value(),
		MaxDepth:      m.MaxDepth.Value(),

		LatencyStats: m.DecodeLatency.Stats(),
	}
}

// MetricsSnapshot is a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Uptime time.Duration `json:"uptime" yaml:"uptime"`

	ValuesDecoded int64 `json:"values_decoded" yaml:"values_decoded"`
	DecodeErrors  int64 `json:"decode_errors" yaml:"decode_errors"`
	OpaqueSkipped int64 `json:"opaque_skipped" yaml:"opaque_skipped"`
	BytesDecoded  int64 `json:"bytes_decoded" yaml:"bytes_decoded"`
	MaxDepth      int64 `json:"max_depth" yaml:"max_depth"`

	LatencyStats LatencyStats `json:"latency" yaml:"latency"`
}
