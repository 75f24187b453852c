package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// BasicProvider is a simple in-memory implementation of Provider.
// It is concurrency-safe and suitable for tests, examples, and lightweight apps.
// Instruments are created on demand by name and reused for the same name.
// Instrument options are currently advisory and stored for potential introspection.
type BasicProvider struct {
	mu         sync.RWMutex
	counters   map[string]*BasicCounter
	gauges     map[string]*BasicGauge
	histograms map[string]*BasicHistogram
	meta       map[string]InstrumentConfig // optional stored metadata per name
}

// NewBasicProvider constructs a new BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   make(map[string]*BasicCounter),
		gauges:     make(map[string]*BasicGauge),
		histograms: make(map[string]*BasicHistogram),
		meta:       make(map[string]InstrumentConfig),
	}
}

// applyOptions builds InstrumentConfig from options.
func applyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// Counter returns a monotonic counter instrument for the given name (created once).
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	p.mu.RLock()
	c, ok := p.counters[name]
	if ok {
		p.mu.RUnlock()
		return c
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	// re-check after acquiring write lock
	if c, ok = p.counters[name]; ok {
		return c
	}
	p.meta[name] = applyOptions(opts)
	c = &BasicCounter{}
	p.counters[name] = c
	return c
}

// Gauge returns a point-in-time gauge instrument for the given name (created once).
func (p *BasicProvider) Gauge(name string, opts ...InstrumentOption) Gauge {
	p.mu.RLock()
	g, ok := p.gauges[name]
	if ok {
		p.mu.RUnlock()
		return g
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok = p.gauges[name]; ok {
		return g
	}
	p.meta[name] = applyOptions(opts)
	g = &BasicGauge{}
	p.gauges[name] = g
	return g
}

// Histogram returns a histogram instrument for the given name (created once).
func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	p.mu.RLock()
	h, ok := p.histograms[name]
	if ok {
		p.mu.RUnlock()
		return h
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok = p.histograms[name]; ok {
		return h
	}
	p.meta[name] = applyOptions(opts)
	h = &BasicHistogram{}
	p.histograms[name] = h
	return h
}

// BasicCounter is an atomic monotonic counter.
type BasicCounter struct {
	v atomic.Int64
}

// Add increments the counter by n; negative increments are ignored.
func (c *BasicCounter) Add(n int64) {
	if n < 0 {
		return
	}
	c.v.Add(n)
}

// Value returns the current count.
func (c *BasicCounter) Value() int64 { return c.v.Load() }

// BasicGauge is an atomic point-in-time value.
type BasicGauge struct {
	v atomic.Int64
}

// Set records the current value.
func (g *BasicGauge) Set(v int64) { g.v.Store(v) }

// Value returns the last recorded value.
func (g *BasicGauge) Value() int64 { return g.v.Load() }

// BasicHistogram accumulates count/sum/min/max of recorded measurements.
type BasicHistogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

// Record adds one measurement. NaN values are ignored.
func (h *BasicHistogram) Record(v float64) {
	if math.IsNaN(v) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		h.min, h.max = v, v
	} else {
		h.min = math.Min(h.min, v)
		h.max = math.Max(h.max, v)
	}
	h.count++
	h.sum += v
}

// Snapshot returns count, sum, min and max of the recorded measurements.
// min and max are zero when nothing was recorded.
func (h *BasicHistogram) Snapshot() (count int64, sum, min, max float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count, h.sum, h.min, h.max
}
