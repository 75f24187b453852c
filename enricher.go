package enrich

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/enrich/metrics"
)

// runState tracks the controller state machine: idle (no run), running (one
// active run), draining (Close requested, waiting for the current Process
// call to finish).
type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateDraining
)

// Enricher coordinates background materialization for one collection.
// It owns the work queue and the current drain run; methods are safe for
// concurrent use. Construct via New; always call Close for deterministic
// teardown; an unclosed enricher keeps its notifier goroutine alive.
type Enricher[E comparable] struct {
	// noCopy prevents accidental copying of the controller.
	nc noCopy

	config *config
	proc   Processor[E]
	coll   *Collection[E]
	hooks  Listener[E]

	once      sync.Once
	closeOnce sync.Once

	// internal lifecycle control
	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool

	queue *workQueue[E]

	// channels
	completions chan completion[E]
	events      chan Event[E]
	errors      chan error

	// guards state, run and closed
	mu     sync.Mutex
	state  runState
	run    *workerRun[E]
	closed bool

	workerWG   sync.WaitGroup
	notifierWG sync.WaitGroup

	mx *instruments
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
// It works with the "-copylocks" analyzer via the presence of Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// instruments bundles the enricher's metric handles.
type instruments struct {
	offered         metrics.Counter
	processed       metrics.Counter
	discarded       metrics.Counter
	failed          metrics.Counter
	runs            metrics.Counter
	queueDepth      metrics.Gauge
	processDuration metrics.Histogram
}

func newInstruments(p metrics.Provider) *instruments {
	return &instruments{
		offered:         p.Counter("enrich.offered", metrics.WithUnit("1")),
		processed:       p.Counter("enrich.processed", metrics.WithUnit("1")),
		discarded:       p.Counter("enrich.discarded", metrics.WithDescription("stale results dropped")),
		failed:          p.Counter("enrich.failed", metrics.WithDescription("process invocations returning an error")),
		runs:            p.Counter("enrich.runs", metrics.WithDescription("drain runs started")),
		queueDepth:      p.Gauge("enrich.queue.depth", metrics.WithUnit("1")),
		processDuration: p.Histogram("enrich.process.duration", metrics.WithUnit("seconds")),
	}
}

// New creates an Enricher bound to coll, using functional options.
// The enricher subscribes to the collection's structural changes and queues
// every element already present. If WithStartImmediately is set, Start(ctx)
// is called before returning.
func New[E comparable](
	ctx context.Context, coll *Collection[E], proc Processor[E], opts ...Option,
) (*Enricher[E], error) {
	if coll == nil {
		return nil, ErrNilCollection
	}
	if proc == nil {
		return nil, ErrNilProcessor
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	e := &Enricher[E]{
		config:      &cfg,
		proc:        proc,
		coll:        coll,
		queue:       newWorkQueue[E](),
		completions: make(chan completion[E], cfg.EventsBufferSize),
		events:      make(chan Event[E], cfg.EventsBufferSize),
		errors:      make(chan error, cfg.ErrorsBufferSize),
		mx:          newInstruments(cfg.Metrics),
	}
	e.hooks = collectionHooks[E]{e: e}
	coll.Subscribe(e.hooks)

	for _, element := range coll.Elements() {
		if e.queue.offer(element) {
			e.mx.offered.Add(1)
		}
	}
	e.mx.queueDepth.Set(int64(e.queue.length()))

	if cfg.StartImmediately {
		e.Start(ctx)
	}
	return e, nil
}

// Start begins serving the backlog. Before Start, offers and collection
// mutations only accumulate queue entries. Safe to call once; subsequent
// calls are no-ops.
func (e *Enricher[E]) Start(ctx context.Context) {
	e.once.Do(func() {
		e.ctx, e.cancel = context.WithCancel(ctx)
		n := newNotifier(e.completions, e.events, e.coll)
		e.notifierWG.Add(1)
		go func() {
			defer e.notifierWG.Done()
			n.run()
		}()
		e.started.Store(true)
		e.maybeStart()
	})
}

// Offer queues element for materialization, or refreshes its priority if it
// is already queued. Zero-value elements are ignored. Starting a drain run
// is implicit: offering to an idle, started enricher begins one.
func (e *Enricher[E]) Offer(element E) error {
	var zero E
	if element == zero {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	// Closed check and offer share the lock: an offer racing Close must not
	// land an entry after the queue is cleared.
	if e.closed {
		return ErrClosed
	}
	if e.queue.offer(element) {
		e.mx.offered.Add(1)
	}
	e.mx.queueDepth.Set(int64(e.queue.length()))
	e.maybeStartLocked()
	return nil
}

// Touch promotes a still-pending element to the front of the backlog, e.g.
// when it is scrolled into view. Elements that are not queued (already
// materialized, or currently being processed) are left alone.
func (e *Enricher[E]) Touch(element E) {
	var zero E
	if element == zero {
		return
	}
	if e.queue.touch(element) {
		e.maybeStart()
	}
}

// Remove drops element from the backlog if queued; idempotent.
func (e *Enricher[E]) Remove(element E) {
	if e.queue.remove(element) {
		e.mx.queueDepth.Set(int64(e.queue.length()))
	}
}

// Pending returns the number of queued elements awaiting materialization.
func (e *Enricher[E]) Pending() int { return e.queue.length() }

// GetEvents returns the channel delivering Processed, RangeChanged and Done
// notifications. It is closed by Close.
func (e *Enricher[E]) GetEvents() chan Event[E] { return e.events }

// GetErrors returns the channel delivering Process failures. It is closed by Close.
func (e *Enricher[E]) GetErrors() chan error { return e.errors }

// Close cancels any active run, waits for the in-flight Process call to
// finish, clears the queue and closes the events and errors channels.
// Idempotent and safe for concurrent use. No notifications are delivered
// after the events channel is closed.
func (e *Enricher[E]) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		if e.run != nil {
			e.state = stateDraining
		}
		r := e.run
		e.mu.Unlock()

		e.coll.Unsubscribe(e.hooks)

		lc := newLifecycleCoordinator(
			func() {
				if r != nil {
					r.cancel()
				}
			},
			func() {
				if e.cancel != nil {
					e.cancel()
				}
			},
			&e.workerWG,
			func() {
				e.queue.clear()
				e.mx.queueDepth.Set(0)
			},
			func() { close(e.completions) },
			&e.notifierWG,
			func() { close(e.events) },
			func() { close(e.errors) },
		)
		lc.Close()

		e.mu.Lock()
		e.state = stateIdle
		e.mu.Unlock()
	})
}

// maybeStart launches a drain run when the enricher is started, idle and has
// queued work. Single-flight: the state check and the launch share the lock.
func (e *Enricher[E]) maybeStart() {
	if !e.started.Load() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maybeStartLocked()
}

func (e *Enricher[E]) maybeStartLocked() {
	if !e.started.Load() || e.closed || e.state != stateIdle || e.queue.length() == 0 {
		return
	}
	// A dead context can only produce cancelled terminal completions; the
	// backlog stays queued instead.
	if e.ctx.Err() != nil {
		return
	}
	e.startRunLocked()
}

func (e *Enricher[E]) startRunLocked() {
	r := newWorkerRun(e.queue, e.proc, e.coll, e.completions, e.errors, e.config.MaxAttempts, e.mx)
	e.run = r
	e.state = stateRunning
	e.mx.runs.Add(1)
	e.workerWG.Add(1)
	go func() {
		defer e.workerWG.Done()
		e.runFinished(r.run(e.ctx))
	}()
}

// runFinished re-inspects the queue after a run terminates: an offer racing
// past the terminating run is picked up here by an immediate fresh run. A
// cancelled run never restarts; a fresh run against a dead context would only
// emit another cancelled terminal, looping.
func (e *Enricher[E]) runFinished(cancelled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.run = nil
	e.state = stateIdle
	if !cancelled && !e.closed && e.queue.length() > 0 {
		e.startRunLocked()
	}
}

// collectionHooks adapts structural change notifications into queue updates.
// Callbacks run on the mutating (consumer) goroutine.
type collectionHooks[E comparable] struct {
	e *Enricher[E]
}

func (h collectionHooks[E]) Inserted(_ int, elements []E) {
	for _, element := range elements {
		_ = h.e.Offer(element)
	}
}

// Removed drops queue entries only for elements with no equal occurrence left
// in the collection; a value present at two indices stays queued until both
// are removed.
func (h collectionHooks[E]) Removed(_ int, elements []E) {
	for _, element := range elements {
		if !h.e.coll.Contains(element) {
			h.e.Remove(element)
		}
	}
}

func (h collectionHooks[E]) Replaced(_ int, oldElement, newElement E) {
	if !h.e.coll.Contains(oldElement) {
		h.e.Remove(oldElement)
	}
	_ = h.e.Offer(newElement)
}

func (h collectionHooks[E]) Cleared() {
	h.e.queue.clear()
	h.e.mx.queueDepth.Set(0)
}
