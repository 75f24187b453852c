package enrich

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// completion is the unit handed from the drain goroutine to the notifier.
// terminal == true marks the end of a run (element/progress are unset);
// cancelled is only meaningful on terminal completions.
type completion[E comparable] struct {
	element   E
	progress  int
	terminal  bool
	cancelled bool
}

// workerRun is one execution of the drain loop. It pulls elements from the
// queue in priority order, invokes the processor synchronously on its own
// goroutine, and forwards surviving results to the notifier. At most one
// run is active per enricher; the enricher owns the handle.
type workerRun[E comparable] struct {
	queue       *workQueue[E]
	proc        Processor[E]
	coll        *Collection[E]
	completions chan<- completion[E]
	errors      chan<- error
	maxAttempts uint
	mx          *instruments

	cancelled atomic.Bool
	processed int
}

func newWorkerRun[E comparable](
	queue *workQueue[E],
	proc Processor[E],
	coll *Collection[E],
	completions chan<- completion[E],
	errors chan<- error,
	maxAttempts uint,
	mx *instruments,
) *workerRun[E] {
	return &workerRun[E]{
		queue:       queue,
		proc:        proc,
		coll:        coll,
		completions: completions,
		errors:      errors,
		maxAttempts: maxAttempts,
		mx:          mx,
	}
}

// cancel requests cooperative termination. The check happens before each
// poll; an in-flight Process call is never interrupted.
func (r *workerRun[E]) cancel() { r.cancelled.Store(true) }

// run drains the queue until it is empty or cancellation is observed, then
// emits a terminal completion and reports whether it terminated cancelled.
// It never panics on processor failures.
func (r *workerRun[E]) run(ctx context.Context) (cancelled bool) {
	for {
		if r.cancelled.Load() || ctx.Err() != nil {
			cancelled = true
			break
		}
		element, attempts, ok := r.queue.poll()
		if !ok {
			break
		}
		r.mx.queueDepth.Set(int64(r.queue.length()))

		start := time.Now()
		err := r.invoke(ctx, element)
		r.mx.processDuration.Record(time.Since(start).Seconds())

		if err != nil {
			r.mx.failed.Add(1)
			r.forwardError(newElementError(err, element))
			if attempts+1 < r.maxAttempts {
				r.queue.offerRetry(element, attempts+1)
			}
			continue
		}

		// Result for an element removed from the collection while it was
		// being processed is stale; it does not count toward progress.
		if !r.coll.Contains(element) {
			r.mx.discarded.Add(1)
			continue
		}

		r.processed++
		r.mx.processed.Add(1)
		r.completions <- completion[E]{
			element:  element,
			progress: progressValue(r.processed, r.queue.length()),
		}
	}
	r.completions <- completion[E]{terminal: true, cancelled: cancelled}
	return cancelled
}

// invoke calls Process with panic recovery; a panicking processor surfaces
// as an ErrProcessPanicked-wrapped error instead of killing the run.
func (r *workerRun[E]) invoke(ctx context.Context, element E) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrProcessPanicked, p)
		}
	}()
	return r.proc.Process(ctx, element)
}

// forwardError delivers err on the outward errors channel without blocking
// the drain loop; errors are dropped when the channel is saturated.
func (r *workerRun[E]) forwardError(err error) {
	select {
	case r.errors <- err:
	default:
	}
}

// progressValue computes processed/(processed+remaining) as a clamped 0..100
// integer. An exhausted backlog always reads 100.
func progressValue(processed, remaining int) int {
	if remaining <= 0 {
		return 100
	}
	p := processed * 100 / (processed + remaining)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
