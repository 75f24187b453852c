// Package enrich provides prioritized background materialization for an
// observable ordered collection. A consumer-facing Collection shows its
// elements immediately; an Enricher drains a deduplicating, recency-ordered
// backlog on a single background goroutine, invoking a caller-supplied
// Processor once per element and coalescing completions into minimal
// contiguous-range change events.
//
// Construction
//   - New(ctx, collection, processor, opts ...Option): builds an Enricher
//     bound to the collection. The enricher registers itself for structural
//     change notifications and queues every element already present.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created instance:
//   - StartImmediately: false (explicit Start is required)
//   - EventsBufferSize: 1024
//   - ErrorsBufferSize: 1024
//   - MaxAttempts: 1 (a failed element is dropped, not re-queued)
//
// Channel lifecycle
// The library exposes two channels:
//   - GetEvents: delivers Processed, RangeChanged and Done notifications
//   - GetErrors: delivers Process failures wrapped in ElementError
//
// Both channels are closed by Close. The recommended pattern is to drain
// GetEvents on the goroutine that owns the collection (the consumer side)
// while the enricher runs; Close waits for in-flight deliveries, so an
// undrained events channel can block shutdown.
//
// Scheduling
// At most one drain run is active per Enricher at any time (single-flight).
// Offering or touching an element while the enricher is idle starts a new
// run; a run that finds the queue empty terminates and is restarted if new
// work arrived during its final processing step. Cancellation is cooperative:
// an in-flight Process call always finishes before the run exits.
package enrich
