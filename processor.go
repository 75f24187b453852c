package enrich

import "context"

// Processor computes the expensive per-element data for one element of the
// collection. Process is invoked on the enricher's background goroutine,
// never on the consumer side, and must be safe to run concurrently with
// reads of the collection.
//
// Returning an error means the element could not be materialized; by default
// it is dropped from the backlog and the error is delivered on GetErrors.
// Process receives the enricher's internal context: it is canceled on Close,
// but the enricher always waits for the in-flight call to return.
type Processor[E comparable] interface {
	Process(ctx context.Context, element E) error
}

// ProcessorFunc adapts func(ctx, element) error to Processor[E].
type ProcessorFunc[E comparable] func(ctx context.Context, element E) error

func (f ProcessorFunc[E]) Process(ctx context.Context, element E) error { return f(ctx, element) }
