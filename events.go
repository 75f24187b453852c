package enrich

// Event is the marker interface for notifications delivered on GetEvents.
// Concrete types: Processed, RangeChanged, Done.
//
// Events are produced by a single goroutine, so the channel order is the
// delivery order: the RangeChanged events of a flush precede its Processed
// summary, and a run's Done is the last event emitted for that run.
type Event[E comparable] interface {
	event()
}

// Processed reports a flushed batch of freshly materialized elements together
// with the run's progress, 0..100. Batches of one run partition the run's
// successfully processed elements without gaps or overlaps.
type Processed[E comparable] struct {
	Batch    []E
	Progress int
}

// RangeChanged reports that the collection elements at indices
// [Start, End] (inclusive) have been materialized and should be re-read.
// Adjacent indices are coalesced: one event covers each contiguous run.
type RangeChanged[E comparable] struct {
	Start int
	End   int
}

// Done reports the termination of one drain run. Batch holds every element
// the run materialized; Cancelled is true when the run was cut short by Close.
type Done[E comparable] struct {
	Batch     []E
	Cancelled bool
}

func (Processed[E]) event()    {}
func (RangeChanged[E]) event() {}
func (Done[E]) event()         {}
