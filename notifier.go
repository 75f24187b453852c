package enrich

// Notifier (result dispatcher)
//
// Responsibility:
// - Consume per-element completions produced by the drain goroutine and
//   translate them into the smallest possible number of outward events:
//   one RangeChanged per contiguous index run plus one Processed summary
//   per flush cycle, and exactly one Done per run.
//
// Inputs:
// - completions <-chan completion[E]: stream of per-element completions in
//   queue-emission order, interleaved with terminal markers (end of run).
// - events chan<- Event[E]: outward events channel owned by the Enricher and
//   written only by the notifier.
// - coll: the collection, consulted to resolve each element's current index
//   at flush time.
//
// Semantics:
// - A flush cycle opens when a completion is received and greedily absorbs
//   every completion already waiting in the channel (non-blocking drain).
//   This coalesces bursts: while the consumer is busy, completions pile up
//   and are delivered as one cycle, mirroring how a UI event loop batches
//   repaint requests.
// - Per cycle, elements are visited in completion order. Each is resolved to
//   its current index; elements no longer present are skipped entirely (they
//   appear in no event). A running (start, end) window extends while
//   index == end+1 and flushes otherwise; the final window flushes at cycle
//   end. Then a single Processed event carries the cycle's surviving batch
//   and the latest progress value.
// - A terminal completion flushes any open cycle, then emits Done carrying
//   every element the run delivered, and resets per-run state.
//
// Edge cases:
// - A cycle whose elements were all removed emits no events.
// - Elements resolving to a duplicate or backward index close the current
//   window and open a new one; windows never merge non-adjacent indices.
//
// Concurrency contracts:
// - Single goroutine; reads completions, writes events, never closes either.
//   The Enricher closes completions on shutdown; the notifier drains and
//   returns, after which the Enricher closes the events channel.
// - Writes to events are synchronous and respect the configured buffer; a
//   consumer that stops draining eventually backpressures the drain loop.

type notifier[E comparable] struct {
	completions <-chan completion[E]
	events      chan<- Event[E]
	coll        *Collection[E]

	runBatch []E
}

func newNotifier[E comparable](
	completions <-chan completion[E], events chan<- Event[E], coll *Collection[E],
) *notifier[E] {
	return &notifier[E]{completions: completions, events: events, coll: coll}
}

// run executes the dispatch loop until the completions channel is closed.
func (n *notifier[E]) run() {
	for {
		c, ok := <-n.completions
		if !ok {
			return
		}

		var pending []E
		progress := 0
		absorb := func(c completion[E]) (terminal bool) {
			if c.terminal {
				n.flush(pending, progress)
				pending = nil
				n.emitDone(c.cancelled)
				return true
			}
			pending = append(pending, c.element)
			progress = c.progress
			return false
		}

		if absorb(c) {
			continue
		}
	drain:
		for {
			select {
			case c2, ok := <-n.completions:
				if !ok {
					n.flush(pending, progress)
					return
				}
				if absorb(c2) {
					break drain
				}
			default:
				n.flush(pending, progress)
				break drain
			}
		}
	}
}

// flush resolves indices, emits coalesced RangeChanged events and one
// Processed summary for the cycle. Elements gone from the collection are
// dropped here and never reach the consumer.
func (n *notifier[E]) flush(pending []E, progress int) {
	if len(pending) == 0 {
		return
	}

	batch := make([]E, 0, len(pending))
	start, end := -1, -1
	for _, element := range pending {
		index := n.coll.IndexOf(element)
		if index < 0 {
			continue
		}
		batch = append(batch, element)
		if start >= 0 && index == end+1 {
			end = index
			continue
		}
		if start >= 0 {
			n.events <- RangeChanged[E]{Start: start, End: end}
		}
		start, end = index, index
	}
	if start >= 0 {
		n.events <- RangeChanged[E]{Start: start, End: end}
	}
	if len(batch) == 0 {
		return
	}

	n.runBatch = append(n.runBatch, batch...)
	n.events <- Processed[E]{Batch: batch, Progress: progress}
}

func (n *notifier[E]) emitDone(cancelled bool) {
	batch := n.runBatch
	n.runBatch = nil
	n.events <- Done[E]{Batch: batch, Cancelled: cancelled}
}
