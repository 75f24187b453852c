package enrich

import (
	"container/heap"
	"sync"
)

// workQueue is the deduplicating, recency-ordered backlog of elements awaiting
// materialization. It is the only structure shared between the consumer side
// and the drain goroutine; every operation runs under its mutex.
//
// Ordering is a total order over (touched, seq):
//   - touched, a generation counter, descending: the most recently touched
//     generation drains first;
//   - seq, an insertion sequence number, ascending within a generation.
//
// offer of a new element joins the *current* generation, so a burst of
// insertions drains in insertion order. touch (and offer of an element that
// is already queued) bumps the generation, strictly outranking everything
// offered or touched before it. Both counters are monotonic; wall-clock time
// is never consulted, keeping poll order deterministic.
type workQueue[E comparable] struct {
	mu      sync.Mutex
	entries map[E]*queueEntry[E]
	heap    entryHeap[E]
	gen     uint64
	seq     uint64
}

// queueEntry wraps one queued element with its ordering key.
// At most one entry per element exists at any time.
type queueEntry[E comparable] struct {
	element  E
	touched  uint64 // generation; higher drains first
	seq      uint64 // tie-break within a generation; lower drains first
	attempts uint   // process invocations so far (retry accounting)
	index    int    // heap position
}

func newWorkQueue[E comparable]() *workQueue[E] {
	return &workQueue[E]{entries: make(map[E]*queueEntry[E])}
}

// offer enqueues element at the current generation, or refreshes an already
// queued element to the front. Reports whether the queue grew.
func (q *workQueue[E]) offer(element E) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e, ok := q.entries[element]; ok {
		q.promoteLocked(e)
		return false
	}
	q.pushLocked(element, q.gen, 0)
	return true
}

// offerRetry re-enqueues a failed element, preserving its attempt count.
func (q *workQueue[E]) offerRetry(element E, attempts uint) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e, ok := q.entries[element]; ok {
		if e.attempts < attempts {
			e.attempts = attempts
		}
		return
	}
	q.pushLocked(element, q.gen, attempts)
}

// touch promotes an already queued element to the front of the backlog.
// Elements not currently queued (already materialized, or in flight) are
// left alone. Reports whether a promotion happened.
func (q *workQueue[E]) touch(element E) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[element]
	if !ok {
		return false
	}
	q.promoteLocked(e)
	return true
}

// remove drops the entry for element if present; idempotent.
func (q *workQueue[E]) remove(element E) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[element]
	if !ok {
		return false
	}
	heap.Remove(&q.heap, e.index)
	delete(q.entries, element)
	return true
}

// poll pops the highest-priority element. ok is false when the queue is empty.
func (q *workQueue[E]) poll() (element E, attempts uint, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.heap.Len() == 0 {
		var zero E
		return zero, 0, false
	}
	e := heap.Pop(&q.heap).(*queueEntry[E])
	delete(q.entries, e.element)
	return e.element, e.attempts, true
}

// clear empties the queue.
func (q *workQueue[E]) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.heap = q.heap[:0]
	q.entries = make(map[E]*queueEntry[E])
}

// length returns the number of queued elements.
func (q *workQueue[E]) length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

func (q *workQueue[E]) pushLocked(element E, touched uint64, attempts uint) {
	q.seq++
	e := &queueEntry[E]{element: element, touched: touched, seq: q.seq, attempts: attempts}
	q.entries[element] = e
	heap.Push(&q.heap, e)
}

func (q *workQueue[E]) promoteLocked(e *queueEntry[E]) {
	q.gen++
	q.seq++
	e.touched = q.gen
	e.seq = q.seq
	heap.Fix(&q.heap, e.index)
}

// entryHeap orders entries by touched descending, then seq ascending.
type entryHeap[E comparable] []*queueEntry[E]

func (h entryHeap[E]) Len() int { return len(h) }

func (h entryHeap[E]) Less(i, j int) bool {
	if h[i].touched != h[j].touched {
		return h[i].touched > h[j].touched
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap[E]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap[E]) Push(x any) {
	e := x.(*queueEntry[E])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap[E]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
