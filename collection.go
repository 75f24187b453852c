package enrich

import (
	"fmt"
	"sync"
)

// Listener receives structural change notifications from a Collection.
// Callbacks run synchronously on the mutating goroutine, after the mutation
// is visible, outside the collection's lock.
type Listener[E comparable] interface {
	// Inserted reports elements inserted starting at index start.
	Inserted(start int, elements []E)
	// Removed reports elements removed from index start onward. The elements
	// are no longer reachable through the collection.
	Removed(start int, elements []E)
	// Replaced reports that the element at index was overwritten.
	Replaced(index int, oldElement, newElement E)
	// Cleared reports that the collection was emptied.
	Cleared()
}

// Collection is a mutable, indexable, ordered sequence of elements with
// structural change notifications. Reads are safe from any goroutine;
// mutations are expected to come from a single (consumer) goroutine, which
// is also where listener callbacks fire.
type Collection[E comparable] struct {
	mu        sync.RWMutex
	data      []E
	listeners []Listener[E]
}

// NewCollection creates an empty collection.
func NewCollection[E comparable]() *Collection[E] {
	return &Collection[E]{data: make([]E, 0)}
}

// NewCollectionFrom creates a collection holding a copy of elements.
func NewCollectionFrom[E comparable](elements []E) *Collection[E] {
	c := &Collection[E]{data: make([]E, len(elements))}
	copy(c.data, elements)
	return c
}

// Subscribe registers a listener for structural change notifications.
func (c *Collection[E]) Subscribe(l Listener[E]) {
	if l == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Unsubscribe removes a previously registered listener; no-op if absent.
func (c *Collection[E]) Unsubscribe(l Listener[E]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cur := range c.listeners {
		if cur == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// Append adds elements to the end of the collection.
func (c *Collection[E]) Append(elements ...E) {
	if len(elements) == 0 {
		return
	}
	c.mu.Lock()
	start := len(c.data)
	c.data = append(c.data, elements...)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	for _, l := range ls {
		l.Inserted(start, elements)
	}
}

// Insert inserts elements at index, shifting later elements right.
// index may equal Len (append position); out-of-range indices panic.
func (c *Collection[E]) Insert(index int, elements ...E) {
	if len(elements) == 0 {
		return
	}
	c.mu.Lock()
	if index < 0 || index > len(c.data) {
		c.mu.Unlock()
		panic(fmt.Sprintf("%s: insert index %d out of range [0..%d]", Namespace, index, len(c.data)))
	}
	c.data = append(c.data[:index], append(append([]E{}, elements...), c.data[index:]...)...)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	for _, l := range ls {
		l.Inserted(index, elements)
	}
}

// RemoveAt removes and returns the element at index; out-of-range indices panic.
func (c *Collection[E]) RemoveAt(index int) E {
	c.mu.Lock()
	if index < 0 || index >= len(c.data) {
		c.mu.Unlock()
		panic(fmt.Sprintf("%s: remove index %d out of range [0..%d)", Namespace, index, len(c.data)))
	}
	removed := c.data[index]
	c.data = append(c.data[:index], c.data[index+1:]...)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	for _, l := range ls {
		l.Removed(index, []E{removed})
	}
	return removed
}

// Remove removes the first occurrence of element; returns false if absent.
func (c *Collection[E]) Remove(element E) bool {
	c.mu.Lock()
	index := c.indexOfLocked(element)
	if index < 0 {
		c.mu.Unlock()
		return false
	}
	c.data = append(c.data[:index], c.data[index+1:]...)
	ls := c.snapshotListeners()
	c.mu.Unlock()

	for _, l := range ls {
		l.Removed(index, []E{element})
	}
	return true
}

// Set overwrites the element at index and returns the previous value;
// out-of-range indices panic.
func (c *Collection[E]) Set(index int, element E) E {
	c.mu.Lock()
	if index < 0 || index >= len(c.data) {
		c.mu.Unlock()
		panic(fmt.Sprintf("%s: set index %d out of range [0..%d)", Namespace, index, len(c.data)))
	}
	old := c.data[index]
	c.data[index] = element
	ls := c.snapshotListeners()
	c.mu.Unlock()

	for _, l := range ls {
		l.Replaced(index, old, element)
	}
	return old
}

// Clear empties the collection.
func (c *Collection[E]) Clear() {
	c.mu.Lock()
	c.data = c.data[:0]
	ls := c.snapshotListeners()
	c.mu.Unlock()

	for _, l := range ls {
		l.Cleared()
	}
}

// Get returns the element at index; out-of-range indices panic.
func (c *Collection[E]) Get(index int) E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.data) {
		panic(fmt.Sprintf("%s: get index %d out of range [0..%d)", Namespace, index, len(c.data)))
	}
	return c.data[index]
}

// IndexOf returns the index of the first occurrence of element, or -1.
func (c *Collection[E]) IndexOf(element E) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOfLocked(element)
}

// Contains reports whether element occurs anywhere in the collection.
func (c *Collection[E]) Contains(element E) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOfLocked(element) >= 0
}

// Len returns the number of elements.
func (c *Collection[E]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Elements returns a copy of the underlying slice.
func (c *Collection[E]) Elements() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]E, len(c.data))
	copy(out, c.data)
	return out
}

func (c *Collection[E]) indexOfLocked(element E) int {
	for i, cur := range c.data {
		if cur == element {
			return i
		}
	}
	return -1
}

// snapshotListeners copies the listener slice so callbacks run outside the lock.
func (c *Collection[E]) snapshotListeners() []Listener[E] {
	if len(c.listeners) == 0 {
		return nil
	}
	out := make([]Listener[E], len(c.listeners))
	copy(out, c.listeners)
	return out
}
