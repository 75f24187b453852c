package enrich

import (
	"reflect"
	"testing"
)

// recordingListener captures structural change notifications for assertions.
type recordingListener[E comparable] struct {
	inserted []struct {
		start    int
		elements []E
	}
	removed []struct {
		start    int
		elements []E
	}
	replaced []struct {
		index        int
		oldEl, newEl E
	}
	cleared int
}

func (l *recordingListener[E]) Inserted(start int, elements []E) {
	l.inserted = append(l.inserted, struct {
		start    int
		elements []E
	}{start, elements})
}

func (l *recordingListener[E]) Removed(start int, elements []E) {
	l.removed = append(l.removed, struct {
		start    int
		elements []E
	}{start, elements})
}

func (l *recordingListener[E]) Replaced(index int, oldEl, newEl E) {
	l.replaced = append(l.replaced, struct {
		index        int
		oldEl, newEl E
	}{index, oldEl, newEl})
}

func (l *recordingListener[E]) Cleared() { l.cleared++ }

func TestCollection_AppendInsertGet(t *testing.T) {
	c := NewCollection[string]()
	c.Append("A", "C")
	c.Insert(1, "B")

	if got := c.Elements(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("elements = %v; want [A B C]", got)
	}
	if got := c.Get(1); got != "B" {
		t.Fatalf("Get(1) = %q; want B", got)
	}
	if got := c.IndexOf("C"); got != 2 {
		t.Fatalf("IndexOf(C) = %d; want 2", got)
	}
	if got := c.IndexOf("Z"); got != -1 {
		t.Fatalf("IndexOf(Z) = %d; want -1", got)
	}
	if !c.Contains("A") || c.Contains("Z") {
		t.Fatalf("Contains gave wrong answers")
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("Len = %d; want 3", got)
	}
}

func TestCollection_RemoveAtAndRemove(t *testing.T) {
	c := NewCollectionFrom([]string{"A", "B", "B", "C"})

	if got := c.RemoveAt(0); got != "A" {
		t.Fatalf("RemoveAt(0) = %q; want A", got)
	}
	if !c.Remove("B") {
		t.Fatalf("Remove(B) = false; want true")
	}
	// The second occurrence survives.
	if !c.Contains("B") {
		t.Fatalf("collection lost both B occurrences")
	}
	if c.Remove("Z") {
		t.Fatalf("Remove of an absent element returned true")
	}
}

func TestCollection_SetAndClear(t *testing.T) {
	c := NewCollectionFrom([]string{"A", "B"})
	if old := c.Set(1, "X"); old != "B" {
		t.Fatalf("Set returned %q; want B", old)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len after Clear = %d; want 0", c.Len())
	}
}

func TestCollection_ListenerNotifications(t *testing.T) {
	c := NewCollection[string]()
	l := &recordingListener[string]{}
	c.Subscribe(l)

	c.Append("A", "B")
	c.Insert(1, "M")
	c.Set(0, "X")
	c.RemoveAt(2)
	c.Clear()

	if len(l.inserted) != 2 || l.inserted[0].start != 0 || l.inserted[1].start != 1 {
		t.Fatalf("unexpected inserted notifications: %+v", l.inserted)
	}
	if !reflect.DeepEqual(l.inserted[1].elements, []string{"M"}) {
		t.Fatalf("unexpected inserted elements: %+v", l.inserted[1].elements)
	}
	if len(l.replaced) != 1 || l.replaced[0].oldEl != "A" || l.replaced[0].newEl != "X" {
		t.Fatalf("unexpected replaced notifications: %+v", l.replaced)
	}
	if len(l.removed) != 1 || !reflect.DeepEqual(l.removed[0].elements, []string{"B"}) {
		t.Fatalf("unexpected removed notifications: %+v", l.removed)
	}
	if l.cleared != 1 {
		t.Fatalf("cleared = %d; want 1", l.cleared)
	}
}

func TestCollection_Unsubscribe(t *testing.T) {
	c := NewCollection[string]()
	l := &recordingListener[string]{}
	c.Subscribe(l)
	c.Unsubscribe(l)

	c.Append("A")
	if len(l.inserted) != 0 {
		t.Fatalf("listener notified after Unsubscribe: %+v", l.inserted)
	}
}

func TestCollection_OutOfRangePanics(t *testing.T) {
	c := NewCollectionFrom([]string{"A"})
	for name, fn := range map[string]func(){
		"Get":      func() { c.Get(1) },
		"Set":      func() { c.Set(-1, "X") },
		"Insert":   func() { c.Insert(5, "X") },
		"RemoveAt": func() { c.RemoveAt(1) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s with an out-of-range index did not panic", name)
				}
			}()
			fn()
		}()
	}
}
