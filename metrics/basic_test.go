package metrics

import (
	"sync"
	"testing"
)

func TestBasicProvider_InstrumentsReusedByName(t *testing.T) {
	p := NewBasicProvider()

	c1 := p.Counter("c", WithDescription("a counter"), WithUnit("1"))
	c2 := p.Counter("c")
	if c1 != c2 {
		t.Fatalf("Counter returned distinct instruments for the same name")
	}

	g1 := p.Gauge("g")
	g2 := p.Gauge("g")
	if g1 != g2 {
		t.Fatalf("Gauge returned distinct instruments for the same name")
	}

	h1 := p.Histogram("h")
	h2 := p.Histogram("h")
	if h1 != h2 {
		t.Fatalf("Histogram returned distinct instruments for the same name")
	}
}

func TestBasicCounter_AddAndValue(t *testing.T) {
	c := &BasicCounter{}
	c.Add(2)
	c.Add(3)
	c.Add(-5) // ignored: counters are monotonic
	if got := c.Value(); got != 5 {
		t.Fatalf("Value = %d; want 5", got)
	}
}

func TestBasicGauge_SetAndValue(t *testing.T) {
	g := &BasicGauge{}
	g.Set(7)
	g.Set(3)
	if got := g.Value(); got != 3 {
		t.Fatalf("Value = %d; want 3", got)
	}
}

func TestBasicHistogram_Snapshot(t *testing.T) {
	h := &BasicHistogram{}
	h.Record(2)
	h.Record(8)
	h.Record(5)

	count, sum, min, max := h.Snapshot()
	if count != 3 {
		t.Fatalf("count = %d; want 3", count)
	}
	if sum != 15 {
		t.Fatalf("sum = %v; want 15", sum)
	}
	if min != 2 || max != 8 {
		t.Fatalf("min/max = %v/%v; want 2/8", min, max)
	}
}

func TestBasicProvider_ConcurrentUse(t *testing.T) {
	p := NewBasicProvider()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Counter("shared").Add(1)
				p.Gauge("depth").Set(int64(j))
				p.Histogram("dur").Record(float64(j))
			}
		}()
	}
	wg.Wait()

	c := p.Counter("shared").(*BasicCounter)
	if got := c.Value(); got != 800 {
		t.Fatalf("counter = %d; want 800", got)
	}
}
