package pipeline

import "testing"

func TestShapeCachePutGet(t *testing.T) {
	c := NewShapeCache()
	key := ShapeKey{Text: "hello", FontSize: 14, Bold: false, Italic: false}
	c.Put(key, ShapedRun{Advances: []float32{1, 1, 1, 1, 1}, Generation: 1})

	run, ok := c.Get(key, 1)
	if !ok {
		t.Fatalf("expected hit")
	}
	if len(run.Advances) != 5 {
		t.Fatalf("advances = %v", run.Advances)
	}
}

func TestShapeCacheMissOnGenerationMismatch(t *testing.T) {
	c := NewShapeCache()
	key := ShapeKey{Text: "x", FontSize: 14}
	c.Put(key, ShapedRun{Generation: 1})

	if _, ok := c.Get(key, 2); ok {
		t.Fatalf("expected miss after generation bump")
	}
}

func TestShapeCacheMissOnPoisoned(t *testing.T) {
	c := NewShapeCache()
	key := ShapeKey{Text: "x", FontSize: 14}
	c.Put(key, ShapedRun{Generation: 0})
	c.Poison(key)

	if _, ok := c.Get(key, 0); ok {
		t.Fatalf("expected miss on poisoned entry")
	}
}

func TestShapeCacheCapacityEviction(t *testing.T) {
	c := NewShapeCache()
	c.cap = 2
	a := ShapeKey{Text: "a"}
	b := ShapeKey{Text: "b"}
	cc := ShapeKey{Text: "c"}
	c.Put(a, ShapedRun{})
	c.Put(b, ShapedRun{})
	c.Put(cc, ShapedRun{}) // evicts a (LRU)

	if _, ok := c.Get(a, 0); ok {
		t.Fatalf("expected a evicted")
	}
	if _, ok := c.Get(b, 0); !ok {
		t.Fatalf("expected b still present")
	}
	if _, ok := c.Get(cc, 0); !ok {
		t.Fatalf("expected c present")
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}
