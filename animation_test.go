package backdrop

import "testing"

func TestCounterCountsUp(t *testing.T) {
	c := NewCounter("projects", 120)
	if c.Value() != 0 || c.Text() != "0" {
		t.Fatalf("initial = %d %q, want 0", c.Value(), c.Text())
	}
	c.Start(1.8)
	c.Update(0.9)
	v := c.Value()
	if v <= 0 || v >= 120 {
		t.Errorf("midway Value = %d, want strictly between 0 and 120", v)
	}
	// Ease-out-cubic is well past the linear midpoint at half time.
	if v < 100 {
		t.Errorf("midway Value = %d, want >= 100 with ease-out", v)
	}
	if c.Done {
		t.Error("Done before the duration elapsed")
	}

	c.Update(0.9)
	if !c.Done || c.Value() != 120 || c.Text() != "120" {
		t.Errorf("final = %d (done=%v), want exactly 120", c.Value(), c.Done)
	}
	c.Update(1)
	if c.Value() != 120 {
		t.Errorf("Value after end = %d, want 120", c.Value())
	}
}

func TestCounterValueFloors(t *testing.T) {
	c := NewCounter("x", 9)
	c.Start(1)
	for i := 0; i < 10; i++ {
		c.Update(0.05)
		if c.Value() > 9 {
			t.Fatalf("Value = %d, overshot target", c.Value())
		}
		if float64(c.Value()) > c.value {
			t.Fatalf("Value = %d above raw %v, want floor", c.Value(), c.value)
		}
	}
}

func TestCounterStripTriggersOnce(t *testing.T) {
	a, b := NewCounter("a", 120), NewCounter("b", 14)
	strip := NewCounterStrip(false, a, b)
	box := Rect{Y: 800, Width: 1100, Height: 200}

	strip.Observe(box, Rect{Width: 1280, Height: 800})
	if strip.Triggered() {
		t.Fatal("triggered while off-screen")
	}
	// 60 of 200 px visible is below the 0.35 threshold.
	strip.Observe(box, Rect{Width: 1280, Height: 860})
	if strip.Triggered() {
		t.Fatal("triggered below threshold")
	}

	strip.Observe(box, Rect{Y: 700, Width: 1280, Height: 800})
	if !strip.Triggered() || !strip.Animating() {
		t.Fatal("strip should start once half visible")
	}
	strip.Update(0.5)
	before := a.Value()
	if before == 0 {
		t.Fatal("counter did not advance")
	}

	strip.Observe(box, Rect{Y: 5000, Width: 1280, Height: 800})
	strip.Observe(box, Rect{Y: 700, Width: 1280, Height: 800})
	if a.Value() != before {
		t.Errorf("Value = %d after re-entry, want %d (no restart)", a.Value(), before)
	}

	strip.Update(2)
	if strip.Animating() {
		t.Error("still animating after the duration")
	}
	if a.Value() != 120 || b.Value() != 14 {
		t.Errorf("values = %d, %d; want 120, 14", a.Value(), b.Value())
	}
}

func TestCounterStripReducedMotion(t *testing.T) {
	a := NewCounter("a", 42)
	strip := NewCounterStrip(true, a)
	if !strip.Triggered() || strip.Animating() {
		t.Error("reduced-motion strip should be finished from the start")
	}
	if a.Value() != 42 {
		t.Errorf("Value = %d, want 42", a.Value())
	}
}
