package backdrop

import "testing"

// --- VisibilityGate ---

func TestGateStartIsIdempotent(t *testing.T) {
	s := NewScheduler()
	steps := 0
	g := NewVisibilityGate(s, false, func(float64) { steps++ })
	g.SetVisible(true)
	g.SetVisible(true)
	if s.PendingFrames() != 1 {
		t.Fatalf("PendingFrames = %d, want 1", s.PendingFrames())
	}
	s.Tick(16)
	if steps != 1 {
		t.Errorf("steps = %d, want 1", steps)
	}
	if s.PendingFrames() != 1 || !g.Running() {
		t.Errorf("loop should re-request: PendingFrames = %d", s.PendingFrames())
	}
}

func TestGateStopCancelsSynchronously(t *testing.T) {
	s := NewScheduler()
	steps := 0
	g := NewVisibilityGate(s, false, func(float64) { steps++ })
	g.SetVisible(true)
	s.Tick(16)
	g.SetVisible(false)
	if s.PendingFrames() != 0 {
		t.Fatalf("PendingFrames = %d, want 0", s.PendingFrames())
	}
	if g.Running() {
		t.Error("gate should not be running")
	}
	s.Tick(32)
	s.Tick(48)
	if steps != 1 {
		t.Errorf("steps = %d, want 1", steps)
	}
}

func TestGateReentrySingleLoop(t *testing.T) {
	s := NewScheduler()
	steps := 0
	g := NewVisibilityGate(s, false, func(float64) { steps++ })
	for i := 0; i < 5; i++ {
		g.SetVisible(true)
		g.SetVisible(false)
		g.SetVisible(true)
	}
	if s.PendingFrames() != 1 {
		t.Fatalf("PendingFrames = %d, want 1", s.PendingFrames())
	}
	s.Tick(16)
	if steps != 1 {
		t.Errorf("steps = %d, want 1", steps)
	}
}

func TestGateReducedMotionNeverRequests(t *testing.T) {
	s := NewScheduler()
	steps := 0
	g := NewVisibilityGate(s, true, func(float64) { steps++ })
	g.SetVisible(true)
	s.Tick(16)
	if s.PendingFrames() != 0 || steps != 0 {
		t.Errorf("PendingFrames = %d, steps = %d; want 0, 0", s.PendingFrames(), steps)
	}
	if !g.Visible() {
		t.Error("Visible should still track the last call")
	}
}

func TestGateStopFromInsideStep(t *testing.T) {
	s := NewScheduler()
	var g *VisibilityGate
	steps := 0
	g = NewVisibilityGate(s, false, func(float64) {
		steps++
		g.SetVisible(false)
	})
	g.SetVisible(true)
	s.Tick(16)
	if s.PendingFrames() != 0 {
		t.Errorf("PendingFrames = %d, want 0", s.PendingFrames())
	}
	s.Tick(32)
	if steps != 1 {
		t.Errorf("steps = %d, want 1", steps)
	}
}

// --- VisibilityObserver ---

func TestObserverTransitions(t *testing.T) {
	o := NewVisibilityObserver(0)
	if o.Threshold != DefaultVisibilityThreshold {
		t.Fatalf("Threshold = %v, want %v", o.Threshold, DefaultVisibilityThreshold)
	}
	box := Rect{X: 0, Y: 1000, Width: 100, Height: 100}
	vp := Rect{Width: 800, Height: 600}

	tests := []struct {
		name        string
		scroll      float64
		wantVisible bool
		wantChanged bool
	}{
		{"first observation reports", 0, false, true},
		{"unchanged", 10, false, false},
		{"below threshold", 404, false, false},
		{"crosses threshold", 406, true, true},
		{"fully visible", 700, true, false},
		{"scrolled past", 1200, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := vp
			v.Y = tt.scroll
			visible, changed := o.Observe(box, v)
			if visible != tt.wantVisible || changed != tt.wantChanged {
				t.Errorf("Observe = (%v, %v), want (%v, %v)", visible, changed, tt.wantVisible, tt.wantChanged)
			}
		})
	}
}

func TestObserverZeroAreaNeverIntersects(t *testing.T) {
	o := NewVisibilityObserver(0.05)
	visible, _ := o.Observe(Rect{X: 10, Y: 10}, Rect{Width: 800, Height: 600})
	if visible {
		t.Error("empty box should not intersect")
	}
}

func TestVisibleFraction(t *testing.T) {
	vp := Rect{Width: 100, Height: 100}
	tests := []struct {
		box  Rect
		want float64
	}{
		{Rect{X: 0, Y: 0, Width: 50, Height: 50}, 1},
		{Rect{X: 50, Y: 0, Width: 100, Height: 100}, 0.5},
		{Rect{X: 200, Y: 0, Width: 10, Height: 10}, 0},
		{Rect{}, 0},
	}
	for _, tt := range tests {
		if got := VisibleFraction(tt.box, vp); got != tt.want {
			t.Errorf("VisibleFraction(%v) = %v, want %v", tt.box, got, tt.want)
		}
	}
}
