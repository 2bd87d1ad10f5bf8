package backdrop

// DefaultVisibilityThreshold is the visible fraction at which a surface
// counts as on-screen.
const DefaultVisibilityThreshold = 0.05

// VisibilityGate owns the frame loop of one surface. The loop is
//
//	for active { step(now); await next frame }
//
// where active follows visibility. At most one frame request is outstanding
// at any time.
type VisibilityGate struct {
	sched   *Scheduler
	step    func(now float64)
	reduced bool

	handle  FrameID
	active  bool
	visible bool
}

// NewVisibilityGate creates a stopped gate that calls step once per frame
// while visible. With reduced set the loop never starts.
func NewVisibilityGate(sched *Scheduler, reduced bool, step func(now float64)) *VisibilityGate {
	return &VisibilityGate{sched: sched, step: step, reduced: reduced}
}

// SetVisible starts or stops the loop. Starting is idempotent; stopping
// cancels the pending request synchronously.
func (g *VisibilityGate) SetVisible(visible bool) {
	g.visible = visible
	if g.reduced {
		return
	}
	if visible {
		if g.handle == 0 {
			g.active = true
			g.handle = g.sched.RequestFrame(g.frame)
		}
		return
	}
	g.sched.CancelFrame(g.handle)
	g.handle = 0
	g.active = false
}

// Visible reports the last visibility passed to SetVisible.
func (g *VisibilityGate) Visible() bool {
	return g.visible
}

// Running reports whether a frame request is outstanding.
func (g *VisibilityGate) Running() bool {
	return g.handle != 0
}

func (g *VisibilityGate) frame(now float64) {
	g.handle = 0
	if !g.active {
		return
	}
	g.step(now)
	if g.active && g.handle == 0 {
		g.handle = g.sched.RequestFrame(g.frame)
	}
}

// VisibilityObserver turns container/viewport geometry into intersection
// transitions for one surface, like an intersection observer with a single
// threshold.
type VisibilityObserver struct {
	Threshold float64

	known       bool
	intersected bool
}

// NewVisibilityObserver creates an observer with the given threshold. A
// non-positive threshold uses DefaultVisibilityThreshold.
func NewVisibilityObserver(threshold float64) *VisibilityObserver {
	if threshold <= 0 {
		threshold = DefaultVisibilityThreshold
	}
	return &VisibilityObserver{Threshold: threshold}
}

// Observe evaluates the box against the viewport. It returns changed=true on
// the first observation and on every crossing of the threshold.
func (o *VisibilityObserver) Observe(box, viewport Rect) (intersecting, changed bool) {
	intersecting = VisibleFraction(box, viewport) >= o.Threshold && box.Area() > 0
	changed = !o.known || intersecting != o.intersected
	o.known = true
	o.intersected = intersecting
	return intersecting, changed
}

// Intersecting returns the last observed state.
func (o *VisibilityObserver) Intersecting() bool {
	return o.intersected
}

// VisibleFraction returns the fraction of box's area inside viewport.
func VisibleFraction(box, viewport Rect) float64 {
	area := box.Area()
	if area <= 0 {
		return 0
	}
	return box.Intersection(viewport).Area() / area
}
