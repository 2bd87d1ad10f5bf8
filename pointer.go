package backdrop

// Sentinel is the coordinate an inactive pointer rests at. It is far enough
// outside any surface that every distance-based effect evaluates to zero.
const Sentinel = -9999.0

// sentinelCutoff separates real coordinates from the sentinel.
const sentinelCutoff = -1000.0

// PointerTracker smooths raw pointer coordinates for one surface. Move sets
// the target; Step eases the current position toward it once per frame.
// The first Step after the pointer enters snaps straight to the target, so
// the entry frame is never eased in from the sentinel.
type PointerTracker struct {
	// Gain is the easing factor k in cur += (target - cur) * k. Values in
	// (0, 1) ease, 1 snaps.
	Gain float64

	target    Vec2
	current   Vec2
	active    bool
	precision bool
}

// NewPointerTracker creates an inactive tracker with the given gain.
func NewPointerTracker(gain float64) *PointerTracker {
	if gain <= 0 || gain > 1 {
		gain = 1
	}
	return &PointerTracker{
		Gain:    gain,
		target:  Vec2{Sentinel, Sentinel},
		current: Vec2{Sentinel, Sentinel},
	}
}

// Move records the latest surface-local pointer position.
func (p *PointerTracker) Move(x, y float64) {
	p.target = Vec2{x, y}
	p.active = true
}

// Leave parks the target at the sentinel.
func (p *PointerTracker) Leave() {
	p.target = Vec2{Sentinel, Sentinel}
	p.active = false
}

// SetPrecision toggles precision mode. While on, Step snaps to the target so
// a coupled overlay stays aligned without lag.
func (p *PointerTracker) SetPrecision(on bool) {
	p.precision = on
}

// Precision reports whether precision mode is on.
func (p *PointerTracker) Precision() bool {
	return p.precision
}

// Step advances the eased position by one frame. It snaps instead of
// easing on the entry frame, in precision mode and when Gain is 1.
func (p *PointerTracker) Step() {
	if !p.active || p.target.X <= sentinelCutoff {
		p.current = Vec2{Sentinel, Sentinel}
		return
	}
	if p.current.X <= sentinelCutoff || p.precision || p.Gain >= 1 {
		p.current = p.target
		return
	}
	p.current.X += (p.target.X - p.current.X) * p.Gain
	p.current.Y += (p.target.Y - p.current.Y) * p.Gain
}

// Position returns the eased position for the current frame.
func (p *PointerTracker) Position() Vec2 {
	return p.current
}

// Target returns the last raw position (or the sentinel).
func (p *PointerTracker) Target() Vec2 {
	return p.target
}

// Active reports whether the pointer is inside the surface.
func (p *PointerTracker) Active() bool {
	return p.active
}
