package backdrop

type syntheticKind uint8

const (
	syntheticMouse syntheticKind = iota
	syntheticWheel
	syntheticTouch
)

// syntheticEvent represents a single injected input event. Viewport
// coordinates are used (matching what a screenshot shows) and routed exactly
// like real input.
type syntheticEvent struct {
	kind    syntheticKind
	x, y    float64
	pressed bool
	deltaY  float64
	touch   PointerKind
	touches int
}

func (p *Page) inject(ev syntheticEvent) {
	p.injectQueue = append(p.injectQueue, ev)
	p.injected = true
}

// InjectHover queues a pointer move with the button up. The event is
// consumed on the next frame.
func (p *Page) InjectHover(x, y float64) {
	p.inject(syntheticEvent{kind: syntheticMouse, x: x, y: y})
}

// InjectPress queues a left-button press at the given viewport coordinates.
func (p *Page) InjectPress(x, y float64) {
	p.inject(syntheticEvent{kind: syntheticMouse, x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (p *Page) InjectMove(x, y float64) {
	p.inject(syntheticEvent{kind: syntheticMouse, x: x, y: y, pressed: true})
}

// InjectRelease queues a left-button release.
func (p *Page) InjectRelease(x, y float64) {
	p.inject(syntheticEvent{kind: syntheticMouse, x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (p *Page) InjectClick(x, y float64) {
	p.InjectPress(x, y)
	p.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). The sequence consumes frames frames; the minimum is 2.
func (p *Page) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.InjectRelease(toX, toY)
}

// InjectWheel queues one wheel step at (x, y). Positive deltaY scrolls down.
func (p *Page) InjectWheel(x, y, deltaY float64) {
	p.inject(syntheticEvent{kind: syntheticWheel, x: x, y: y, deltaY: deltaY})
}

// InjectTouch queues a touch event. touches is the number of touches down
// after the event.
func (p *Page) InjectTouch(kind PointerKind, x, y float64, touches int) {
	p.inject(syntheticEvent{kind: syntheticTouch, x: x, y: y, touch: kind, touches: touches})
}

// processInjectedInput pops one event from the inject queue and routes it.
// Returns true if an event was consumed (real mouse input is skipped).
func (p *Page) processInjectedInput() bool {
	if len(p.injectQueue) == 0 {
		return false
	}
	ev := p.injectQueue[0]
	copy(p.injectQueue, p.injectQueue[1:])
	p.injectQueue = p.injectQueue[:len(p.injectQueue)-1]

	switch ev.kind {
	case syntheticMouse:
		p.processPointer(ev.x, ev.y, ev.pressed)
	case syntheticWheel:
		p.processWheel(ev.x, ev.y, ev.deltaY)
	case syntheticTouch:
		p.processTouch(ev.touch, ev.x, ev.y, ev.touches)
	}
	return true
}
