package backdrop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Per-pointer state ---

type pointerState struct {
	known    bool
	down     bool
	x, y     float64  // viewport coordinates
	scrollY  float64  // page scroll when x, y were last dispatched
	hover    *Surface // surface under the pointer
	captured *Surface // surface that received the press
}

type touchState struct {
	ids      []ebiten.TouchID
	pressed  []ebiten.TouchID
	released []ebiten.TouchID
	x, y     float64 // primary touch, viewport coordinates
	captured *Surface
}

// --- Input processing ---

// processInput reads mouse, wheel, touch and keyboard state for this frame.
// Injected events take precedence over the mouse; once anything has been
// injected the physical mouse is ignored so scripted sessions replay exactly.
func (p *Page) processInput() {
	if !p.processInjectedInput() && !p.injected {
		mx, my := ebiten.CursorPosition()
		p.processPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
		// Ebitengine reports wheel up as positive.
		if _, dy := ebiten.Wheel(); dy != 0 {
			p.processWheel(float64(mx), float64(my), -dy)
		}
	}
	// The page scrolled under a resting pointer.
	if ps := &p.mouse; ps.known && ps.scrollY != p.scrollY {
		p.processPointer(ps.x, ps.y, ps.down)
	}
	p.processTouches()
	p.processKeys()
}

// hitTest returns the topmost surface under a viewport point.
func (p *Page) hitTest(x, y float64) *Surface {
	docY := y + p.scrollY
	for i := len(p.surfaces) - 1; i >= 0; i-- {
		s := p.surfaces[i]
		b := s.Bounds()
		if b.Area() > 0 && b.Contains(x, docY) {
			return s
		}
	}
	return nil
}

// dispatch delivers ev to s in surface-local coordinates.
func (p *Page) dispatch(s *Surface, ev PointerEvent, x, y float64) *PointerEvent {
	b := s.Bounds()
	ev.X = x - b.X
	ev.Y = y + p.scrollY - b.Y
	ev.Time = p.now
	s.HandlePointer(&ev)
	return &ev
}

// processPointer runs the mouse state machine for one frame. Moves go to the
// surface under the pointer and, while a button is held, to the surface that
// received the press even after the pointer has left it. A scroll under a
// still pointer counts as a move.
func (p *Page) processPointer(x, y float64, pressed bool) {
	ps := &p.mouse
	moved := !ps.known || x != ps.x || y != ps.y || p.scrollY != ps.scrollY
	ps.known = true
	ps.x, ps.y = x, y
	ps.scrollY = p.scrollY

	hit := p.hitTest(x, y)
	if hit != ps.hover {
		if ps.hover != nil {
			p.dispatch(ps.hover, PointerEvent{Kind: PointerLeave}, x, y)
		}
		ps.hover = hit
	}

	if moved {
		p.cursor.Move(x, y)
		if hit != nil {
			p.dispatch(hit, PointerEvent{Kind: PointerMove}, x, y)
		}
		if ps.captured != nil && ps.captured != hit {
			p.dispatch(ps.captured, PointerEvent{Kind: PointerMove}, x, y)
		}
	}
	p.cursor.SetMode(cursorModeFor(hit))

	switch {
	case pressed && !ps.down:
		ps.down = true
		if hit != nil {
			ps.captured = hit
			p.dispatch(hit, PointerEvent{Kind: PointerDown}, x, y)
		}
	case !pressed && ps.down:
		ps.down = false
		if ps.captured != nil {
			p.dispatch(ps.captured, PointerEvent{Kind: PointerUp}, x, y)
			ps.captured = nil
		}
	}
}

func cursorModeFor(s *Surface) CursorMode {
	if s == nil {
		return CursorNormal
	}
	if h, ok := s.Renderer().(CursorHinter); ok {
		return h.CursorMode()
	}
	return CursorNormal
}

// processWheel delivers a wheel step to the surface under the pointer and
// scrolls the page unless the surface suppressed it.
func (p *Page) processWheel(x, y, deltaY float64) {
	if hit := p.hitTest(x, y); hit != nil {
		ev := p.dispatch(hit, PointerEvent{Kind: PointerWheel, WheelDeltaY: deltaY}, x, y)
		if ev.DefaultPrevented() {
			return
		}
	}
	p.ScrollBy(deltaY*wheelScrollStep, false)
}

// processTouches converts Ebitengine touch state into touch events.
func (p *Page) processTouches() {
	ts := &p.touch
	ts.ids = ebiten.AppendTouchIDs(ts.ids[:0])
	ts.pressed = inpututil.AppendJustPressedTouchIDs(ts.pressed[:0])
	ts.released = inpututil.AppendJustReleasedTouchIDs(ts.released[:0])
	count := len(ts.ids)

	for _, id := range ts.pressed {
		tx, ty := ebiten.TouchPosition(id)
		p.processTouch(TouchStart, float64(tx), float64(ty), count)
	}
	if count > 0 && len(ts.pressed) == 0 {
		tx, ty := ebiten.TouchPosition(ts.ids[0])
		if x, y := float64(tx), float64(ty); x != ts.x || y != ts.y {
			p.processTouch(TouchMove, x, y, count)
		}
	}
	for _, id := range ts.released {
		tx, ty := inpututil.TouchPositionInPreviousTick(id)
		p.processTouch(TouchEnd, float64(tx), float64(ty), count)
	}
}

// processTouch routes one touch event. The first touch captures the surface
// under it until every touch has ended.
func (p *Page) processTouch(kind PointerKind, x, y float64, touches int) {
	ts := &p.touch
	ts.x, ts.y = x, y
	if kind == TouchStart && ts.captured == nil {
		ts.captured = p.hitTest(x, y)
	}
	if ts.captured == nil {
		return
	}
	p.dispatch(ts.captured, PointerEvent{Kind: kind, Touches: touches}, x, y)
	if kind == TouchEnd && touches == 0 {
		ts.captured = nil
	}
}

// processKeys handles the page keyboard shortcuts.
func (p *Page) processKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		p.theme.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		p.Screenshot("manual")
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		p.ScrollBy(p.height*pageScrollFactor, true)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		p.ScrollBy(-p.height*pageScrollFactor, true)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		p.ScrollTo(0, true)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		p.ScrollTo(p.maxScroll(), true)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		p.ScrollBy(keyScrollStep/4, false)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		p.ScrollBy(-keyScrollStep/4, false)
	}
}
