package backdrop

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer is the capability set every animated effect implements. A
// Surface owns the shared scaffolding (backing buffer, pointer routing,
// visibility-gated loop) and calls into the renderer for the effect itself.
type Renderer interface {
	// Layout returns the logical surface size for a container of the given
	// size.
	Layout(containerW, containerH float64) (w, h float64)
	// Resize is called after every layout change with the new logical size.
	Resize(w, h, now float64)
	// Draw records one frame into c.
	Draw(c *Canvas, now float64)
	// HandlePointer consumes a surface-local event. Returning true requests
	// an immediate re-render outside the frame loop.
	HandlePointer(ev *PointerEvent) bool
}

// Booter is implemented by renderers that defer their setup until the
// surface first scrolls into view. Boot runs once, even with reduced motion.
type Booter interface {
	Boot(ctx context.Context, s *Surface)
}

// Animator is implemented by renderers with per-frame state (eased pointer,
// animation clock). Advance runs once per loop frame before Draw and never
// for out-of-loop renders.
type Animator interface {
	Advance(now float64)
}

// Surface is one canvas-backed animated region.
type Surface struct {
	Name string

	renderer Renderer
	env      Env
	sched    *Scheduler
	gate     *VisibilityGate
	observer *VisibilityObserver
	canvas   *Canvas

	// Logical size, pixel ratio and backing-buffer size.
	width, height float64
	scale         float64
	backingW      int
	backingH      int

	// box is the container's document-space box; offset positions the
	// surface inside it.
	box    Rect
	offset Vec2

	image   *ebiten.Image
	buffers submitBuffers
	dirty   bool

	laidOut  bool
	booted   bool
	lastNow  float64
	rendered int
	ctx      context.Context
	debug    bool
}

// NewSurface binds r to a new surface. The loop stays stopped until the
// surface is observed intersecting the viewport.
func NewSurface(ctx context.Context, name string, r Renderer, sched *Scheduler, env Env) *Surface {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Surface{
		Name:     name,
		renderer: r,
		env:      env,
		sched:    sched,
		observer: NewVisibilityObserver(DefaultVisibilityThreshold),
		canvas:   NewCanvas(0, 0),
		scale:    1,
		ctx:      ctx,
	}
	s.gate = NewVisibilityGate(sched, env.ReducedMotion, s.frame)
	return s
}

// Renderer returns the bound renderer.
func (s *Surface) Renderer() Renderer {
	return s.renderer
}

// Canvas returns the surface's recording of the last rendered frame.
func (s *Surface) Canvas() *Canvas {
	return s.canvas
}

// Gate returns the surface's visibility gate.
func (s *Surface) Gate() *VisibilityGate {
	return s.gate
}

// Size returns the logical size.
func (s *Surface) Size() (w, h float64) {
	return s.width, s.height
}

// Scale returns the pixel ratio used for the backing buffer.
func (s *Surface) Scale() float64 {
	return s.scale
}

// BackingSize returns the backing-buffer dimensions in device pixels.
func (s *Surface) BackingSize() (w, h int) {
	return s.backingW, s.backingH
}

// Bounds returns the surface rectangle in document space.
func (s *Surface) Bounds() Rect {
	return Rect{X: s.box.X + s.offset.X, Y: s.box.Y + s.offset.Y, Width: s.width, Height: s.height}
}

// Rendered returns how many frames have been recorded.
func (s *Surface) Rendered() int {
	return s.rendered
}

// Booted reports whether Boot has run (always true for non-booting renderers
// after the first intersection).
func (s *Surface) Booted() bool {
	return s.booted
}

// Scheduler returns the loop the surface runs on.
func (s *Surface) Scheduler() *Scheduler {
	return s.sched
}

// Env returns the startup snapshot the surface was created with.
func (s *Surface) Env() Env {
	return s.env
}

// SetDebug enables lifecycle logging to stderr.
func (s *Surface) SetDebug(on bool) {
	s.debug = on
}

// Debugf prints a lifecycle message tagged with the surface name when debug
// logging is on.
func (s *Surface) Debugf(format string, args ...any) {
	if !s.debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[backdrop] %s: %s\n", s.Name, fmt.Sprintf(format, args...))
}

// Resize lays the surface out inside a container box (document space) and
// recomputes its logical and backing dimensions.
func (s *Surface) Resize(box Rect, now float64) {
	w, h := s.renderer.Layout(box.Width, box.Height)
	s.width, s.height = w, h
	s.Place(box)
	s.laidOut = true
	s.scale = s.env.PixelRatio()
	s.backingW = int(w * s.scale)
	s.backingH = int(h * s.scale)
	s.canvas.Width, s.canvas.Height = w, h
	if s.image != nil {
		b := s.image.Bounds()
		if b.Dx() != s.backingW || b.Dy() != s.backingH {
			s.image.Deallocate()
			s.image = nil
		}
	}
	s.renderer.Resize(w, h, now)
	s.lastNow = now
	if s.env.ReducedMotion && s.staticReady() {
		// No loop will run: the static frame is recorded here.
		s.Render(now)
	}
}

// Place moves the surface to a new container box without resizing it.
// Surfaces narrower than the container are centered horizontally.
func (s *Surface) Place(box Rect) {
	s.box = box
	s.offset = Vec2{X: math.Max(0, (box.Width-s.width)/2)}
}

// LaidOut reports whether Resize has run at least once.
func (s *Surface) LaidOut() bool {
	return s.laidOut
}

// Container returns the container box in document space.
func (s *Surface) Container() Rect {
	return s.box
}

// staticReady reports whether a reduced-motion surface can draw its static
// frame: immediately for plain renderers, after boot for deferred ones.
func (s *Surface) staticReady() bool {
	if _, ok := s.renderer.(Booter); ok {
		return s.booted
	}
	return true
}

// Observe feeds the container geometry and viewport to the surface's
// visibility observer and drives boot and the frame loop.
func (s *Surface) Observe(viewport Rect, now float64) {
	visible, changed := s.observer.Observe(s.Bounds(), viewport)
	if !changed {
		return
	}
	if visible && !s.booted {
		s.booted = true
		if b, ok := s.renderer.(Booter); ok {
			s.Debugf("boot")
			b.Boot(s.ctx, s)
			if s.env.ReducedMotion {
				s.Render(now)
			}
		}
	}
	s.gate.SetVisible(visible)
}

// Intersecting reports the last observed intersection state.
func (s *Surface) Intersecting() bool {
	return s.observer.Intersecting()
}

// HandlePointer routes a surface-local event to the renderer.
func (s *Surface) HandlePointer(ev *PointerEvent) {
	if s.renderer.HandlePointer(ev) {
		s.Render(ev.Time)
	}
}

// Render records one frame synchronously.
func (s *Surface) Render(now float64) {
	s.lastNow = now
	s.canvas.Reset()
	s.renderer.Draw(s.canvas, now)
	s.rendered++
	s.dirty = true
}

// RequestRender records a frame using the last known timestamp. Renderers
// call it when asynchronous work (dataset load) changes what they draw.
func (s *Surface) RequestRender() {
	s.Render(s.lastNow)
}

func (s *Surface) frame(now float64) {
	if a, ok := s.renderer.(Animator); ok {
		a.Advance(now)
	}
	s.Render(now)
}

// Image returns the backing image, submitting the latest recording if it
// changed. Returns nil for an empty surface.
func (s *Surface) Image() *ebiten.Image {
	if s.backingW <= 0 || s.backingH <= 0 {
		return nil
	}
	if s.image == nil {
		s.image = ebiten.NewImage(s.backingW, s.backingH)
		s.dirty = true
	}
	if s.dirty {
		s.image.Clear()
		s.canvas.Submit(s.image, s.scale, &s.buffers)
		s.dirty = false
	}
	return s.image
}

// Dispose stops the loop and releases the backing image.
func (s *Surface) Dispose() {
	s.gate.SetVisible(false)
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
	if c, ok := s.renderer.(interface{ Close() }); ok {
		c.Close()
	}
}
