package backdrop

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ErrNoContainer is returned when a named container is not part of the page
// layout.
var ErrNoContainer = errors.New("backdrop: no such container")

// Section is one block of the page document. Sections stack vertically in
// order.
type Section struct {
	Name      string
	Height    float64 // px; zero fills the viewport height
	MaxWidth  float64 // container width cap; zero spans the window edge to edge
	MarginTop float64
}

// DefaultSections returns the marketing page layout: a full-height hero, the
// stats strip, the about block with the grid and the call-to-action globe.
func DefaultSections() []Section {
	return []Section{
		{Name: "hero"},
		{Name: "stats", Height: 200, MaxWidth: 1100},
		{Name: "about", Height: 440, MaxWidth: 1100, MarginTop: 120},
		{Name: "cta", Height: 560, MaxWidth: 560, MarginTop: 120},
		{Name: "footer", Height: 240, MarginTop: 120},
	}
}

const (
	pageGutter       = 24.0
	keyScrollStep    = 40.0
	wheelScrollStep  = 60.0
	pageScrollFactor = 0.9
	scrollDuration   = 0.35 // seconds
)

// LayoutSections computes the document-space box of every section for a
// window of the given size, and the total document height.
func LayoutSections(sections []Section, w, h float64) (map[string]Rect, float64) {
	boxes := make(map[string]Rect, len(sections))
	y := 0.0
	for _, s := range sections {
		y += s.MarginTop
		height := s.Height
		if height <= 0 {
			height = h
		}
		width := w
		if s.MaxWidth > 0 {
			width = math.Max(0, math.Min(w-2*pageGutter, s.MaxWidth))
		}
		boxes[s.Name] = Rect{X: (w - width) / 2, Y: y, Width: width, Height: height}
		y += height
	}
	return boxes, y
}

// Page is the host document: it lays out containers, owns the frame loop,
// routes input to the surfaces mounted in those containers and composites
// everything to the screen.
type Page struct {
	// ScreenshotDir is where Screenshot writes PNGs. Default "screenshots".
	ScreenshotDir string
	// ShowFPS draws the FPS/TPS overlay.
	ShowFPS bool

	env    Env
	sched  *Scheduler
	theme  *ThemeSignal
	ctx    context.Context
	cancel context.CancelFunc

	sections  []Section
	boxes     map[string]Rect
	docHeight float64

	width, height float64 // viewport in logical px
	laidW, laidH  float64 // window size at the last layout pass
	screenScale   float64

	scrollY     float64
	scrollTween *gween.Tween

	now    float64 // page clock in ms
	frames int

	surfaces []*Surface
	cursor   *Cursor
	cursorCv *Canvas
	cursorBf submitBuffers

	counters          *CounterStrip
	countersContainer string
	valueFont         *TTFFont
	labelFont         *TTFFont
	fontErr           error

	mouse      pointerState
	touch      touchState
	hidCursor  bool
	fps        *fpsWidget
	debug      bool
	stats      debugStats
	testRunner *TestRunner

	injectQueue     []syntheticEvent
	injected        bool
	screenshotQueue []string
}

// NewPage creates an empty page. A nil theme starts dark; no sections uses
// DefaultSections.
func NewPage(env Env, theme *ThemeSignal, sections ...Section) *Page {
	if theme == nil {
		theme = NewThemeSignal(ThemeDark)
	}
	if len(sections) == 0 {
		sections = DefaultSections()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Page{
		ScreenshotDir: "screenshots",
		env:           env,
		sched:         NewScheduler(),
		theme:         theme,
		ctx:           ctx,
		cancel:        cancel,
		sections:      sections,
		boxes:         map[string]Rect{},
		screenScale:   env.PixelRatio(),
		cursor:        NewCursor(CursorConfig{}, env, theme),
		cursorCv:      NewCanvas(0, 0),
		fps:           newFPSWidget(),
	}
}

// Env returns the startup snapshot.
func (p *Page) Env() Env {
	return p.env
}

// Theme returns the page's theme signal.
func (p *Page) Theme() *ThemeSignal {
	return p.theme
}

// Scheduler returns the page's frame loop.
func (p *Page) Scheduler() *Scheduler {
	return p.sched
}

// Cursor returns the custom cursor overlay.
func (p *Page) Cursor() *Cursor {
	return p.cursor
}

// Surfaces returns the mounted surfaces in mount order.
func (p *Page) Surfaces() []*Surface {
	return p.surfaces
}

// Now returns the page clock in milliseconds.
func (p *Page) Now() float64 {
	return p.now
}

// SetDebugMode enables stderr diagnostics for the page and its surfaces.
func (p *Page) SetDebugMode(on bool) {
	p.debug = on
	for _, s := range p.surfaces {
		s.SetDebug(on)
	}
}

func (p *Page) hasSection(name string) bool {
	for _, s := range p.sections {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Container returns the document-space box of a section.
func (p *Page) Container(name string) (Rect, error) {
	if !p.hasSection(name) {
		return Rect{}, fmt.Errorf("%w: %q", ErrNoContainer, name)
	}
	return p.boxes[name], nil
}

// Mount binds r to the named container. A missing container is not an
// error: the effect is skipped and Mount returns (nil, false).
func (p *Page) Mount(container string, r Renderer) (*Surface, bool) {
	if !p.hasSection(container) {
		p.debugf("mount %s: container missing, skipped", container)
		return nil, false
	}
	s := NewSurface(p.ctx, container, r, p.sched, p.env)
	s.SetDebug(p.debug)
	p.surfaces = append(p.surfaces, s)
	if p.width > 0 {
		s.Resize(p.boxes[container], p.now)
	}
	return s, true
}

// MountCounters places a counter strip in the named container.
func (p *Page) MountCounters(container string, strip *CounterStrip) bool {
	if !p.hasSection(container) {
		p.debugf("mount counters %s: container missing, skipped", container)
		return false
	}
	p.counters = strip
	p.countersContainer = container
	return true
}

// SetViewport sets the window size in logical px and lays the page out.
func (p *Page) SetViewport(w, h float64) {
	p.width, p.height = w, h
	p.cursor.Resize(w)
	p.relayout(p.now)
}

// Viewport returns the visible part of the document.
func (p *Page) Viewport() Rect {
	return Rect{X: 0, Y: p.scrollY, Width: p.width, Height: p.height}
}

// DocumentHeight returns the laid out document height.
func (p *Page) DocumentHeight() float64 {
	return p.docHeight
}

// --- Scrolling ---

// ScrollY returns the scroll offset.
func (p *Page) ScrollY() float64 {
	return p.scrollY
}

func (p *Page) maxScroll() float64 {
	return math.Max(0, p.docHeight-p.height)
}

// ScrollTo scrolls to y. Smooth scrolling eases over a short tween unless
// motion is reduced.
func (p *Page) ScrollTo(y float64, smooth bool) {
	y = clamp(y, 0, p.maxScroll())
	if smooth && !p.env.ReducedMotion {
		p.scrollTween = gween.New(float32(p.scrollY), float32(y), scrollDuration, ease.OutCubic)
		return
	}
	p.scrollTween = nil
	p.scrollY = y
}

// ScrollBy scrolls relative to the current offset.
func (p *Page) ScrollBy(dy float64, smooth bool) {
	p.ScrollTo(p.scrollY+dy, smooth)
}

func (p *Page) updateScroll(dt float32) {
	if p.scrollTween == nil {
		return
	}
	v, done := p.scrollTween.Update(dt)
	p.scrollY = clamp(float64(v), 0, p.maxScroll())
	if done {
		p.scrollTween = nil
	}
}

// --- Frame ---

// Update runs one frame: input, layout, visibility, then the loop.
func (p *Page) Update() error {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	dt := 1.0 / float64(tps)
	p.now += dt * 1000
	p.frames++

	if p.testRunner != nil {
		p.testRunner.step(p)
	}
	p.processInput()
	p.updateScroll(float32(dt))
	p.relayout(p.now)
	p.observe()

	p.cursor.Step()
	if p.counters != nil {
		p.counters.Update(float32(dt))
	}
	p.fps.update(dt)

	p.sched.Tick(p.now)
	p.collectStats()
	return nil
}

// relayout recomputes container boxes. With resize observation each surface
// is resized when its own container changes size; without it every surface
// is resized when the window size changes.
func (p *Page) relayout(now float64) {
	if p.width <= 0 || p.height <= 0 {
		return
	}
	p.boxes, p.docHeight = LayoutSections(p.sections, p.width, p.height)
	windowChanged := p.width != p.laidW || p.height != p.laidH
	p.laidW, p.laidH = p.width, p.height

	for _, s := range p.surfaces {
		box := p.boxes[s.Name]
		old := s.Container()
		switch {
		case !s.LaidOut():
			s.Resize(box, now)
		case p.env.ResizeObservation:
			if box.Width != old.Width || box.Height != old.Height {
				s.Resize(box, now)
			} else {
				s.Place(box)
			}
		case windowChanged:
			s.Resize(box, now)
		default:
			s.Place(box)
		}
	}
	p.scrollY = clamp(p.scrollY, 0, p.maxScroll())
}

func (p *Page) observe() {
	if p.width <= 0 {
		return
	}
	vp := p.Viewport()
	for _, s := range p.surfaces {
		s.Observe(vp, p.now)
	}
	if p.counters != nil {
		p.counters.Observe(p.boxes[p.countersContainer], vp)
	}
}

// Draw composites the page: background, surfaces, counters, cursor and the
// FPS overlay.
func (p *Page) Draw(screen *ebiten.Image) {
	screen.Fill(p.backgroundRGBA())
	vp := p.Viewport()
	ss := p.screenScale

	p.stats.drawCalls = 0
	for _, s := range p.surfaces {
		b := s.Bounds()
		if s.Rendered() == 0 || b.Intersection(vp).Area() <= 0 {
			continue
		}
		if s.dirty {
			p.stats.drawCalls += s.canvas.countDrawCalls()
		}
		img := s.Image()
		if img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(ss/s.Scale(), ss/s.Scale())
		op.GeoM.Translate(b.X*ss, (b.Y-p.scrollY)*ss)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}

	p.drawCounters(screen)

	p.cursorCv.Reset()
	p.cursor.Draw(p.cursorCv)
	p.cursorCv.Submit(screen, ss, &p.cursorBf)

	if p.ShowFPS {
		p.fps.draw(screen)
	}
	p.flushScreenshots(screen)
	p.debugLog()
}

func (p *Page) drawCounters(screen *ebiten.Image) {
	if p.counters == nil || len(p.counters.Counters) == 0 {
		return
	}
	box := p.boxes[p.countersContainer]
	if box.Intersection(p.Viewport()).Area() <= 0 {
		return
	}
	ss := p.screenScale
	if p.valueFont == nil && p.fontErr == nil {
		p.valueFont, p.fontErr = DefaultFont(48 * ss)
		if p.fontErr == nil {
			p.labelFont, p.fontErr = DefaultFont(14 * ss)
		}
		if p.fontErr != nil {
			p.debugf("counters: %v", p.fontErr)
		}
	}
	if p.fontErr != nil {
		return
	}
	fg := Foreground(p.theme.Theme())
	n := float64(len(p.counters.Counters))
	top := (box.Y - p.scrollY + box.Height/2 - 40) * ss
	for i, c := range p.counters.Counters {
		x := (box.X + (float64(i)+0.5)*box.Width/n) * ss
		p.valueFont.DrawText(screen, c.Text(), x, top, TextAlignCenter, fg)
		p.labelFont.DrawText(screen, c.Label, x, top+p.valueFont.LineHeight(), TextAlignCenter, fg.WithAlpha(0.6))
	}
}

// Layout implements the ebiten.Game layout step: outside size in logical px,
// screen size in device px.
func (p *Page) Layout(outsideW, outsideH int) (int, int) {
	if float64(outsideW) != p.width || float64(outsideH) != p.height {
		p.SetViewport(float64(outsideW), float64(outsideH))
	}
	return int(float64(outsideW) * p.screenScale), int(float64(outsideH) * p.screenScale)
}

// Close stops every loop, cancels background work and releases images.
func (p *Page) Close() {
	p.cancel()
	for _, s := range p.surfaces {
		s.Dispose()
	}
	p.cursor.Close()
}

// backgroundRGBA is the clear color for the current theme.
func (p *Page) backgroundRGBA() color.RGBA {
	return Background(p.theme.Theme()).ToRGBA()
}
