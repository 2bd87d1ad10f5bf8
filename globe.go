package backdrop

import (
	"context"
	"math"

	geojson "github.com/paulmach/go.geojson"
)

// GlobeConfig tunes the globe. Zero fields take the defaults.
type GlobeConfig struct {
	MaxSize         float64 // largest surface edge in px (520)
	RadiusFactor    float64 // base radius as a fraction of the size (0.44)
	DragSpeed       float64 // degrees of rotation per px of drag (0.5)
	AutoRotateSpeed float64 // degrees of longitude per frame (0.25)
	MouseCooldown   float64 // ms before auto-rotate resumes after a mouse drag (200)
	TouchCooldown   float64 // ms before auto-rotate resumes after a touch (500)
	MinZoom         float64 // smallest scale as a multiple of the base radius (0.5)
	MaxZoom         float64 // largest scale as a multiple of the base radius (3)

	// Source provides the land dataset. Nil fetches DefaultLandURL.
	Source LandSource
}

// DefaultGlobeConfig returns the standard globe tuning.
func DefaultGlobeConfig() GlobeConfig {
	return GlobeConfig{
		MaxSize:         520,
		RadiusFactor:    0.44,
		DragSpeed:       0.5,
		AutoRotateSpeed: 0.25,
		MouseCooldown:   200,
		TouchCooldown:   500,
		MinZoom:         0.5,
		MaxZoom:         3,
	}
}

func (c GlobeConfig) withDefaults() GlobeConfig {
	d := DefaultGlobeConfig()
	if c.MaxSize <= 0 {
		c.MaxSize = d.MaxSize
	}
	if c.RadiusFactor <= 0 {
		c.RadiusFactor = d.RadiusFactor
	}
	if c.DragSpeed == 0 {
		c.DragSpeed = d.DragSpeed
	}
	if c.AutoRotateSpeed == 0 {
		c.AutoRotateSpeed = d.AutoRotateSpeed
	}
	if c.MouseCooldown <= 0 {
		c.MouseCooldown = d.MouseCooldown
	}
	if c.TouchCooldown <= 0 {
		c.TouchCooldown = d.TouchCooldown
	}
	if c.MinZoom <= 0 {
		c.MinZoom = d.MinZoom
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = d.MaxZoom
	}
	if c.Source == nil {
		c.Source = HTTPLandSource{}
	}
	return c
}

const (
	initialLambda = 0.0
	initialPhi    = -20.0

	outlineWidth   = 1.5
	graticuleWidth = 0.7
	landWidth      = 0.8
	landDotRadius  = 1.1
)

// GlobeState is the lifecycle of a globe.
type GlobeState uint8

const (
	GlobeUnbooted GlobeState = iota // not yet scrolled into view
	GlobeLoading                    // booted, dataset pending or failed
	GlobeReady                      // dataset loaded
)

// String returns the state name.
func (s GlobeState) String() string {
	switch s {
	case GlobeLoading:
		return "loading"
	case GlobeReady:
		return "ready"
	}
	return "unbooted"
}

// GlobeColors is the globe palette.
type GlobeColors struct {
	Outline    Color
	Graticule  Color
	LandFill   Color
	LandStroke Color
	Dots       Color
}

func globeColors(t Theme) GlobeColors {
	if t == ThemeLight {
		ink := hexColor("#000000")
		return GlobeColors{
			Outline:    ink.WithAlpha(0.55),
			Graticule:  ink.WithAlpha(0.08),
			LandFill:   ink.WithAlpha(0.04),
			LandStroke: ink.WithAlpha(0.35),
			Dots:       hexColor("#3c3c3c").WithAlpha(0.65),
		}
	}
	ink := hexColor("#ffffff")
	return GlobeColors{
		Outline:    ink.WithAlpha(0.65),
		Graticule:  ink.WithAlpha(0.1),
		LandFill:   ink.WithAlpha(0.05),
		LandStroke: ink.WithAlpha(0.45),
		Dots:       hexColor("#b4b4b4").WithAlpha(0.8),
	}
}

type gestureKind uint8

const (
	gestureNone gestureKind = iota
	gestureMouse
	gestureTouch
)

// Globe is a draggable, zoomable orthographic globe with land outlines and
// stippled land dots. It boots lazily: nothing is drawn until the surface
// first scrolls into view, and land appears once the dataset resolves.
type Globe struct {
	cfg    GlobeConfig
	colors *ColorCache[GlobeColors]

	state   GlobeState
	surface *Surface
	reduced bool
	cancel  context.CancelFunc

	size float64
	base float64
	proj Projection

	autoRotate bool
	resumeAt   float64 // ms; zero when no resume is pending

	gesture   gestureKind
	dragStart Vec2
	rotStart  [2]float64

	graticule [][][]float64
	land      *Land
	dots      *DotBuilder
	loadErr   error
}

// NewGlobe creates an unbooted globe whose palette follows theme.
func NewGlobe(cfg GlobeConfig, theme *ThemeSignal) *Globe {
	return &Globe{
		cfg:    cfg.withDefaults(),
		colors: NewColorCache(theme, globeColors),
		proj:   Projection{Lambda: initialLambda, Phi: initialPhi},
	}
}

// State returns the lifecycle state.
func (g *Globe) State() GlobeState {
	return g.state
}

// Rotation returns the projection rotation (lambda, phi) in degrees.
func (g *Globe) Rotation() (lambda, phi float64) {
	return g.proj.Lambda, g.proj.Phi
}

// Scale returns the current globe radius in px.
func (g *Globe) Scale() float64 {
	return g.proj.Scale
}

// BaseRadius returns the unzoomed globe radius in px.
func (g *Globe) BaseRadius() float64 {
	return g.base
}

// AutoRotating reports whether auto-rotation is enabled.
func (g *Globe) AutoRotating() bool {
	return g.autoRotate
}

// Dragging reports whether a drag gesture is in progress.
func (g *Globe) Dragging() bool {
	return g.gesture != gestureNone
}

// Projection returns a copy of the current projection.
func (g *Globe) Projection() Projection {
	return g.proj
}

// Land returns the loaded dataset, or nil.
func (g *Globe) Land() *Land {
	return g.land
}

// Dots returns the stipple dots generated so far.
func (g *Globe) Dots() []GeoPoint {
	if g.dots == nil {
		return nil
	}
	return g.dots.Dots()
}

// DotsDone reports whether stipple generation has finished.
func (g *Globe) DotsDone() bool {
	return g.dots != nil && g.dots.Done()
}

// LoadErr returns the dataset failure, if any. A failed globe stays in
// GlobeLoading and draws only its outline.
func (g *Globe) LoadErr() error {
	return g.loadErr
}

// Layout returns a square no wider than the container and MaxSize. A
// container with no width gets MaxSize.
func (g *Globe) Layout(cw, _ float64) (float64, float64) {
	size := g.cfg.MaxSize
	if cw > 0 {
		size = math.Min(cw, size)
	}
	return size, size
}

// Resize centers the projection. After boot a changed size rescales the
// globe proportionally, keeping the zoom level.
func (g *Globe) Resize(w, h, _ float64) {
	g.size = w
	base := w * g.cfg.RadiusFactor
	if g.base > 0 {
		g.proj.Scale *= base / g.base
	} else {
		g.proj.Scale = base
	}
	g.base = base
	g.proj.CX, g.proj.CY = w/2, h/2
}

// Boot starts the dataset fetch on a background goroutine. The result is
// handed back to the frame loop through the surface's scheduler.
func (g *Globe) Boot(ctx context.Context, s *Surface) {
	if g.state != GlobeUnbooted {
		return
	}
	g.state = GlobeLoading
	g.surface = s
	g.reduced = s.Env().ReducedMotion
	g.autoRotate = true
	g.graticule = Graticule()

	ctx, g.cancel = context.WithCancel(ctx)
	src := g.cfg.Source
	sched := s.Scheduler()
	go func() {
		fc, err := src.Load(ctx)
		sched.Post(func() { g.loaded(fc, err) })
	}()
}

func (g *Globe) loaded(fc *geojson.FeatureCollection, err error) {
	if g.state != GlobeLoading {
		return
	}
	if err != nil {
		g.loadErr = err
		g.surface.Debugf("land dataset failed: %v", err)
		return
	}
	g.land = NewLand(fc)
	g.state = GlobeReady
	g.surface.Debugf("land dataset loaded: %d features, %d skipped", len(g.land.Features), g.land.Skipped)
	g.dots = NewDotBuilder(g.land.Features, func() {
		g.surface.Debugf("stippled %d dots", len(g.dots.Dots()))
		g.surface.RequestRender()
	})
	g.dots.Start(g.surface.Scheduler())
}

// Advance resumes auto-rotation once a gesture's cooldown has passed and
// spins the globe one step.
func (g *Globe) Advance(now float64) {
	if g.resumeAt > 0 && now >= g.resumeAt {
		g.autoRotate = true
		g.resumeAt = 0
	}
	if g.autoRotate && !g.reduced && g.state != GlobeUnbooted {
		g.proj.Lambda += g.cfg.AutoRotateSpeed
	}
}

// Draw records the outline and, once the dataset is loaded, graticule,
// land and front-hemisphere dots. Widths scale with the zoom level.
func (g *Globe) Draw(c *Canvas, _ float64) {
	if g.state == GlobeUnbooted || g.base <= 0 {
		return
	}
	colors := g.colors.Colors()
	p := &g.proj
	sf := p.Scale / g.base

	c.StrokeCircle(p.CX, p.CY, p.Scale, outlineWidth*sf, colors.Outline)

	if g.state != GlobeReady {
		return
	}

	c.BeginPath()
	for _, line := range g.graticule {
		p.Line(c, line)
	}
	c.StrokePath(colors.Graticule, graticuleWidth*sf)

	// All land shares one path for the fill and the stroke.
	c.BeginPath()
	for _, f := range g.land.Features {
		for _, poly := range f.Polygons {
			for _, ring := range poly {
				p.Ring(c, ring)
			}
		}
	}
	c.FillPath(colors.LandFill, true)
	c.StrokePath(colors.LandStroke, landWidth*sf)

	clon, clat := p.Center()
	r := landDotRadius * sf
	for _, d := range g.Dots() {
		if Distance(d.Lon, d.Lat, clon, clat) > math.Pi/2 {
			continue
		}
		x, y, visible := p.Project(d.Lon, d.Lat)
		if !visible {
			continue
		}
		c.FillCircle(x, y, r, colors.Dots)
	}
}

// HandlePointer implements drag-to-rotate, single-touch rotate and
// wheel zoom. Rotation and zoom changes request an immediate render.
func (g *Globe) HandlePointer(ev *PointerEvent) bool {
	if g.state == GlobeUnbooted {
		return false
	}
	switch ev.Kind {
	case PointerDown:
		g.beginGesture(gestureMouse, ev)
	case PointerMove:
		if g.gesture == gestureMouse {
			g.rotateTo(ev)
			return true
		}
	case PointerUp:
		if g.gesture == gestureMouse {
			g.gesture = gestureNone
			g.resumeAt = ev.Time + g.cfg.MouseCooldown
		}
	case TouchStart:
		if ev.Touches == 1 {
			g.beginGesture(gestureTouch, ev)
		}
	case TouchMove:
		if ev.Touches == 1 && g.gesture == gestureTouch {
			g.rotateTo(ev)
			return true
		}
	case TouchEnd:
		if g.gesture == gestureTouch && ev.Touches == 0 {
			g.gesture = gestureNone
		}
		g.resumeAt = ev.Time + g.cfg.TouchCooldown
	case PointerWheel:
		ev.PreventDefault()
		factor := 1.1
		if ev.WheelDeltaY > 0 {
			factor = 0.9
		}
		g.proj.Scale = clamp(g.proj.Scale*factor, g.base*g.cfg.MinZoom, g.base*g.cfg.MaxZoom)
		return true
	}
	return false
}

func (g *Globe) beginGesture(kind gestureKind, ev *PointerEvent) {
	g.gesture = kind
	g.autoRotate = false
	g.resumeAt = 0
	g.dragStart = Vec2{ev.X, ev.Y}
	g.rotStart = [2]float64{g.proj.Lambda, g.proj.Phi}
}

func (g *Globe) rotateTo(ev *PointerEvent) {
	dx := ev.X - g.dragStart.X
	dy := ev.Y - g.dragStart.Y
	g.proj.Lambda = g.rotStart[0] + dx*g.cfg.DragSpeed
	g.proj.Phi = clamp(g.rotStart[1]-dy*g.cfg.DragSpeed, -90, 90)
}

// Close cancels a pending fetch and detaches the palette.
func (g *Globe) Close() {
	if g.cancel != nil {
		g.cancel()
	}
	g.colors.Close()
}

// CursorMode expands the cursor ring over the globe.
func (g *Globe) CursorMode() CursorMode {
	return CursorExpand
}
