package backdrop

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// CursorMode is how the custom cursor behaves over a surface.
type CursorMode uint8

const (
	CursorNormal    CursorMode = iota // eased dot and ring
	CursorPrecision                   // dot snaps to the pointer
	CursorExpand                      // ring grows to signal an interactive region
)

// CursorHinter is implemented by renderers that change the cursor while the
// pointer is over their surface.
type CursorHinter interface {
	CursorMode() CursorMode
}

// CursorConfig tunes the cursor overlay. Zero fields take the defaults.
type CursorConfig struct {
	Gain           float64 // easing factor toward the pointer (0.12)
	DotRadius      float64 // px (4)
	Radius         float64 // ring radius in px (6)
	ExpandedRadius float64 // ring radius over interactive regions (18)
	MinViewport    float64 // viewports this wide or narrower disable the cursor (768)
	FPS            int     // spring time step (60)
	Frequency      float64 // spring angular frequency (8)
	Damping        float64 // spring damping ratio (0.7)
}

// DefaultCursorConfig returns the standard cursor tuning.
func DefaultCursorConfig() CursorConfig {
	return CursorConfig{
		Gain:           0.12,
		DotRadius:      4,
		Radius:         6,
		ExpandedRadius: 18,
		MinViewport:    768,
		FPS:            60,
		Frequency:      8,
		Damping:        0.7,
	}
}

func (c CursorConfig) withDefaults() CursorConfig {
	d := DefaultCursorConfig()
	if c.Gain <= 0 || c.Gain > 1 {
		c.Gain = d.Gain
	}
	if c.DotRadius <= 0 {
		c.DotRadius = d.DotRadius
	}
	if c.Radius <= 0 {
		c.Radius = d.Radius
	}
	if c.ExpandedRadius <= 0 {
		c.ExpandedRadius = d.ExpandedRadius
	}
	if c.MinViewport <= 0 {
		c.MinViewport = d.MinViewport
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.Frequency <= 0 {
		c.Frequency = d.Frequency
	}
	if c.Damping <= 0 {
		c.Damping = d.Damping
	}
	return c
}

// CursorColors is the cursor palette.
type CursorColors struct {
	Dot, Ring, Precision Color
}

func cursorColors(t Theme) CursorColors {
	fg, bg := Foreground(t), Background(t)
	return CursorColors{
		Dot:       fg,
		Ring:      fg.WithAlpha(0.5),
		Precision: blend(fg, bg, 0.35),
	}
}

// Cursor is the page-level pointer overlay drawn above every surface. It is
// disabled on touch platforms and narrow viewports.
type Cursor struct {
	cfg     CursorConfig
	pointer *PointerTracker
	colors  *ColorCache[CursorColors]
	spring  harmonica.Spring
	touch   bool

	enabled  bool
	mode     CursorMode
	radius   float64
	velocity float64
}

// NewCursor creates a cursor for env. Call Resize with the viewport width
// before use.
func NewCursor(cfg CursorConfig, env Env, theme *ThemeSignal) *Cursor {
	cfg = cfg.withDefaults()
	return &Cursor{
		cfg:     cfg,
		pointer: NewPointerTracker(cfg.Gain),
		colors:  NewColorCache(theme, cursorColors),
		spring:  harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.Frequency, cfg.Damping),
		touch:   env.TouchCapable,
		radius:  cfg.Radius,
	}
}

// Resize re-evaluates the viewport-width rule.
func (c *Cursor) Resize(viewportW float64) {
	c.enabled = !c.touch && viewportW > c.cfg.MinViewport
}

// Enabled reports whether the cursor is drawn.
func (c *Cursor) Enabled() bool {
	return c.enabled
}

// Pointer returns the cursor's tracker.
func (c *Cursor) Pointer() *PointerTracker {
	return c.pointer
}

// Move records the pointer in viewport coordinates.
func (c *Cursor) Move(x, y float64) {
	c.pointer.Move(x, y)
}

// Leave hides the cursor until the next move.
func (c *Cursor) Leave() {
	c.pointer.Leave()
}

// SetMode switches the cursor behavior for the region under the pointer.
func (c *Cursor) SetMode(m CursorMode) {
	c.mode = m
	c.pointer.SetPrecision(m == CursorPrecision)
}

// Mode returns the current mode.
func (c *Cursor) Mode() CursorMode {
	return c.mode
}

// Radius returns the current ring radius.
func (c *Cursor) Radius() float64 {
	return c.radius
}

// Step eases the dot and springs the ring toward its target radius.
func (c *Cursor) Step() {
	c.pointer.Step()
	target := c.cfg.Radius
	if c.mode == CursorExpand {
		target = c.cfg.ExpandedRadius
	}
	c.radius, c.velocity = c.spring.Update(c.radius, c.velocity, target)
}

// Draw records the cursor in viewport coordinates. Positions are truncated
// to whole pixels.
func (c *Cursor) Draw(cv *Canvas) {
	if !c.enabled {
		return
	}
	p := c.pointer.Position()
	if p.X <= sentinelCutoff {
		return
	}
	x, y := math.Trunc(p.X), math.Trunc(p.Y)
	colors := c.colors.Colors()
	if c.mode == CursorPrecision {
		cv.FillCircle(x, y, c.cfg.DotRadius/2, colors.Precision)
		cv.StrokeCircle(x, y, c.radius, 1, colors.Precision)
		return
	}
	cv.FillCircle(x, y, c.cfg.DotRadius, colors.Dot)
	cv.StrokeCircle(x, y, math.Max(0, c.radius), 1, colors.Ring)
}

// Close detaches the palette from the theme signal.
func (c *Cursor) Close() {
	c.colors.Close()
}
