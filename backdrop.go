package backdrop

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at submission time.
type Color struct {
	R, G, B, A float64
}

// WithAlpha returns a copy of c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// ToRGBA converts c to a premultiplied color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersection returns the overlapping area of r and other. The result has
// zero size when they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.X+r.Width, other.X+other.Width)
	y1 := math.Min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Area returns Width*Height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Theme is the two-valued site theme.
type Theme uint8

const (
	ThemeDark  Theme = iota // default on first visit
	ThemeLight
)

// String returns "dark" or "light".
func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

// ParseTheme maps "light" to ThemeLight and anything else to ThemeDark.
func ParseTheme(s string) Theme {
	if s == "light" {
		return ThemeLight
	}
	return ThemeDark
}

// PointerKind identifies a kind of pointer event delivered to a surface.
type PointerKind uint8

const (
	PointerMove  PointerKind = iota // pointer moved (button up or down)
	PointerLeave                    // pointer left the surface bounds
	PointerDown                     // primary button pressed
	PointerUp                       // primary button released
	PointerWheel                    // discrete wheel step
	TouchStart                      // a touch began
	TouchMove                       // touches moved
	TouchEnd                        // a touch ended
)

// PointerEvent is a surface-local pointer, touch or wheel event.
type PointerEvent struct {
	Kind PointerKind
	// X and Y are surface-local logical coordinates. They may lie outside
	// the surface while the pointer is captured.
	X, Y float64
	// Time is the page clock in milliseconds when the event was dispatched.
	Time float64
	// Touches is the number of touches currently down (touch events only).
	Touches int
	// WheelDeltaY is positive when scrolling down (away from the user).
	WheelDeltaY float64

	defaultPrevented bool
}

// PreventDefault suppresses the host's default handling (page scrolling for
// wheel events).
func (e *PointerEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *PointerEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
