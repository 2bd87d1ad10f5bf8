package backdrop

import (
	"github.com/lucasb-eyer/go-colorful"
)

// --- Theme signal ---

type themeHandler struct {
	id uint32
	fn func(Theme)
}

// ThemeSignal holds the current theme and notifies subscribers when it
// changes. It stands in for the page's theme attribute plus the toggle's
// change notification.
type ThemeSignal struct {
	theme    Theme
	handlers []themeHandler
	nextID   uint32
}

// NewThemeSignal creates a signal starting at t.
func NewThemeSignal(t Theme) *ThemeSignal {
	return &ThemeSignal{theme: t}
}

// Theme returns the current theme.
func (s *ThemeSignal) Theme() Theme {
	return s.theme
}

// Set changes the theme and notifies subscribers. Setting the current theme
// again still notifies, as a toggle click would.
func (s *ThemeSignal) Set(t Theme) {
	s.theme = t
	for _, h := range s.handlers {
		h.fn(t)
	}
}

// Toggle flips between dark and light.
func (s *ThemeSignal) Toggle() {
	if s.theme == ThemeDark {
		s.Set(ThemeLight)
		return
	}
	s.Set(ThemeDark)
}

// Subscription allows removing a theme subscriber.
type Subscription struct {
	id  uint32
	sig *ThemeSignal
}

// Subscribe registers fn to run after every theme change.
func (s *ThemeSignal) Subscribe(fn func(Theme)) Subscription {
	s.nextID++
	s.handlers = append(s.handlers, themeHandler{id: s.nextID, fn: fn})
	return Subscription{id: s.nextID, sig: s}
}

// Remove unregisters the subscriber. Safe to call more than once.
func (sub Subscription) Remove() {
	if sub.sig == nil {
		return
	}
	hs := sub.sig.handlers
	for i := range hs {
		if hs[i].id == sub.id {
			copy(hs[i:], hs[i+1:])
			hs[len(hs)-1] = themeHandler{}
			sub.sig.handlers = hs[:len(hs)-1]
			return
		}
	}
}

// --- Color cache ---

// ColorCache memoizes a palette derived from the theme. Invalidate drops the
// memo; the palette is recomputed lazily by the next Colors call, so a frame
// loop never pays for it more than once per theme change.
type ColorCache[T any] struct {
	source  *ThemeSignal
	compute func(Theme) T

	memo     T
	valid    bool
	computes int
	sub      Subscription
}

// NewColorCache creates a cache bound to source. It subscribes to theme
// changes and invalidates itself on each.
func NewColorCache[T any](source *ThemeSignal, compute func(Theme) T) *ColorCache[T] {
	c := &ColorCache[T]{source: source, compute: compute}
	if source != nil {
		c.sub = source.Subscribe(func(Theme) { c.Invalidate() })
	}
	return c
}

// Colors returns the memoized palette, computing it if needed.
func (c *ColorCache[T]) Colors() T {
	if !c.valid {
		t := ThemeDark
		if c.source != nil {
			t = c.source.Theme()
		}
		c.memo = c.compute(t)
		c.valid = true
		c.computes++
	}
	return c.memo
}

// Invalidate empties the memo without recomputing.
func (c *ColorCache[T]) Invalidate() {
	var zero T
	c.memo = zero
	c.valid = false
}

// Close detaches the cache from its theme signal.
func (c *ColorCache[T]) Close() {
	c.sub.Remove()
}

// Computes returns how many times the palette has been computed.
func (c *ColorCache[T]) Computes() int {
	return c.computes
}

// --- Palette helpers ---

// hexColor parses a #rrggbb string into an opaque Color. Invalid input yields
// opaque black.
func hexColor(hex string) Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{A: 1}
	}
	return fromColorful(c, 1)
}

func fromColorful(c colorful.Color, alpha float64) Color {
	c = c.Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

// blend mixes a and b in RGB space and keeps a's alpha.
func blend(a, b Color, t float64) Color {
	ca := colorful.Color{R: a.R, G: a.G, B: a.B}
	cb := colorful.Color{R: b.R, G: b.G, B: b.B}
	return fromColorful(ca.BlendRgb(cb, t), a.A)
}

// Background returns the page background for a theme.
func Background(t Theme) Color {
	if t == ThemeLight {
		return hexColor("#f7f7f5")
	}
	return hexColor("#0b0b0b")
}

// Foreground returns the page text color for a theme.
func Foreground(t Theme) Color {
	if t == ThemeLight {
		return hexColor("#161616")
	}
	return hexColor("#f1f1f1")
}
