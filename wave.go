package backdrop

import "math"

// WaveConfig tunes the wave field. Zero fields take the defaults.
type WaveConfig struct {
	Strata       int     // number of horizontal wave lines (8)
	SampleStep   float64 // x distance between samples in px (6)
	RippleRadius float64 // pointer influence radius in px (200)
	RippleHeight float64 // peak ripple displacement in px (50)
	TimeStep     float64 // animation clock increment per frame (0.012)
	PointerGain  float64 // pointer easing factor (0.08)
	LineWidth    float64 // stroke width in px (1)
}

// DefaultWaveConfig returns the standard wave field tuning.
func DefaultWaveConfig() WaveConfig {
	return WaveConfig{
		Strata:       8,
		SampleStep:   6,
		RippleRadius: 200,
		RippleHeight: 50,
		TimeStep:     0.012,
		PointerGain:  0.08,
		LineWidth:    1,
	}
}

func (c WaveConfig) withDefaults() WaveConfig {
	d := DefaultWaveConfig()
	if c.Strata < 2 {
		c.Strata = d.Strata
	}
	if c.SampleStep <= 0 {
		c.SampleStep = d.SampleStep
	}
	if c.RippleRadius <= 0 {
		c.RippleRadius = d.RippleRadius
	}
	if c.RippleHeight == 0 {
		c.RippleHeight = d.RippleHeight
	}
	if c.TimeStep == 0 {
		c.TimeStep = d.TimeStep
	}
	if c.PointerGain <= 0 {
		c.PointerGain = d.PointerGain
	}
	if c.LineWidth <= 0 {
		c.LineWidth = d.LineWidth
	}
	return c
}

// WaveColors is the wave field palette: one RGB used for every stratum.
type WaveColors struct {
	Line Color
}

func waveColors(t Theme) WaveColors {
	if t == ThemeLight {
		return WaveColors{Line: hexColor("#000000")}
	}
	return WaveColors{Line: hexColor("#ffffff")}
}

// Stratum holds the derived parameters of one wave line.
type Stratum struct {
	Base      float64 // vertical offset in px
	Amplitude float64
	Frequency float64 // radians per px
	Speed     float64 // radians per clock unit
	Offset    float64 // phase offset
	Alpha     float64
}

// StratumParams derives stratum i of n for a surface of the given height.
// Center strata are taller and more opaque.
func StratumParams(i, n int, height float64) Stratum {
	progress := float64(i) / float64(n-1)
	center := 1 - math.Abs(progress-0.5)*2
	return Stratum{
		Base:      height * (0.12 + progress*0.78),
		Amplitude: 20 + center*18,
		Frequency: 0.0055 + float64(i)*0.0004,
		Speed:     0.28 + float64(i)*0.055,
		Offset:    float64(i) * 1.2,
		Alpha:     0.035 + center*0.045,
	}
}

// WaveField draws horizontal sine strata that ripple around the pointer.
type WaveField struct {
	cfg     WaveConfig
	pointer *PointerTracker
	colors  *ColorCache[WaveColors]

	width, height float64
	t             float64
	frames        int
}

// NewWaveField creates a wave field whose palette follows theme.
func NewWaveField(cfg WaveConfig, theme *ThemeSignal) *WaveField {
	cfg = cfg.withDefaults()
	return &WaveField{
		cfg:     cfg,
		pointer: NewPointerTracker(cfg.PointerGain),
		colors:  NewColorCache(theme, waveColors),
	}
}

// Pointer returns the wave field's pointer tracker.
func (w *WaveField) Pointer() *PointerTracker {
	return w.pointer
}

// Time returns the animation clock.
func (w *WaveField) Time() float64 {
	return w.t
}

// Layout fills the container.
func (w *WaveField) Layout(cw, ch float64) (float64, float64) {
	return cw, ch
}

// Resize records the new logical size.
func (w *WaveField) Resize(width, height, _ float64) {
	w.width, w.height = width, height
}

// Advance eases the pointer and steps the clock. The clock moves a fixed
// amount per frame, so the wave speed follows the frame rate.
func (w *WaveField) Advance(float64) {
	w.pointer.Step()
	if w.frames > 0 {
		w.t += w.cfg.TimeStep
	}
	w.frames++
}

// Displacement returns the ripple offset for a wave sample at distance dist
// from the pointer. Outside the ripple radius it is exactly zero.
func (w *WaveField) Displacement(dist float64) float64 {
	r := w.cfg.RippleRadius
	if dist >= r {
		return 0
	}
	influence := 1 - dist/r
	return influence * influence * w.cfg.RippleHeight * math.Sin(dist*0.045-w.t*3.5)
}

// Draw records every stratum as one open path.
func (w *WaveField) Draw(c *Canvas, _ float64) {
	line := w.colors.Colors().Line
	p := w.pointer.Position()
	active := p.X > sentinelCutoff

	for i := 0; i < w.cfg.Strata; i++ {
		st := StratumParams(i, w.cfg.Strata, w.height)
		phase := w.t*st.Speed + st.Offset

		c.BeginPath()
		for x := 0.0; x <= w.width; x += w.cfg.SampleStep {
			y := st.Base + math.Sin(x*st.Frequency+phase)*st.Amplitude
			if active {
				y += w.Displacement(math.Hypot(x-p.X, y-p.Y))
			}
			c.LineTo(x, y)
		}
		c.StrokePath(line.WithAlpha(st.Alpha), w.cfg.LineWidth)
	}
}

// HandlePointer tracks moves and leaves; the wave never re-renders out of
// loop.
func (w *WaveField) HandlePointer(ev *PointerEvent) bool {
	switch ev.Kind {
	case PointerMove:
		w.pointer.Move(ev.X, ev.Y)
	case PointerLeave:
		w.pointer.Leave()
	}
	return false
}

// Close detaches the palette from the theme signal.
func (w *WaveField) Close() {
	w.colors.Close()
}
