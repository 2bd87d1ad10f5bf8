package backdrop

import (
	"math"
	"math/rand/v2"
)

// GridConfig tunes the interactive grid. Zero fields take the defaults.
type GridConfig struct {
	CellSize     float64 // cell edge in px (50)
	Squares      int     // number of autonomous squares (15)
	MaxOpacity   float64 // peak square opacity (0.13)
	FadeDuration float64 // full fade-in/fade-out cycle in ms (2800)
	Jitter       float64 // max random delay before a relocated square starts, ms (400)
	Radius       int     // proximity window half-size in cells (2)
}

// DefaultGridConfig returns the standard grid tuning.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		CellSize:     50,
		Squares:      15,
		MaxOpacity:   0.13,
		FadeDuration: 2800,
		Jitter:       400,
		Radius:       2,
	}
}

func (c GridConfig) withDefaults() GridConfig {
	d := DefaultGridConfig()
	if c.CellSize <= 0 {
		c.CellSize = d.CellSize
	}
	if c.Squares <= 0 {
		c.Squares = d.Squares
	}
	if c.MaxOpacity <= 0 {
		c.MaxOpacity = d.MaxOpacity
	}
	if c.FadeDuration <= 0 {
		c.FadeDuration = d.FadeDuration
	}
	if c.Jitter < 0 {
		c.Jitter = d.Jitter
	}
	if c.Radius <= 0 {
		c.Radius = d.Radius
	}
	return c
}

const (
	squareEpsilon    = 0.004
	influenceEpsilon = 0.01
	fillReach        = 2.2  // proximity fill divisor, in cells
	fillAlpha        = 0.22 // proximity fill alpha at full influence
	lineBaseAlpha    = 0.09
	lineBoost        = 0.45
	dotRadius        = 2.5
	dotAlpha         = 0.9
)

// GridColors is the grid palette.
type GridColors struct {
	Ink Color
}

func gridColors(t Theme) GridColors {
	if t == ThemeLight {
		return GridColors{Ink: hexColor("#161616")}
	}
	return GridColors{Ink: hexColor("#f1f1f1")}
}

// AnimatedSquare is one autonomously fading grid cell. Squares are never
// destroyed; a finished square is moved to a new random cell.
type AnimatedSquare struct {
	Col, Row int
	Start    float64 // cycle start in ms
}

// SquareOpacity is the triangular fade of a square elapsed ms into a cycle of
// the given duration: 0 at both ends, peak at the midpoint.
func SquareOpacity(elapsed, duration, peak float64) float64 {
	half := duration / 2
	switch {
	case elapsed < 0 || elapsed >= duration:
		return 0
	case elapsed < half:
		return elapsed / half * peak
	default:
		return (duration - elapsed) / half * peak
	}
}

// Grid draws a cell grid with fading squares and pointer highlights.
type Grid struct {
	cfg     GridConfig
	pointer *PointerTracker
	colors  *ColorCache[GridColors]
	rng     *rand.Rand

	width, height float64
	squares       []AnimatedSquare

	// proximityCells counts cells evaluated by the last proximity pass.
	proximityCells int
}

// NewGrid creates a grid whose palette follows theme. rng drives square
// placement; nil uses a randomly seeded source.
func NewGrid(cfg GridConfig, theme *ThemeSignal, rng *rand.Rand) *Grid {
	cfg = cfg.withDefaults()
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Grid{
		cfg: cfg,
		// The grid follows the raw pointer so the cursor overlay, which
		// snaps while over the grid, lines up with the highlight.
		pointer: NewPointerTracker(1),
		colors:  NewColorCache(theme, gridColors),
		rng:     rng,
	}
}

// Pointer returns the grid's pointer tracker.
func (g *Grid) Pointer() *PointerTracker {
	return g.pointer
}

// Hovering reports whether the pointer is over the grid.
func (g *Grid) Hovering() bool {
	return g.pointer.Active()
}

// Squares returns the autonomous squares. The slice MUST NOT be mutated.
func (g *Grid) Squares() []AnimatedSquare {
	return g.squares
}

// Layout fills the container.
func (g *Grid) Layout(cw, ch float64) (float64, float64) {
	return cw, ch
}

// Resize records the size and re-seeds every square.
func (g *Grid) Resize(w, h, now float64) {
	g.width, g.height = w, h
	g.squares = g.squares[:0]
	for range g.cfg.Squares {
		col, row := g.randomCell()
		g.squares = append(g.squares, AnimatedSquare{
			Col: col, Row: row,
			Start: now + g.rng.Float64()*g.cfg.FadeDuration,
		})
	}
}

// Advance eases (snaps) the pointer once per frame.
func (g *Grid) Advance(float64) {
	g.pointer.Step()
}

func (g *Grid) randomCell() (col, row int) {
	maxCol := max(1, int(math.Floor(g.width/g.cfg.CellSize)))
	maxRow := max(1, int(math.Floor(g.height/g.cfg.CellSize)))
	return g.rng.IntN(maxCol), g.rng.IntN(maxRow)
}

// Dims returns the number of whole columns and rows.
func (g *Grid) Dims() (cols, rows int) {
	return int(math.Floor(g.width / g.cfg.CellSize)), int(math.Floor(g.height / g.cfg.CellSize))
}

// Influence is the linear falloff 1 - dist/reach clamped at zero.
func Influence(dist, reach float64) float64 {
	return math.Max(0, 1-dist/reach)
}

// Draw records the four grid passes: squares, proximity fill, lines, dots.
func (g *Grid) Draw(c *Canvas, now float64) {
	ink := g.colors.Colors().Ink
	cell := g.cfg.CellSize
	cols, rows := g.Dims()
	p := g.pointer.Position()
	hovering := g.pointer.Active() && p.X > sentinelCutoff
	hCol := int(math.Floor(p.X / cell))
	hRow := int(math.Floor(p.Y / cell))
	r := g.cfg.Radius

	g.drawSquares(c, ink, now)

	g.proximityCells = 0
	if hovering {
		for dc := -r; dc <= r; dc++ {
			for dr := -r; dr <= r; dr++ {
				col, row := hCol+dc, hRow+dr
				if col < 0 || row < 0 || col >= cols || row >= rows {
					continue
				}
				g.proximityCells++
				cx := float64(col)*cell + cell/2
				cy := float64(row)*cell + cell/2
				inf := Influence(math.Hypot(cx-p.X, cy-p.Y), cell*fillReach)
				if inf > influenceEpsilon {
					c.FillRect(float64(col)*cell+1, float64(row)*cell+1, cell-1, cell-1, ink.WithAlpha(inf*fillAlpha))
				}
			}
		}
	}

	for col := 0; col <= cols; col++ {
		x := float64(col) * cell
		c.StrokeLine(x, 0, x, g.height, 1, ink.WithAlpha(lineBaseAlpha+g.lineExtra(x, p.X, hovering)))
	}
	for row := 0; row <= rows; row++ {
		y := float64(row) * cell
		c.StrokeLine(0, y, g.width, y, 1, ink.WithAlpha(lineBaseAlpha+g.lineExtra(y, p.Y, hovering)))
	}

	if hovering {
		for dc := -r; dc <= r+1; dc++ {
			for dr := -r; dr <= r+1; dr++ {
				x := float64(hCol+dc) * cell
				y := float64(hRow+dr) * cell
				inf := Influence(math.Hypot(x-p.X, y-p.Y), cell*2)
				if inf > influenceEpsilon {
					c.FillCircle(x, y, dotRadius*inf, ink.WithAlpha(inf*dotAlpha))
				}
			}
		}
	}
}

// lineExtra is the brightening of a grid line at coordinate at for a pointer
// at p along the same axis.
func (g *Grid) lineExtra(at, p float64, hovering bool) float64 {
	if !hovering {
		return 0
	}
	t := Influence(math.Abs(at-p), g.cfg.CellSize*2)
	return t * t * lineBoost
}

func (g *Grid) drawSquares(c *Canvas, ink Color, now float64) {
	cell := g.cfg.CellSize
	for i := range g.squares {
		sq := &g.squares[i]
		elapsed := now - sq.Start
		if elapsed >= g.cfg.FadeDuration {
			sq.Col, sq.Row = g.randomCell()
			sq.Start = now + g.rng.Float64()*g.cfg.Jitter
			continue
		}
		op := SquareOpacity(elapsed, g.cfg.FadeDuration, g.cfg.MaxOpacity)
		if op > squareEpsilon {
			c.FillRect(float64(sq.Col)*cell+1, float64(sq.Row)*cell+1, cell-1, cell-1, ink.WithAlpha(op))
		}
	}
}

// HandlePointer tracks hover. The grid never re-renders out of loop.
func (g *Grid) HandlePointer(ev *PointerEvent) bool {
	switch ev.Kind {
	case PointerMove:
		g.pointer.Move(ev.X, ev.Y)
	case PointerLeave:
		g.pointer.Leave()
	}
	return false
}

// Close detaches the palette from the theme signal.
func (g *Grid) Close() {
	g.colors.Close()
}

// CursorMode puts the cursor in precision mode over the grid.
func (g *Grid) CursorMode() CursorMode {
	return CursorPrecision
}
