package backdrop

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestGrid(w, h float64) *Grid {
	g := NewGrid(GridConfig{}, NewThemeSignal(ThemeDark), rand.New(rand.NewPCG(1, 2)))
	g.Resize(w, h, 0)
	return g
}

func countCommands(c *Canvas, typ CommandType) int {
	n := 0
	for _, cmd := range c.Commands() {
		if cmd.Type == typ {
			n++
		}
	}
	return n
}

func TestSquareOpacity(t *testing.T) {
	tests := []struct {
		elapsed, want float64
	}{
		{-1, 0},
		{0, 0},
		{700, 0.065},
		{1400, 0.13},
		{2100, 0.065},
		{2800, 0},
		{5000, 0},
	}
	for _, tt := range tests {
		if got := SquareOpacity(tt.elapsed, 2800, 0.13); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("SquareOpacity(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}

func TestSquareOpacityBounded(t *testing.T) {
	for e := -100.0; e <= 3000; e += 3.7 {
		if got := SquareOpacity(e, 2800, 0.13); got < 0 || got > 0.13 {
			t.Fatalf("SquareOpacity(%v) = %v, out of [0, 0.13]", e, got)
		}
	}
}

func TestInfluenceZeroBeyondReach(t *testing.T) {
	if got := Influence(110, 110); got != 0 {
		t.Errorf("Influence at reach = %v, want 0", got)
	}
	if got := Influence(110+1e-9, 110); got != 0 {
		t.Errorf("Influence past reach = %v, want 0", got)
	}
	if got := Influence(0, 110); got != 1 {
		t.Errorf("Influence at origin = %v, want 1", got)
	}
}

func TestGridResizeSeedsSquares(t *testing.T) {
	g := NewGrid(GridConfig{}, nil, rand.New(rand.NewPCG(3, 4)))
	g.Resize(500, 300, 1000)
	sq := g.Squares()
	if len(sq) != 15 {
		t.Fatalf("len(Squares) = %d, want 15", len(sq))
	}
	for _, s := range sq {
		if s.Start < 1000 || s.Start >= 3800 {
			t.Errorf("Start = %v, want [1000, 3800)", s.Start)
		}
		if s.Col < 0 || s.Col >= 10 || s.Row < 0 || s.Row >= 6 {
			t.Errorf("cell (%d, %d) outside 10x6", s.Col, s.Row)
		}
	}
	g.Resize(500, 300, 5000)
	if len(g.Squares()) != 15 {
		t.Errorf("re-seed should keep 15 squares, got %d", len(g.Squares()))
	}
}

func TestGridRelocatesFinishedSquares(t *testing.T) {
	g := newTestGrid(500, 300)
	c := NewCanvas(500, 300)
	now := 10000.0
	g.Draw(c, now)
	for _, s := range g.Squares() {
		if s.Start < now || s.Start >= now+400 {
			t.Errorf("relocated Start = %v, want [%v, %v)", s.Start, now, now+400)
		}
	}
}

func TestGridLinesWithoutHover(t *testing.T) {
	g := newTestGrid(200, 100)
	c := NewCanvas(200, 100)
	g.Draw(c, 0)
	if n := countCommands(c, CommandStrokeLine); n != 8 {
		t.Errorf("lines = %d, want 8", n)
	}
	if n := countCommands(c, CommandFillCircle); n != 0 {
		t.Errorf("dots = %d, want 0 without hover", n)
	}
	for _, cmd := range c.Commands() {
		if cmd.Type == CommandStrokeLine && math.Abs(cmd.Color.A-0.09) > 1e-12 {
			t.Errorf("line alpha = %v, want 0.09", cmd.Color.A)
		}
	}
}

func TestGridProximityWindowIsBounded(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		max  int
	}{
		{"center", 2525, 2525, 25},
		{"corner", 10, 10, 9},
		{"edge", 2525, 10, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(5000, 5000)
			g.HandlePointer(&PointerEvent{Kind: PointerMove, X: tt.x, Y: tt.y})
			g.Advance(0)
			c := NewCanvas(5000, 5000)
			g.Draw(c, 0)
			if g.proximityCells != tt.max {
				t.Errorf("proximity cells = %d, want %d", g.proximityCells, tt.max)
			}
			if n := countCommands(c, CommandFillRect); n > 25 {
				t.Errorf("proximity fills = %d, want <= 25", n)
			}
		})
	}
}

func TestGridHoverBrightensNearbyLines(t *testing.T) {
	g := newTestGrid(500, 500)
	g.HandlePointer(&PointerEvent{Kind: PointerMove, X: 250, Y: 250})
	g.Advance(0)
	if !g.Hovering() {
		t.Fatal("grid should report hover")
	}
	c := NewCanvas(500, 500)
	g.Draw(c, 0)
	var at250, at0 float64
	for _, cmd := range c.Commands() {
		if cmd.Type != CommandStrokeLine || cmd.X != cmd.X2 {
			continue
		}
		switch cmd.X {
		case 250:
			at250 = cmd.Color.A
		case 0:
			at0 = cmd.Color.A
		}
	}
	if math.Abs(at250-0.54) > 1e-12 {
		t.Errorf("line under pointer alpha = %v, want 0.54", at250)
	}
	if math.Abs(at0-0.09) > 1e-12 {
		t.Errorf("far line alpha = %v, want 0.09", at0)
	}
	if countCommands(c, CommandFillCircle) == 0 {
		t.Error("hover should draw intersection dots")
	}
}

func TestGridLeaveClearsHighlight(t *testing.T) {
	g := newTestGrid(500, 500)
	g.HandlePointer(&PointerEvent{Kind: PointerMove, X: 250, Y: 250})
	g.Advance(0)
	g.HandlePointer(&PointerEvent{Kind: PointerLeave})
	g.Advance(16)
	c := NewCanvas(500, 500)
	g.Draw(c, 0)
	if g.proximityCells != 0 || countCommands(c, CommandFillCircle) != 0 {
		t.Error("leave should remove every proximity effect")
	}
}

func TestGridCursorMode(t *testing.T) {
	var r Renderer = newTestGrid(100, 100)
	h, ok := r.(CursorHinter)
	if !ok || h.CursorMode() != CursorPrecision {
		t.Error("grid should request precision cursor")
	}
}
