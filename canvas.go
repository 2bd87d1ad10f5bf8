package backdrop

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CommandType identifies the kind of draw command.
type CommandType uint8

const (
	CommandFillRect     CommandType = iota // filled axis-aligned rectangle
	CommandFillCircle                      // filled circle
	CommandStrokeCircle                    // circle outline
	CommandStrokeLine                      // single line segment
	CommandFillPath                        // fill of the current path
	CommandStrokePath                      // stroke of the current path
)

// DrawCommand is a single draw instruction recorded in logical coordinates.
type DrawCommand struct {
	Type  CommandType
	Color Color

	// Rect: X, Y, W, H. Circle: X, Y center and R. Line: X, Y to X2, Y2.
	X, Y, W, H float64
	X2, Y2     float64
	R          float64

	LineWidth float64
	EvenOdd   bool

	// Sub-path range for path commands.
	pathStart, pathEnd int
}

type subpath struct {
	start, end int // range into Canvas.points
	closed     bool
}

// Canvas records one frame of drawing. Renderers draw into it with a small
// 2D-context style API; the recording is replayed into an ebiten.Image by
// Submit or into a gg.Context by Paint. A fresh frame starts with Reset.
type Canvas struct {
	Width, Height float64

	commands []DrawCommand
	points   []Vec2
	subpaths []subpath

	pathStart int
	drawing   bool
}

// NewCanvas creates an empty canvas with the given logical size.
func NewCanvas(w, h float64) *Canvas {
	return &Canvas{Width: w, Height: h}
}

// Reset discards the recording, like clearing the whole surface.
func (c *Canvas) Reset() {
	c.commands = c.commands[:0]
	c.points = c.points[:0]
	c.subpaths = c.subpaths[:0]
	c.pathStart = 0
	c.drawing = false
}

// Commands returns the recorded commands. The slice MUST NOT be mutated.
func (c *Canvas) Commands() []DrawCommand {
	return c.commands
}

// FillRect records a filled rectangle.
func (c *Canvas) FillRect(x, y, w, h float64, clr Color) {
	c.commands = append(c.commands, DrawCommand{Type: CommandFillRect, X: x, Y: y, W: w, H: h, Color: clr})
}

// FillCircle records a filled circle.
func (c *Canvas) FillCircle(cx, cy, r float64, clr Color) {
	c.commands = append(c.commands, DrawCommand{Type: CommandFillCircle, X: cx, Y: cy, R: r, Color: clr})
}

// StrokeCircle records a circle outline.
func (c *Canvas) StrokeCircle(cx, cy, r, width float64, clr Color) {
	c.commands = append(c.commands, DrawCommand{Type: CommandStrokeCircle, X: cx, Y: cy, R: r, LineWidth: width, Color: clr})
}

// StrokeLine records a line segment.
func (c *Canvas) StrokeLine(x1, y1, x2, y2, width float64, clr Color) {
	c.commands = append(c.commands, DrawCommand{Type: CommandStrokeLine, X: x1, Y: y1, X2: x2, Y2: y2, LineWidth: width, Color: clr})
}

// --- Paths ---

// BeginPath starts a new path. Sub-paths recorded before it are no longer
// part of the current path.
func (c *Canvas) BeginPath() {
	c.pathStart = len(c.subpaths)
	c.drawing = false
}

// MoveTo starts a new sub-path at (x, y).
func (c *Canvas) MoveTo(x, y float64) {
	c.points = append(c.points, Vec2{x, y})
	c.subpaths = append(c.subpaths, subpath{start: len(c.points) - 1, end: len(c.points)})
	c.drawing = true
}

// LineTo extends the current sub-path. Without one it behaves like MoveTo.
func (c *Canvas) LineTo(x, y float64) {
	if !c.drawing {
		c.MoveTo(x, y)
		return
	}
	c.points = append(c.points, Vec2{x, y})
	c.subpaths[len(c.subpaths)-1].end = len(c.points)
}

// ClosePath closes the current sub-path.
func (c *Canvas) ClosePath() {
	if !c.drawing {
		return
	}
	c.subpaths[len(c.subpaths)-1].closed = true
	c.drawing = false
}

// FillPath records a fill of the current path. evenOdd selects the even-odd
// rule so inner rings punch holes regardless of winding.
func (c *Canvas) FillPath(clr Color, evenOdd bool) {
	if c.pathStart == len(c.subpaths) {
		return
	}
	c.commands = append(c.commands, DrawCommand{
		Type: CommandFillPath, Color: clr, EvenOdd: evenOdd,
		pathStart: c.pathStart, pathEnd: len(c.subpaths),
	})
}

// StrokePath records a stroke of the current path.
func (c *Canvas) StrokePath(clr Color, width float64) {
	if c.pathStart == len(c.subpaths) {
		return
	}
	c.commands = append(c.commands, DrawCommand{
		Type: CommandStrokePath, Color: clr, LineWidth: width,
		pathStart: c.pathStart, pathEnd: len(c.subpaths),
	})
}

// PathPoints returns the points of every sub-path referenced by cmd.
func (c *Canvas) PathPoints(cmd DrawCommand) [][]Vec2 {
	out := make([][]Vec2, 0, cmd.pathEnd-cmd.pathStart)
	for _, sp := range c.subpaths[cmd.pathStart:cmd.pathEnd] {
		out = append(out, c.points[sp.start:sp.end])
	}
	return out
}

// countDrawCalls returns how many draw calls Submit issues for the recording.
func (c *Canvas) countDrawCalls() int {
	return len(c.commands)
}

// --- Submission: ebiten ---

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(Color{1, 1, 1, 1}.ToRGBA())
}

// submitBuffers holds reusable triangle buffers for path submission.
type submitBuffers struct {
	verts []ebiten.Vertex
	inds  []uint16
}

// Submit replays the recording into dst, scaling logical coordinates by
// scale (the pixel ratio).
func (c *Canvas) Submit(dst *ebiten.Image, scale float64, buf *submitBuffers) {
	if buf == nil {
		buf = &submitBuffers{}
	}
	s := float32(scale)
	for i := range c.commands {
		cmd := &c.commands[i]
		clr := cmd.Color.ToRGBA()
		switch cmd.Type {
		case CommandFillRect:
			vector.DrawFilledRect(dst, float32(cmd.X)*s, float32(cmd.Y)*s, float32(cmd.W)*s, float32(cmd.H)*s, clr, false)
		case CommandFillCircle:
			vector.DrawFilledCircle(dst, float32(cmd.X)*s, float32(cmd.Y)*s, float32(cmd.R)*s, clr, true)
		case CommandStrokeCircle:
			vector.StrokeCircle(dst, float32(cmd.X)*s, float32(cmd.Y)*s, float32(cmd.R)*s, float32(cmd.LineWidth)*s, clr, true)
		case CommandStrokeLine:
			vector.StrokeLine(dst, float32(cmd.X)*s, float32(cmd.Y)*s, float32(cmd.X2)*s, float32(cmd.Y2)*s, float32(cmd.LineWidth)*s, clr, false)
		case CommandFillPath, CommandStrokePath:
			c.submitPath(dst, cmd, s, buf)
		}
	}
}

func (c *Canvas) submitPath(dst *ebiten.Image, cmd *DrawCommand, s float32, buf *submitBuffers) {
	var path vector.Path
	for _, sp := range c.subpaths[cmd.pathStart:cmd.pathEnd] {
		pts := c.points[sp.start:sp.end]
		if len(pts) == 0 {
			continue
		}
		path.MoveTo(float32(pts[0].X)*s, float32(pts[0].Y)*s)
		for _, p := range pts[1:] {
			path.LineTo(float32(p.X)*s, float32(p.Y)*s)
		}
		if sp.closed {
			path.Close()
		}
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	if cmd.Type == CommandFillPath {
		buf.verts, buf.inds = path.AppendVerticesAndIndicesForFilling(buf.verts[:0], buf.inds[:0])
		op.FillRule = ebiten.FillRuleNonZero
		if cmd.EvenOdd {
			op.FillRule = ebiten.FillRuleEvenOdd
		}
	} else {
		buf.verts, buf.inds = path.AppendVerticesAndIndicesForStroke(buf.verts[:0], buf.inds[:0], &vector.StrokeOptions{
			Width:    float32(cmd.LineWidth) * s,
			LineJoin: vector.LineJoinRound,
		})
	}
	if len(buf.inds) == 0 {
		return
	}
	r, g, b, a := float32(cmd.Color.R), float32(cmd.Color.G), float32(cmd.Color.B), float32(clamp01(cmd.Color.A))
	for i := range buf.verts {
		v := &buf.verts[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}
	dst.DrawTriangles(buf.verts, buf.inds, whiteSubImage, op)
}

// --- Submission: gg ---

// Paint replays the recording into dc, scaling logical coordinates by scale.
func (c *Canvas) Paint(dc *gg.Context, scale float64) {
	for i := range c.commands {
		cmd := &c.commands[i]
		dc.SetRGBA(cmd.Color.R, cmd.Color.G, cmd.Color.B, cmd.Color.A)
		switch cmd.Type {
		case CommandFillRect:
			dc.DrawRectangle(cmd.X*scale, cmd.Y*scale, cmd.W*scale, cmd.H*scale)
			dc.Fill()
		case CommandFillCircle:
			dc.DrawCircle(cmd.X*scale, cmd.Y*scale, cmd.R*scale)
			dc.Fill()
		case CommandStrokeCircle:
			dc.SetLineWidth(cmd.LineWidth * scale)
			dc.DrawCircle(cmd.X*scale, cmd.Y*scale, cmd.R*scale)
			dc.Stroke()
		case CommandStrokeLine:
			dc.SetLineWidth(cmd.LineWidth * scale)
			dc.DrawLine(cmd.X*scale, cmd.Y*scale, cmd.X2*scale, cmd.Y2*scale)
			dc.Stroke()
		case CommandFillPath, CommandStrokePath:
			for _, sp := range c.subpaths[cmd.pathStart:cmd.pathEnd] {
				pts := c.points[sp.start:sp.end]
				if len(pts) == 0 {
					continue
				}
				dc.MoveTo(pts[0].X*scale, pts[0].Y*scale)
				for _, p := range pts[1:] {
					dc.LineTo(p.X*scale, p.Y*scale)
				}
				if sp.closed {
					dc.ClosePath()
				}
			}
			if cmd.Type == CommandFillPath {
				if cmd.EvenOdd {
					dc.SetFillRuleEvenOdd()
				} else {
					dc.SetFillRuleWinding()
				}
				dc.Fill()
			} else {
				dc.SetLineWidth(cmd.LineWidth * scale)
				dc.Stroke()
			}
		}
	}
}
