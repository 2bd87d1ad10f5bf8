package backdrop

import (
	"fmt"

	"github.com/fogleman/gg"
)

// RenderStill records a single frame of r at the container size (cw, ch)
// and paints it into a new gg context at the given pixel ratio. Renderers
// that boot are drawn in their pre-boot state.
func RenderStill(r Renderer, cw, ch, scale, now float64) *gg.Context {
	if scale <= 0 {
		scale = 1
	}
	w, h := r.Layout(cw, ch)
	r.Resize(w, h, now)
	cv := NewCanvas(w, h)
	r.Draw(cv, now)
	dc := gg.NewContext(int(w*scale), int(h*scale))
	cv.Paint(dc, scale)
	return dc
}

// Still paints the surface's last recorded frame at its pixel ratio.
func (s *Surface) Still() *gg.Context {
	dc := gg.NewContext(max(s.backingW, 1), max(s.backingH, 1))
	s.canvas.Paint(dc, s.scale)
	return dc
}

// Poster paints the visible part of the document on the theme background:
// every surface's last recording at its on-screen position. Counters and
// the cursor overlay are not included.
func (p *Page) Poster() *gg.Context {
	ss := p.screenScale
	dc := gg.NewContext(max(int(p.width*ss), 1), max(int(p.height*ss), 1))
	bg := Background(p.theme.Theme())
	dc.SetRGBA(bg.R, bg.G, bg.B, bg.A)
	dc.Clear()

	vp := p.Viewport()
	for _, s := range p.surfaces {
		b := s.Bounds()
		if s.Rendered() == 0 || b.Intersection(vp).Area() <= 0 {
			continue
		}
		dc.Push()
		dc.Translate(b.X*ss, (b.Y-p.scrollY)*ss)
		s.canvas.Paint(dc, ss)
		dc.Pop()
	}
	return dc
}

// SavePoster writes Poster to a PNG file.
func (p *Page) SavePoster(path string) error {
	if err := p.Poster().SavePNG(path); err != nil {
		return fmt.Errorf("save poster %s: %w", path, err)
	}
	return nil
}
