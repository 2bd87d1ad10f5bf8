package backdrop

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const deg = math.Pi / 180

// Projection is an orthographic globe projection clipped to the front
// hemisphere. Rotation follows the usual (lambda, phi) convention: the view
// is centered on longitude -Lambda, latitude -Phi.
type Projection struct {
	Lambda, Phi float64 // rotation in degrees
	Scale       float64 // globe radius in px
	CX, CY      float64 // screen center
}

// Center returns the (lon, lat) at the center of the view.
func (p *Projection) Center() (lon, lat float64) {
	return -p.Lambda, -p.Phi
}

// rotate maps (lon, lat) in degrees to a unit vector in view space: x points
// at the viewer, y right, z up.
func (p *Projection) rotate(lon, lat float64) (x, y, z float64) {
	lam := (lon + p.Lambda) * deg
	phi := lat * deg
	cx := math.Cos(phi) * math.Cos(lam)
	cy := math.Cos(phi) * math.Sin(lam)
	cz := math.Sin(phi)
	sin, cos := math.Sincos(p.Phi * deg)
	return cx*cos - cz*sin, cy, cz*cos + cx*sin
}

func (p *Projection) screen(y, z float64) (float64, float64) {
	return p.CX + p.Scale*y, p.CY - p.Scale*z
}

// Project maps (lon, lat) to screen coordinates. visible is false for points
// on the back hemisphere.
func (p *Projection) Project(lon, lat float64) (sx, sy float64, visible bool) {
	x, y, z := p.rotate(lon, lat)
	sx, sy = p.screen(y, z)
	return sx, sy, x > 0
}

// limb projects a view-space vector radially onto the horizon circle.
func (p *Projection) limb(y, z float64) (float64, float64) {
	n := math.Hypot(y, z)
	if n == 0 {
		return p.CX + p.Scale, p.CY
	}
	return p.screen(y/n, z/n)
}

// horizon returns the screen point where the great-circle segment a-b
// crosses the horizon (x = 0).
func (p *Projection) horizon(ax, ay, az, bx, by, bz float64) (float64, float64) {
	t := ax / (ax - bx)
	return p.limb(ay+(by-ay)*t, az+(bz-az)*t)
}

// Distance returns the great-circle distance in radians between two
// (lon, lat) points given in degrees.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2}) / orb.EarthRadius
}

// Line traces a polyline of (lon, lat) points into c, breaking it where it
// passes behind the globe. Each visible run becomes its own sub-path.
func (p *Projection) Line(c *Canvas, pts [][]float64) {
	var px, py, pz float64
	started, prevVisible := false, false
	for _, pt := range pts {
		if len(pt) < 2 {
			continue
		}
		x, y, z := p.rotate(pt[0], pt[1])
		visible := x > 0
		switch {
		case visible && prevVisible:
			c.LineTo(p.screen(y, z))
		case visible && started:
			c.MoveTo(p.horizon(px, py, pz, x, y, z))
			c.LineTo(p.screen(y, z))
		case visible:
			c.MoveTo(p.screen(y, z))
		case prevVisible:
			c.LineTo(p.horizon(px, py, pz, x, y, z))
		}
		px, py, pz = x, y, z
		prevVisible = visible
		started = true
	}
}

// Ring traces a closed ring of (lon, lat) points for filling. Back-facing
// runs are pushed onto the limb so the fill follows the horizon. A ring with
// no visible point is skipped. Returns whether anything was traced.
func (p *Projection) Ring(c *Canvas, ring [][]float64) bool {
	anyVisible := false
	for _, pt := range ring {
		if len(pt) < 2 {
			continue
		}
		if x, _, _ := p.rotate(pt[0], pt[1]); x > 0 {
			anyVisible = true
			break
		}
	}
	if !anyVisible {
		return false
	}

	var px, py, pz float64
	first := true
	prevVisible := false
	emit := func(sx, sy float64) {
		if first {
			c.MoveTo(sx, sy)
			first = false
			return
		}
		c.LineTo(sx, sy)
	}
	for _, pt := range ring {
		if len(pt) < 2 {
			continue
		}
		x, y, z := p.rotate(pt[0], pt[1])
		visible := x > 0
		if !first && visible != prevVisible {
			emit(p.horizon(px, py, pz, x, y, z))
		}
		if visible {
			emit(p.screen(y, z))
		} else {
			emit(p.limb(y, z))
		}
		px, py, pz = x, y, z
		prevVisible = visible
	}
	c.ClosePath()
	return true
}

// --- Graticule ---

// Graticule returns the reference lines of a 10° globe grid as (lon, lat)
// polylines: meridians every 10° between ±80° (the four 90° meridians run
// pole to pole) and parallels every 10° between ±80°, sampled every 2.5°.
func Graticule() [][][]float64 {
	const step, precision = 10.0, 2.5
	var lines [][][]float64
	for lon := -180.0; lon < 180; lon += step {
		limit := 80.0
		if math.Mod(lon, 90) == 0 {
			limit = 90
		}
		var line [][]float64
		for lat := -limit; lat <= limit+1e-9; lat += precision {
			line = append(line, []float64{lon, lat})
		}
		lines = append(lines, line)
	}
	for lat := -80.0; lat <= 80; lat += step {
		var line [][]float64
		for lon := -180.0; lon <= 180+1e-9; lon += precision {
			line = append(line, []float64{lon, lat})
		}
		lines = append(lines, line)
	}
	return lines
}
