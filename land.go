package backdrop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultLandURL is the Natural Earth 110m land dataset.
const DefaultLandURL = "https://raw.githubusercontent.com/martynafford/natural-earth-geojson/refs/heads/master/110m/physical/ne_110m_land.json"

// ErrUnsupportedGeometry is returned for features that are neither Polygon
// nor MultiPolygon.
var ErrUnsupportedGeometry = errors.New("backdrop: unsupported geometry")

// LandSource provides the land dataset as a GeoJSON FeatureCollection.
type LandSource interface {
	Load(ctx context.Context) (*geojson.FeatureCollection, error)
}

// HTTPLandSource fetches the dataset over HTTP. Zero fields use
// DefaultLandURL and http.DefaultClient.
type HTTPLandSource struct {
	URL    string
	Client *http.Client
}

// Load fetches and decodes the dataset.
func (s HTTPLandSource) Load(ctx context.Context) (*geojson.FeatureCollection, error) {
	url := s.URL
	if url == "" {
		url = DefaultLandURL
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("load land: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load land: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("load land: %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("load land: %w", err)
	}
	return decodeLand(data)
}

// StaticLandSource serves an embedded or preloaded GeoJSON document.
type StaticLandSource []byte

// Load decodes the document.
func (s StaticLandSource) Load(ctx context.Context) (*geojson.FeatureCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load land: %w", err)
	}
	return decodeLand(s)
}

func decodeLand(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("load land: decode: %w", err)
	}
	return fc, nil
}

// GeoPoint is a (longitude, latitude) pair in degrees.
type GeoPoint struct {
	Lon, Lat float64
}

// LandFeature is one land feature as a list of polygons. Each polygon is a
// list of rings: the first is the outer boundary, the rest are holes.
type LandFeature struct {
	Polygons [][][][]float64

	shape orb.MultiPolygon
}

// NewLandFeature converts a GeoJSON feature. Only Polygon and MultiPolygon
// geometries are accepted.
func NewLandFeature(f *geojson.Feature) (LandFeature, error) {
	if f == nil || f.Geometry == nil {
		return LandFeature{}, fmt.Errorf("%w: missing geometry", ErrUnsupportedGeometry)
	}
	g := f.Geometry
	switch {
	case g.IsPolygon():
		return newLandFeature([][][][]float64{g.Polygon}), nil
	case g.IsMultiPolygon():
		return newLandFeature(g.MultiPolygon), nil
	}
	return LandFeature{}, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.Type)
}

func newLandFeature(polys [][][][]float64) LandFeature {
	return LandFeature{Polygons: polys, shape: toMultiPolygon(polys)}
}

// toMultiPolygon copies raw GeoJSON coordinates into orb geometry,
// dropping malformed positions.
func toMultiPolygon(polys [][][][]float64) orb.MultiPolygon {
	mp := make(orb.MultiPolygon, 0, len(polys))
	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		op := make(orb.Polygon, 0, len(poly))
		for _, ring := range poly {
			r := make(orb.Ring, 0, len(ring))
			for _, pt := range ring {
				if len(pt) < 2 {
					continue
				}
				r = append(r, orb.Point{pt[0], pt[1]})
			}
			op = append(op, r)
		}
		mp = append(mp, op)
	}
	return mp
}

func (f LandFeature) multiPolygon() orb.MultiPolygon {
	if f.shape == nil && len(f.Polygons) > 0 {
		return toMultiPolygon(f.Polygons)
	}
	return f.shape
}

// Contains reports whether (lon, lat) lies inside any polygon of f and
// outside that polygon's holes. Points on an outer ring count as inside,
// points on a hole's ring as outside.
func (f LandFeature) Contains(lon, lat float64) bool {
	return planar.MultiPolygonContains(f.multiPolygon(), orb.Point{lon, lat})
}

// Bounds returns the planar lon/lat bounding box of f. ok is false for a
// feature with no coordinates.
func (f LandFeature) Bounds() (lo, hi GeoPoint, ok bool) {
	b := f.multiPolygon().Bound()
	if b.IsEmpty() {
		return GeoPoint{}, GeoPoint{}, false
	}
	return GeoPoint{b.Min.Lon(), b.Min.Lat()}, GeoPoint{b.Max.Lon(), b.Max.Lat()}, true
}

// Land is a decoded land dataset.
type Land struct {
	Features []LandFeature
	// Skipped counts features dropped for unsupported geometry.
	Skipped int
}

// NewLand converts every supported feature of fc.
func NewLand(fc *geojson.FeatureCollection) *Land {
	l := &Land{}
	if fc == nil {
		return l
	}
	for _, f := range fc.Features {
		lf, err := NewLandFeature(f)
		if err != nil {
			l.Skipped++
			continue
		}
		l.Features = append(l.Features, lf)
	}
	return l
}

// StippleStep is the lattice spacing of land dots in degrees.
const StippleStep = 16 * 0.08

// StippleDots samples f's bounding box on a StippleStep lattice and keeps
// the points that fall on land.
func StippleDots(f LandFeature) []GeoPoint {
	shape := f.multiPolygon()
	b := shape.Bound()
	if b.IsEmpty() {
		return nil
	}
	var dots []GeoPoint
	for lon := b.Min.Lon(); lon <= b.Max.Lon(); lon += StippleStep {
		dots = stippleColumn(dots, shape, b, lon)
	}
	return dots
}

// stippleColumn appends the land dots of one lattice column.
func stippleColumn(dots []GeoPoint, shape orb.MultiPolygon, b orb.Bound, lon float64) []GeoPoint {
	for lat := b.Min.Lat(); lat <= b.Max.Lat(); lat += StippleStep {
		if planar.MultiPolygonContains(shape, orb.Point{lon, lat}) {
			dots = append(dots, GeoPoint{lon, lat})
		}
	}
	return dots
}

// --- Dot builder ---

// dotChunkReserve is the idle time that must remain to stipple another
// lattice column.
const dotChunkReserve = 2 * time.Millisecond

// DotBuilder stipples land features in idle time, one lattice column at a
// time, so no single frame pays for a whole feature.
type DotBuilder struct {
	features []LandFeature
	next     int
	dots     []GeoPoint
	done     bool
	onDone   func()

	// column cursor into features[next]
	open  bool
	shape orb.MultiPolygon
	bound orb.Bound
	lon   float64
}

// NewDotBuilder creates a builder over features. onDone runs once, after the
// last feature.
func NewDotBuilder(features []LandFeature, onDone func()) *DotBuilder {
	return &DotBuilder{features: features, onDone: onDone}
}

// Start queues the first chunk on sched.
func (b *DotBuilder) Start(sched *Scheduler) {
	var chunk func(IdleDeadline)
	chunk = func(d IdleDeadline) {
		if b.Process(d) {
			sched.RequestIdle(chunk)
		}
	}
	sched.RequestIdle(chunk)
}

// Process stipples lattice columns while more than dotChunkReserve of the
// deadline remains, resuming mid-feature on the next call. It returns true
// when work is left.
func (b *DotBuilder) Process(d IdleDeadline) bool {
	if b.done {
		return false
	}
	for b.next < len(b.features) && d.TimeRemaining() > dotChunkReserve {
		if !b.open {
			b.shape = b.features[b.next].multiPolygon()
			b.bound = b.shape.Bound()
			b.lon = b.bound.Min.Lon()
			b.open = true
		}
		if b.bound.IsEmpty() || b.lon > b.bound.Max.Lon() {
			b.next++
			b.open = false
			b.shape = nil
			continue
		}
		b.dots = stippleColumn(b.dots, b.shape, b.bound, b.lon)
		b.lon += StippleStep
	}
	if b.next < len(b.features) {
		return true
	}
	b.done = true
	if b.onDone != nil {
		b.onDone()
	}
	return false
}

// Dots returns the dots generated so far. The slice MUST NOT be mutated.
func (b *DotBuilder) Dots() []GeoPoint {
	return b.dots
}

// Done reports whether every feature has been processed.
func (b *DotBuilder) Done() bool {
	return b.done
}

// Progress returns the number of fully processed features and the total.
func (b *DotBuilder) Progress() (done, total int) {
	return b.next, len(b.features)
}
