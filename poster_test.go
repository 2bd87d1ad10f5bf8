package backdrop

import (
	"os"
	"path/filepath"
	"testing"
)

func nearByte(got uint32, want uint8) bool {
	d := int(got>>8) - int(want)
	return d >= -1 && d <= 1
}

func TestRenderStillSize(t *testing.T) {
	dc := RenderStill(newTestGrid(10, 10), 200, 100, 2, 0)
	if w, h := dc.Width(), dc.Height(); w != 400 || h != 200 {
		t.Errorf("size = %dx%d, want 400x200", w, h)
	}
	// The left grid line straddles x=0.
	if _, _, _, a := dc.Image().At(0, 50).RGBA(); a == 0 {
		t.Error("expected grid line coverage at the left edge")
	}
}

func TestRenderStillUnbootedGlobe(t *testing.T) {
	dc := RenderStill(NewGlobe(GlobeConfig{}, nil), 800, 800, 1, 0)
	if dc.Width() != 520 {
		t.Errorf("width = %d, want 520", dc.Width())
	}
	if _, _, _, a := dc.Image().At(260, 20).RGBA(); a != 0 {
		t.Error("unbooted globe should paint nothing")
	}
}

func TestPosterBackground(t *testing.T) {
	p := NewPage(DefaultEnv(), NewThemeSignal(ThemeLight))
	p.SetViewport(320, 200)
	r, g, b, _ := p.Poster().Image().At(5, 5).RGBA()
	// #f7f7f5
	if !nearByte(r, 0xf7) || !nearByte(g, 0xf7) || !nearByte(b, 0xf5) {
		t.Errorf("background = %d,%d,%d, want f7f7f5", r>>8, g>>8, b>>8)
	}
}

func TestSurfaceStill(t *testing.T) {
	env := DefaultEnv()
	env.DevicePixelRatio = 2
	s, _ := newTestSurface(&stubRenderer{}, env)
	s.Resize(Rect{Width: 50, Height: 40}, 0)
	s.Render(0)
	dc := s.Still()
	if dc.Width() != 100 || dc.Height() != 80 {
		t.Errorf("size = %dx%d, want 100x80", dc.Width(), dc.Height())
	}
	// The stub fills a 1x1 logical px square: 2x2 device px.
	if _, _, _, a := dc.Image().At(1, 1).RGBA(); a == 0 {
		t.Error("expected the stub fill")
	}
}

func TestSavePoster(t *testing.T) {
	p := newTestPage(DefaultEnv())
	defer p.Close()
	mountAll(t, p)
	p.Update()

	path := filepath.Join(t.TempDir(), "poster.png")
	if err := p.SavePoster(path); err != nil {
		t.Fatalf("SavePoster: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("poster file missing or empty: %v", err)
	}

	if err := p.SavePoster(filepath.Join(t.TempDir(), "missing", "poster.png")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
