package backdrop

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"globe-drag", "globe-drag"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	p := NewPage(DefaultEnv(), nil)
	p.Screenshot("a")
	p.Screenshot("b")
	p.Screenshot("c")
	if len(p.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(p.screenshotQueue))
	}
	if p.screenshotQueue[0] != "a" || p.screenshotQueue[1] != "b" || p.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", p.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	p := NewPage(DefaultEnv(), nil)
	if p.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", p.ScreenshotDir, "screenshots")
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 200, // half-ish alpha
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)
	if c := img.NRGBAAt(0, 0); c.R != 127 || c.G != 63 || c.A != 200 {
		t.Errorf("pixel 0 = %+v, want R=127 G=63 A=200", c)
	}
	if c := img.NRGBAAt(1, 0); c.R != 10 || c.G != 20 || c.B != 30 || c.A != 255 {
		t.Errorf("pixel 1 = %+v, want unchanged", c)
	}
	if c := img.NRGBAAt(2, 0); c.A != 0 {
		t.Errorf("pixel 2 = %+v, want transparent", c)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	img := unpremultiply([]byte{1, 2, 3, 255}, 1, 1)
	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("bounds = %v, want 1x1", b)
	}
}
