package backdrop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsUpdateInterval is how often, in seconds, the overlay text is refreshed.
const fpsUpdateInterval = 0.5

// fpsWidget displays the current FPS and TPS in the top-left corner.
// The backing image is created on first use.
type fpsWidget struct {
	img        *ebiten.Image
	lastUpdate float64
	stale      bool
}

func newFPSWidget() *fpsWidget {
	return &fpsWidget{stale: true}
}

func (w *fpsWidget) update(dt float64) {
	w.lastUpdate += dt
	if w.lastUpdate < fpsUpdateInterval {
		return
	}
	w.lastUpdate = 0
	w.stale = true
}

func (w *fpsWidget) draw(screen *ebiten.Image) {
	if w.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		w.img = ebiten.NewImage(100, 32)
	}
	if w.stale {
		w.stale = false
		w.img.Clear()
		w.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(w.img, nil)
}
