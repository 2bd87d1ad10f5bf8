package backdrop

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int // logical px; default 1280
	Height  int // logical px; default 800
	ShowFPS bool
	// Debug enables stderr diagnostics for the page and every surface.
	Debug bool
	// ScreenshotDir overrides Page.ScreenshotDir when set.
	ScreenshotDir string
}

// pageGame adapts a Page to ebiten.Game.
type pageGame struct {
	page *Page
}

func (g *pageGame) Update() error {
	p := g.page
	// The system cursor is hidden while the custom cursor overlay is active.
	if on := p.cursor.Enabled(); on != p.hidCursor {
		p.hidCursor = on
		if on {
			ebiten.SetCursorMode(ebiten.CursorModeHidden)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
	}
	return p.Update()
}

func (g *pageGame) Draw(screen *ebiten.Image) {
	g.page.Draw(screen)
}

func (g *pageGame) Layout(outsideW, outsideH int) (int, int) {
	return g.page.Layout(outsideW, outsideH)
}

// Run opens a resizable window and drives the page until the window is
// closed. The page is closed when Run returns.
func Run(page *Page, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	if cfg.Title == "" {
		cfg.Title = "backdrop"
	}
	page.ShowFPS = cfg.ShowFPS
	if cfg.ScreenshotDir != "" {
		page.ScreenshotDir = cfg.ScreenshotDir
	}
	page.SetDebugMode(cfg.Debug)
	defer page.Close()

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&pageGame{page: page})
}
