package backdrop

import (
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
)

// Env is the platform snapshot taken once at startup and injected into every
// component. Nothing in the package re-reads platform flags after this.
type Env struct {
	// ReducedMotion disables animation loops; surfaces render one static
	// frame instead.
	ReducedMotion bool
	// TouchCapable disables the custom cursor overlay.
	TouchCapable bool
	// ResizeObservation selects per-container resize tracking. When false
	// surfaces are only resized when the window size changes.
	ResizeObservation bool
	// DevicePixelRatio is the raw device scale factor.
	DevicePixelRatio float64
	// MaxPixelRatio caps DevicePixelRatio for backing buffers. Zero means 2.
	MaxPixelRatio float64
}

// DefaultEnv returns an Env for a non-touch desktop with motion enabled.
func DefaultEnv() Env {
	return Env{
		ResizeObservation: true,
		DevicePixelRatio:  1,
		MaxPixelRatio:     2,
	}
}

// DetectEnv builds an Env from the running platform. The reduced-motion
// preference is read from BACKDROP_REDUCED_MOTION ("1" or "true").
func DetectEnv() Env {
	env := DefaultEnv()
	if m := ebiten.Monitor(); m != nil {
		env.DevicePixelRatio = m.DeviceScaleFactor()
	}
	if v, err := strconv.ParseBool(os.Getenv("BACKDROP_REDUCED_MOTION")); err == nil {
		env.ReducedMotion = v
	}
	env.TouchCapable = isTouchPlatform()
	return env
}

// PixelRatio returns the effective backing-buffer scale factor.
func (e Env) PixelRatio() float64 {
	ratio := e.DevicePixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	max := e.MaxPixelRatio
	if max <= 0 {
		max = 2
	}
	if ratio > max {
		return max
	}
	return ratio
}

// isTouchPlatform reports whether touches are the primary input. Ebitengine
// only exposes touches on mobile and browsers, so any active touch ID at
// startup or a mobile GOOS counts.
func isTouchPlatform() bool {
	if len(ebiten.AppendTouchIDs(nil)) > 0 {
		return true
	}
	return isMobileGOOS
}
