// Package backdrop draws the animated canvas effects of a marketing page on
// [Ebitengine]: a pointer-reactive wave field, an interactive cell grid with
// fading squares, and a draggable, zoomable dotted globe.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and
// drives a [Page] for you:
//
//	theme := backdrop.NewThemeSignal(backdrop.ThemeDark)
//	page := backdrop.NewPage(backdrop.DetectEnv(), theme)
//	page.Mount("hero", backdrop.NewWaveField(backdrop.WaveConfig{}, theme))
//	page.Mount("cta", backdrop.NewGlobe(backdrop.GlobeConfig{}, theme))
//	backdrop.Run(page, backdrop.RunConfig{Title: "Backdrop"})
//
// For full control, implement [ebiten.Game] yourself and call
// [Page.Update], [Page.Draw] and [Page.Layout] directly.
//
// # Surfaces
//
// Every effect is a [Renderer] bound to a [Surface]. The surface owns the
// backing image sized by the pixel ratio, routes pointer events in local
// coordinates and runs a [VisibilityGate]: a frame loop that only exists
// while the surface intersects the viewport. Renderers that need deferred
// setup implement [Booter]; renderers with per-frame state implement
// [Animator].
//
// With [Env.ReducedMotion] set no loop ever starts. Each surface records a
// single static frame instead, and the globe still loads its dataset.
//
// # Frame loop
//
// [Scheduler] is a single-threaded analog of the browser event loop:
// animation-frame callbacks, idle callbacks with a deadline and
// [Scheduler.Post], the only goroutine-safe entry, which hands background
// results (the globe's dataset fetch) back to the loop.
//
// # Themes
//
// Palettes are memoized per theme by [ColorCache]. A [ThemeSignal] change
// invalidates every cache; the next draw recomputes once.
//
// # Testing
//
// Draw passes record [DrawCommand] lists on a [Canvas], so renderers can be
// tested without a GPU. Input can be injected with [Page.InjectHover],
// [Page.InjectDrag] and friends, or scripted with [LoadTestScript].
//
// [Ebitengine]: https://ebitengine.org
package backdrop
