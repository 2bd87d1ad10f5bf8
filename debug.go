package backdrop

import (
	"fmt"
	"os"
)

// debugStats holds per-frame loop and draw-call metrics.
// Only reported when Page.debug is true.
type debugStats struct {
	activeLoops int
	commands    int
	drawCalls   int
	framesRun   int
	idleRun     int
	postedRun   int
	pendingIdle int
}

// debugLogInterval is how many frames pass between two stat lines.
const debugLogInterval = 60

// debugf prints a page-level diagnostic to stderr when debug mode is on.
func (p *Page) debugf(format string, args ...any) {
	if !p.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[backdrop] page: "+format+"\n", args...)
}

// collectStats snapshots scheduler and surface counters for this frame.
func (p *Page) collectStats() {
	st := &p.stats
	st.framesRun = p.sched.stats.framesRun
	st.idleRun = p.sched.stats.idleRun
	st.postedRun = p.sched.stats.postedRun
	st.pendingIdle = p.sched.PendingIdle()
	st.activeLoops = 0
	st.commands = 0
	for _, s := range p.surfaces {
		if s.gate.Running() {
			st.activeLoops++
		}
		st.commands += len(s.canvas.Commands())
	}
}

// debugLog prints loop and draw-call stats to stderr about once a second.
func (p *Page) debugLog() {
	if !p.debug || p.frames%debugLogInterval != 0 {
		return
	}
	st := p.stats
	_, _ = fmt.Fprintf(os.Stderr,
		"[backdrop] loops: %d/%d | frames run: %d | idle run: %d (pending %d) | posted: %d\n",
		st.activeLoops, len(p.surfaces), st.framesRun, st.idleRun, st.pendingIdle, st.postedRun)
	_, _ = fmt.Fprintf(os.Stderr,
		"[backdrop] commands: %d | draw calls: %d | scroll: %.0f/%.0f\n",
		st.commands, st.drawCalls, p.scrollY, p.maxScroll())
}
