package backdrop

import (
	"encoding/json"
	"fmt"
)

// testStep is one scripted action. Which fields apply depends on Action.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Theme  string  `json:"theme,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner replays a scripted visit of the page: pointer input over the
// canvases, scroll jumps, theme flips and captures, one action per frame.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a {"steps": [...]} script. Unknown actions are
// rejected up front.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "screenshot", "move", "click", "press", "release", "drag", "wheel", "scroll", "theme", "wait":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner. It steps at the top of every Update, ahead
// of input.
func (p *Page) SetTestRunner(runner *TestRunner) {
	p.testRunner = runner
}

// Done reports whether the script has run out.
func (r *TestRunner) Done() bool {
	return r.done
}

func (r *TestRunner) step(p *Page) {
	if r.done {
		return
	}
	// A drag spans several frames of queued input.
	if len(p.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		p.Screenshot(st.Label)
	case "move":
		p.InjectHover(st.X, st.Y)
	case "click":
		p.InjectClick(st.X, st.Y)
	case "press":
		p.InjectPress(st.X, st.Y)
	case "release":
		p.InjectRelease(st.X, st.Y)
	case "drag":
		p.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wheel":
		p.InjectWheel(st.X, st.Y, st.DeltaY)
	case "scroll":
		p.ScrollTo(st.Y, false)
	case "theme":
		if st.Theme == "" {
			p.theme.Toggle()
		} else {
			p.theme.Set(ParseTheme(st.Theme))
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(p.injectQueue) == 0 {
		r.done = true
	}
}
