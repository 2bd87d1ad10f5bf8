package backdrop

import (
	"math"
	"strconv"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// CounterDuration is the count-up length in seconds.
	CounterDuration = 1.8
	// CounterThreshold is the visible fraction of the stats strip that
	// starts the count-up.
	CounterThreshold = 0.35
)

// Counter is a stat number that counts up from zero to Target once.
type Counter struct {
	Label  string
	Target int

	tween *gween.Tween
	value float64
	Done  bool
}

// NewCounter creates a counter showing zero.
func NewCounter(label string, target int) *Counter {
	return &Counter{Label: label, Target: target}
}

// Start begins the count-up over duration seconds with ease-out-cubic.
func (c *Counter) Start(duration float32) {
	c.Done = false
	c.value = 0
	c.tween = gween.New(0, float32(c.Target), duration, ease.OutCubic)
}

// Finish jumps to the target.
func (c *Counter) Finish() {
	c.tween = nil
	c.value = float64(c.Target)
	c.Done = true
}

// Update advances the count-up by dt seconds.
func (c *Counter) Update(dt float32) {
	if c.Done || c.tween == nil {
		return
	}
	val, finished := c.tween.Update(dt)
	c.value = float64(val)
	if finished {
		c.Finish()
	}
}

// Value returns the displayed number: floored while counting, exact at the
// end.
func (c *Counter) Value() int {
	if c.Done {
		return c.Target
	}
	return int(math.Floor(c.value))
}

// Text returns Value formatted for display.
func (c *Counter) Text() string {
	return strconv.Itoa(c.Value())
}

// CounterStrip owns the counters of the stats strip and starts them all the
// first time the strip becomes visible enough. With reduced motion the
// targets are shown from the start.
type CounterStrip struct {
	Counters []*Counter
	Duration float32

	observer  *VisibilityObserver
	triggered bool
}

// NewCounterStrip creates a strip. reduced shows every target immediately.
func NewCounterStrip(reduced bool, counters ...*Counter) *CounterStrip {
	s := &CounterStrip{
		Counters: counters,
		Duration: CounterDuration,
		observer: NewVisibilityObserver(CounterThreshold),
	}
	if reduced {
		s.triggered = true
		for _, c := range counters {
			c.Finish()
		}
	}
	return s
}

// Observe checks the strip box against the viewport and starts the
// count-up on the first intersection. Later intersections are ignored.
func (s *CounterStrip) Observe(box, viewport Rect) {
	if s.triggered {
		return
	}
	if visible, _ := s.observer.Observe(box, viewport); !visible {
		return
	}
	s.triggered = true
	for _, c := range s.Counters {
		c.Start(s.Duration)
	}
}

// Triggered reports whether the count-up has started.
func (s *CounterStrip) Triggered() bool {
	return s.triggered
}

// Update advances every counter by dt seconds.
func (s *CounterStrip) Update(dt float32) {
	for _, c := range s.Counters {
		c.Update(dt)
	}
}

// Animating reports whether any counter is still counting.
func (s *CounterStrip) Animating() bool {
	for _, c := range s.Counters {
		if c.tween != nil && !c.Done {
			return true
		}
	}
	return false
}
