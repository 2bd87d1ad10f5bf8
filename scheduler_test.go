package backdrop

import (
	"sync"
	"testing"
	"time"
)

// stepClock advances by step on every read.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func fixedClock() time.Time {
	return time.Unix(1000, 0)
}

func TestSchedulerFrameRunsOnNextTick(t *testing.T) {
	s := NewScheduler()
	var got []float64
	s.RequestFrame(func(now float64) { got = append(got, now) })
	if s.PendingFrames() != 1 {
		t.Fatalf("PendingFrames = %d, want 1", s.PendingFrames())
	}
	s.Tick(16)
	if len(got) != 1 || got[0] != 16 {
		t.Errorf("frames run = %v, want [16]", got)
	}
	s.Tick(32)
	if len(got) != 1 {
		t.Errorf("frame ran again: %v", got)
	}
}

func TestSchedulerRequestDuringTickWaits(t *testing.T) {
	s := NewScheduler()
	runs := 0
	var loop func(float64)
	loop = func(float64) {
		runs++
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)
	s.Tick(1)
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
	if s.PendingFrames() != 1 {
		t.Errorf("PendingFrames = %d, want 1", s.PendingFrames())
	}
	s.Tick(2)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestSchedulerCancelFrame(t *testing.T) {
	s := NewScheduler()
	ran := false
	id := s.RequestFrame(func(float64) { ran = true })
	s.CancelFrame(0)
	s.CancelFrame(id + 100)
	if s.PendingFrames() != 1 {
		t.Fatalf("unknown IDs should be ignored, PendingFrames = %d", s.PendingFrames())
	}
	s.CancelFrame(id)
	s.Tick(1)
	if ran {
		t.Error("cancelled frame ran")
	}
	if s.PendingFrames() != 0 {
		t.Errorf("PendingFrames = %d, want 0", s.PendingFrames())
	}
}

func TestSchedulerFrameIDsAreUnique(t *testing.T) {
	s := NewScheduler()
	a := s.RequestFrame(func(float64) {})
	b := s.RequestFrame(func(float64) {})
	if a == 0 || b == 0 || a == b {
		t.Errorf("IDs = %d, %d; want distinct and non-zero", a, b)
	}
}

func TestSchedulerPostFromGoroutine(t *testing.T) {
	s := NewScheduler()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(func() {})
		}()
	}
	wg.Wait()

	order := []string{}
	s.Post(func() { order = append(order, "posted") })
	s.RequestFrame(func(float64) { order = append(order, "frame") })
	s.Tick(1)
	if s.stats.postedRun != 9 {
		t.Errorf("postedRun = %d, want 9", s.stats.postedRun)
	}
	if len(order) != 2 || order[0] != "posted" || order[1] != "frame" {
		t.Errorf("order = %v, want [posted frame]", order)
	}
}

func TestSchedulerIdleRunsAfterFrames(t *testing.T) {
	s := NewScheduler()
	s.Clock = fixedClock
	var order []string
	s.RequestIdle(func(d IdleDeadline) {
		order = append(order, "idle")
		if d.TimeRemaining() != s.IdleBudget {
			t.Errorf("TimeRemaining = %v, want %v", d.TimeRemaining(), s.IdleBudget)
		}
	})
	s.RequestFrame(func(float64) { order = append(order, "frame") })
	s.Tick(1)
	if len(order) != 2 || order[0] != "frame" || order[1] != "idle" {
		t.Errorf("order = %v, want [frame idle]", order)
	}
	if s.PendingIdle() != 0 {
		t.Errorf("PendingIdle = %d, want 0", s.PendingIdle())
	}
}

func TestSchedulerIdleBudgetExhausted(t *testing.T) {
	s := NewScheduler()
	clock := &stepClock{t: time.Unix(0, 0), step: 5 * time.Millisecond}
	s.Clock = clock.now
	s.IdleBudget = 8 * time.Millisecond

	runs := 0
	for i := 0; i < 3; i++ {
		s.RequestIdle(func(IdleDeadline) { runs++ })
	}
	s.Tick(1)
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
	if s.PendingIdle() != 2 {
		t.Fatalf("PendingIdle = %d, want 2", s.PendingIdle())
	}
	s.Tick(2)
	s.Tick(3)
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestSchedulerIdleRequeueLandsNextTick(t *testing.T) {
	s := NewScheduler()
	s.Clock = fixedClock
	runs := 0
	var chunk func(IdleDeadline)
	chunk = func(IdleDeadline) {
		runs++
		if runs < 3 {
			s.RequestIdle(chunk)
		}
	}
	s.RequestIdle(chunk)
	for i := 1; i <= 3; i++ {
		s.Tick(float64(i))
		if runs != i {
			t.Fatalf("after tick %d runs = %d, want %d", i, runs, i)
		}
	}
	if s.PendingIdle() != 0 {
		t.Errorf("PendingIdle = %d, want 0", s.PendingIdle())
	}
}
