package backdrop

import "time"

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

// IdleDeadline reports how much of the current idle slice is left.
type IdleDeadline interface {
	TimeRemaining() time.Duration
}

type frameRequest struct {
	id FrameID
	fn func(now float64)
}

const (
	defaultIdleBudget = 8 * time.Millisecond
	postQueueCap      = 64
)

// Scheduler is a single-threaded frame loop: frame callbacks run once per
// Tick, idle callbacks run after them within an idle budget, and Post is the
// one goroutine-safe entry for handing background results back to the loop.
//
// Callbacks requested during a Tick run on the next Tick, matching
// requestAnimationFrame semantics.
type Scheduler struct {
	// IdleBudget is the time slice granted to idle callbacks per Tick.
	IdleBudget time.Duration
	// Clock returns the current time. Tests replace it with a fake.
	Clock func() time.Time

	nextID FrameID
	frames []frameRequest
	running []frameRequest
	idle    []func(IdleDeadline)
	posted  chan func()

	stats schedulerStats
}

type schedulerStats struct {
	framesRun int
	idleRun   int
	postedRun int
}

// NewScheduler creates an empty scheduler using the wall clock.
func NewScheduler() *Scheduler {
	return &Scheduler{
		IdleBudget: defaultIdleBudget,
		Clock:      time.Now,
		posted:     make(chan func(), postQueueCap),
	}
}

// RequestFrame schedules fn for the next Tick.
func (s *Scheduler) RequestFrame(fn func(now float64)) FrameID {
	s.nextID++
	s.frames = append(s.frames, frameRequest{id: s.nextID, fn: fn})
	return s.nextID
}

// CancelFrame removes a pending request. Unknown or zero IDs are ignored.
func (s *Scheduler) CancelFrame(id FrameID) {
	if id == 0 {
		return
	}
	for i := range s.frames {
		if s.frames[i].id == id {
			copy(s.frames[i:], s.frames[i+1:])
			s.frames[len(s.frames)-1] = frameRequest{}
			s.frames = s.frames[:len(s.frames)-1]
			return
		}
	}
}

// PendingFrames returns the number of outstanding frame requests.
func (s *Scheduler) PendingFrames() int {
	return len(s.frames)
}

// RequestIdle schedules fn to run in the idle part of a future Tick.
func (s *Scheduler) RequestIdle(fn func(IdleDeadline)) {
	s.idle = append(s.idle, fn)
}

// PendingIdle returns the number of outstanding idle callbacks.
func (s *Scheduler) PendingIdle() int {
	return len(s.idle)
}

// Post queues fn to run at the start of the next Tick. Safe to call from any
// goroutine.
func (s *Scheduler) Post(fn func()) {
	s.posted <- fn
}

// Tick runs one loop iteration: posted tasks, then the frame callbacks that
// were pending when Tick began, then idle callbacks while budget remains.
func (s *Scheduler) Tick(now float64) {
	s.stats = schedulerStats{}

	for drained := false; !drained; {
		select {
		case fn := <-s.posted:
			fn()
			s.stats.postedRun++
		default:
			drained = true
		}
	}

	s.running = append(s.running[:0], s.frames...)
	clear(s.frames)
	s.frames = s.frames[:0]
	for i := range s.running {
		s.running[i].fn(now)
		s.stats.framesRun++
	}
	clear(s.running)

	s.runIdle()
}

type idleDeadline struct {
	end   time.Time
	clock func() time.Time
}

func (d idleDeadline) TimeRemaining() time.Duration {
	if r := d.end.Sub(d.clock()); r > 0 {
		return r
	}
	return 0
}

// runIdle runs idle callbacks queued before this call. Callbacks that
// re-request idle time land in the next Tick.
func (s *Scheduler) runIdle() {
	if len(s.idle) == 0 {
		return
	}
	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}
	deadline := idleDeadline{end: clock().Add(s.IdleBudget), clock: clock}
	queued := s.idle
	s.idle = nil
	for i, fn := range queued {
		if deadline.TimeRemaining() <= 0 {
			s.idle = append(queued[i:], s.idle...)
			return
		}
		fn(deadline)
		s.stats.idleRun++
	}
}
