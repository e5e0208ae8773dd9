package session

// Scheduler delivers the sprint timer's one-second ticks.
//
// Start arranges for onTick to be called once per second until Stop. Both
// run on the caller's event loop; onTick must never run concurrently with a
// machine command.
type Scheduler interface {
	Start(onTick func())
	Stop()
}

// Countdown guards a Scheduler so that at most one tick stream is active.
// Starting a running countdown or stopping a stopped one does nothing.
type Countdown struct {
	sched   Scheduler
	running bool
}

// NewCountdown wraps sched
func NewCountdown(sched Scheduler) *Countdown {
	return &Countdown{sched: sched}
}

// Start begins ticking unless already running
func (c *Countdown) Start(onTick func()) {
	if c.running {
		return
	}
	c.running = true
	c.sched.Start(onTick)
}

// Stop halts ticking unless already stopped
func (c *Countdown) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.sched.Stop()
}

// Running reports whether ticks are being delivered
func (c *Countdown) Running() bool {
	return c.running
}

// ManualScheduler is a Scheduler driven by hand. Advance delivers ticks
// synchronously, which makes timer behaviour deterministic in tests and in
// hosts that keep their own clock.
type ManualScheduler struct {
	onTick func()
	active bool
	starts int
}

// NewManualScheduler creates a stopped ManualScheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Start(onTick func()) {
	s.onTick = onTick
	s.active = true
	s.starts++
}

func (s *ManualScheduler) Stop() {
	s.active = false
}

// Active reports whether ticks would be delivered
func (s *ManualScheduler) Active() bool {
	return s.active
}

// Starts counts calls to Start
func (s *ManualScheduler) Starts() int {
	return s.starts
}

// Advance delivers up to n ticks, stopping early if a tick stops the
// scheduler. It returns the number delivered.
func (s *ManualScheduler) Advance(n int) int {
	delivered := 0
	for range n {
		if !s.active || s.onTick == nil {
			break
		}
		s.onTick()
		delivered++
	}
	return delivered
}
