package engine

import "time"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Stopwatch measures play time. It keeps an offset restored from a
// snapshot and freezes when stopped.
type Stopwatch struct {
	clock   Clock
	started time.Time
	offset  time.Duration
	frozen  time.Duration
	running bool
}

// NewStopwatch creates a stopped stopwatch reading from clock
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = wallClock{}
	}
	return &Stopwatch{clock: clock}
}

// Start begins measuring from now, on top of any restored offset
func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.started = s.clock.Now()
	s.running = true
}

// Stop freezes the elapsed time
func (s *Stopwatch) Stop() {
	if !s.running {
		return
	}
	s.frozen = s.Elapsed()
	s.offset = s.frozen
	s.running = false
}

// Restore sets the time already spent in a previous run
func (s *Stopwatch) Restore(offset time.Duration) {
	s.offset = offset
	s.frozen = offset
}

// Reset clears everything
func (s *Stopwatch) Reset() {
	s.started = time.Time{}
	s.offset = 0
	s.frozen = 0
	s.running = false
}

// Running reports whether the stopwatch is measuring
func (s *Stopwatch) Running() bool {
	return s.running
}

// Elapsed returns the measured duration
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.running {
		return s.frozen
	}
	return s.offset + s.clock.Now().Sub(s.started)
}
